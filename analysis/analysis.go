// Package analysis runs the complete exterior-view pipeline over one scene
// snapshot: opening detection, parallel isovist construction, coverage
// union and the per-room report.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/isovist"
	"github.com/gogpu/isovist/coverage"
	"github.com/gogpu/isovist/internal/cache"
	"github.com/gogpu/isovist/internal/parallel"
	"github.com/gogpu/isovist/lattice"
	"github.com/gogpu/isovist/report"
)

// Sentinel errors that abort a run.
var (
	// ErrNoRooms is returned when a run has no rooms to report on.
	ErrNoRooms = errors.New("analysis: no rooms")

	// ErrNoObstacles is returned when an Analyzer is created without faces.
	ErrNoObstacles = errors.New("analysis: no obstacle faces")
)

// DefaultCacheSize is the number of isovists an Analyzer remembers.
const DefaultCacheSize = 4096

// Input is the per-run part of a scene snapshot.
type Input struct {
	Probes []isovist.Probe
	Rooms  []isovist.Room
}

// Result is the outcome of one run.
type Result struct {
	// RunID identifies the run in logs and exports.
	RunID uuid.UUID

	// Viewpoints are the distinct viewpoints of the run in detection order.
	Viewpoints []isovist.Viewpoint

	// Isovists holds the usable isovists in viewpoint order. Degenerate
	// viewpoints have no entry.
	Isovists []isovist.Polygon

	Coverage *coverage.Region
	Records  []report.Record

	// Warnings collects every recovered error in detection order:
	// *isovist.InsufficientHitsError, *isovist.DegenerateIsovistError and
	// *coverage.MalformedBoundaryError.
	Warnings []error

	// CacheHits counts the isovists reused from earlier runs.
	CacheHits int

	// Cached is the number of isovists the analyzer remembers after the run.
	Cached int

	Elapsed time.Duration
}

// Option configures an Analyzer.
type Option func(*options)

type options struct {
	cacheSize int
	agg       []coverage.Option
}

// WithCacheSize bounds the isovist memo. Zero disables reuse across runs.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithCoverageOptions passes options to the coverage aggregator.
func WithCoverageOptions(opts ...coverage.Option) Option {
	return func(o *options) {
		o.agg = append(o.agg, opts...)
	}
}

// outcome is a finished isovist build, successful or not.
type outcome struct {
	poly isovist.Polygon
	err  error
}

func buildOutcome(b *isovist.Builder, vp isovist.Viewpoint) outcome {
	poly, err := b.Build(vp)
	return outcome{poly: poly, err: err}
}

// Analyzer holds the obstacle index and coverage machinery for a fixed set
// of faces. Runs may be repeated with different probes and rooms; isovists
// are remembered between runs.
//
// An Analyzer is safe for concurrent use.
type Analyzer struct {
	cfg     isovist.Config
	builder *isovist.Builder
	agg     *coverage.Aggregator
	memo    *cache.Cache[lattice.Point, isovist.Polygon]
}

// New indexes faces for analysis under cfg.
func New(faces []isovist.Face, cfg isovist.Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	if len(faces) == 0 {
		return nil, ErrNoObstacles
	}

	o := options{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	b, err := isovist.NewBuilder(faces, cfg)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	q, err := lattice.New(cfg.Scale)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	a := &Analyzer{
		cfg:     cfg,
		builder: b,
		agg:     coverage.NewAggregator(q, o.agg...),
	}
	if o.cacheSize > 0 {
		a.memo = cache.New[lattice.Point, isovist.Polygon](o.cacheSize)
	}
	return a, nil
}

// Config returns the configuration of the analyzer.
func (a *Analyzer) Config() isovist.Config {
	return a.cfg
}

// Aggregator returns the aggregator shared by all runs; exporters use it to
// recover per-room pieces.
func (a *Analyzer) Aggregator() *coverage.Aggregator {
	return a.agg
}

// Run analyses one snapshot. It fails only on missing rooms, cancellation or
// an invariant violation; every other problem is recorded in
// Result.Warnings.
func (a *Analyzer) Run(ctx context.Context, in Input) (*Result, error) {
	if len(in.Rooms) == 0 {
		return nil, ErrNoRooms
	}

	start := time.Now()
	res := &Result{RunID: uuid.New()}
	log := isovist.Logger().With(slog.String("run", res.RunID.String()))
	log.Info("run started", slog.Int("probes", len(in.Probes)), slog.Int("rooms", len(in.Rooms)))

	vps, skipped := isovist.Viewpoints(in.Probes, a.cfg.EyeElevation)
	res.Warnings = append(res.Warnings, skipped...)
	res.Viewpoints = a.dedupe(vps)

	var hits atomic.Int64
	pool := parallel.New(a.cfg.WorkerCount())
	defer pool.Close()
	log.Debug("building isovists", slog.Int("viewpoints", len(res.Viewpoints)), slog.Int("workers", pool.Workers()))
	outcomes, err := parallel.Map(ctx, pool, res.Viewpoints, func(vp isovist.Viewpoint) outcome {
		return a.build(vp, &hits)
	})
	if err != nil {
		return nil, fmt.Errorf("analysis: build isovists: %w", err)
	}
	res.CacheHits = int(hits.Load())
	if a.memo != nil {
		st := a.memo.Stats()
		res.Cached = st.Len
		log.Debug("isovist cache",
			slog.Int("len", st.Len),
			slog.Int("capacity", st.Capacity),
			slog.Uint64("hits", st.Hits),
			slog.Uint64("misses", st.Misses),
		)
	}

	for _, o := range outcomes {
		if o.err != nil {
			log.Warn("viewpoint skipped", slog.Any("err", o.err))
			res.Warnings = append(res.Warnings, o.err)
			continue
		}
		res.Isovists = append(res.Isovists, o.poly)
	}

	region, err := a.agg.Union(res.Isovists)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	res.Coverage = region

	res.Records = report.Build(a.agg, region, in.Rooms)
	for _, r := range res.Records {
		if r.Err != nil {
			res.Warnings = append(res.Warnings, r.Err)
		}
	}

	res.Elapsed = time.Since(start)
	log.Info("run finished",
		slog.Int("viewpoints", len(res.Viewpoints)),
		slog.Int("isovists", len(res.Isovists)),
		slog.Int("cache_hits", res.CacheHits),
		slog.Float64("coverage", region.Area()),
		slog.Int("warnings", len(res.Warnings)),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// dedupe drops viewpoints that land on the same lattice point as an
// earlier one.
func (a *Analyzer) dedupe(vps []isovist.Viewpoint) []isovist.Viewpoint {
	q := a.agg.Quantizer()
	seen := make(map[lattice.Point]struct{}, len(vps))
	out := make([]isovist.Viewpoint, 0, len(vps))
	for _, vp := range vps {
		k := q.Quantize(vp.Point.Plan())
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, vp)
	}
	return out
}

// build returns the isovist of vp, reusing an earlier isovist built at the
// same lattice point. Degenerate viewpoints are not remembered.
func (a *Analyzer) build(vp isovist.Viewpoint, hits *atomic.Int64) outcome {
	if a.memo == nil {
		return buildOutcome(a.builder, vp)
	}

	k := a.agg.Quantizer().Quantize(vp.Point.Plan())
	if poly, ok := a.memo.Get(k); ok {
		hits.Add(1)
		return outcome{poly: poly}
	}
	o := buildOutcome(a.builder, vp)
	if o.err == nil {
		a.memo.Put(k, o.poly)
	}
	return o
}
