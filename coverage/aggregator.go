// Package coverage merges isovists into one coverage region and measures how
// much of each room it covers.
//
// The boolean algebra itself is delegated to an Engine; the Aggregator owns
// quantization, orientation, degenerate-input handling and area bookkeeping.
package coverage

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/isovist"
	"github.com/gogpu/isovist/lattice"
)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithEngine replaces the default ClipperEngine.
func WithEngine(e Engine) Option {
	return func(a *Aggregator) {
		a.engine = e
	}
}

// WithFillRule sets the fill rule used for union and intersection.
// The default is Positive.
func WithFillRule(f FillRule) Option {
	return func(a *Aggregator) {
		a.fill = f
	}
}

// Aggregator performs the union and per-room intersection of one run.
// Every loop it touches is quantized with the same Quantizer.
//
// An Aggregator holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	q      lattice.Quantizer
	engine Engine
	fill   FillRule
}

// NewAggregator returns an Aggregator quantizing with q.
func NewAggregator(q lattice.Quantizer, opts ...Option) *Aggregator {
	a := &Aggregator{
		q:      q,
		engine: ClipperEngine{},
		fill:   Positive,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Quantizer returns the quantizer shared by all operations of a.
func (a *Aggregator) Quantizer() lattice.Quantizer {
	return a.q
}

// Union merges isovists into one coverage region. Clockwise isovists are
// reversed first. Zero isovists yield an empty region. A loop with fewer than three points returns ErrShortLoop.
func (a *Aggregator) Union(isovists []isovist.Polygon) (*Region, error) {
	log := isovist.Logger()
	region := &Region{q: a.q}
	if len(isovists) == 0 {
		log.Info("no isovists, coverage is empty")
		return region, nil
	}

	rings := make([]lattice.Ring, 0, len(isovists))
	for i, poly := range isovists {
		if len(poly) < 3 {
			return nil, fmt.Errorf("%w: isovist %d has %d points", ErrShortLoop, i, len(poly))
		}
		r := a.q.QuantizeRing(poly)
		if len(r) < 3 {
			log.Debug("isovist collapsed on the lattice", slog.Int("index", i))
			continue
		}
		if r.DoubleArea() < 0 {
			r = r.Reverse()
		}
		rings = append(rings, r)
	}
	if len(rings) == 0 {
		return region, nil
	}

	out, err := a.engine.Union(rings, a.fill)
	if err != nil {
		return nil, fmt.Errorf("coverage: union of %d isovists: %w", len(rings), err)
	}
	region.rings = out
	log.Info("coverage built",
		slog.Int("isovists", len(rings)),
		slog.Int("loops", len(out)),
		slog.Float64("area", region.Area()),
	)
	return region, nil
}

// Intersect returns the area of room covered by region, summing every
// disjoint piece. A room whose boundary is not a closed simple loop yields
// *MalformedBoundaryError.
func (a *Aggregator) Intersect(region *Region, room isovist.Room) (float64, error) {
	pieces, err := a.intersect(region, room)
	if err != nil {
		return 0, err
	}
	return netArea(a.q, pieces), nil
}

// Pieces returns the covered parts of room in plan coordinates.
func (a *Aggregator) Pieces(region *Region, room isovist.Room) ([]isovist.Polygon, error) {
	pieces, err := a.intersect(region, room)
	if err != nil {
		return nil, err
	}
	out := make([]isovist.Polygon, len(pieces))
	for i, p := range pieces {
		out[i] = a.q.DequantizeRing(p)
	}
	return out, nil
}

func (a *Aggregator) intersect(region *Region, room isovist.Room) ([]lattice.Ring, error) {
	clip := a.q.QuantizeRing(room.Boundary)
	if reason := ValidateBoundary(clip); reason != "" {
		return nil, &MalformedBoundaryError{Room: room.Label(), Reason: reason}
	}
	if clip.DoubleArea() < 0 {
		clip = clip.Reverse()
	}
	if region.Empty() {
		return nil, nil
	}
	if region.q != a.q {
		return nil, fmt.Errorf("coverage: region quantized at scale %g, aggregator at %g",
			region.q.Scale(), a.q.Scale())
	}

	pieces, err := a.engine.Intersect(region.rings, clip, a.fill)
	if err != nil {
		return nil, fmt.Errorf("coverage: intersect room %q: %w", room.Label(), err)
	}
	return pieces, nil
}
