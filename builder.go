package isovist

import (
	"math"

	"github.com/gogpu/isovist/internal/faceindex"
)

// obstacle is a face with its centroid resolved once.
type obstacle struct {
	face     Face
	centroid Point3
}

// Builder casts ray fans against a fixed obstacle set.
//
// A Builder is immutable after construction and safe for concurrent use:
// Build may be called from many goroutines at once.
type Builder struct {
	cfg   Config
	index *faceindex.Index[obstacle]
	dirs  []Point
}

// NewBuilder indexes the obstacle faces for repeated isovist construction.
func NewBuilder(faces []Face, cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, ErrNoFaces
	}

	obs := make([]obstacle, len(faces))
	for i, f := range faces {
		obs[i] = obstacle{face: f, centroid: Centroid(f)}
	}

	return &Builder{
		cfg: cfg,
		index: faceindex.New(obs, func(o obstacle) (float64, float64) {
			return o.centroid.X, o.centroid.Y
		}),
		dirs: rayDirections(cfg),
	}, nil
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() Config {
	return b.cfg
}

// rayDirections spaces NumRays unit vectors evenly over [StartAngle, EndAngle).
func rayDirections(cfg Config) []Point {
	start := cfg.StartAngle * math.Pi / 180
	step := (cfg.EndAngle - cfg.StartAngle) * math.Pi / 180 / float64(cfg.NumRays)

	dirs := make([]Point, cfg.NumRays)
	for i := range dirs {
		a := start + float64(i)*step
		dirs[i] = Point{X: math.Cos(a), Y: math.Sin(a)}
	}
	return dirs
}

// candidates returns the faces whose centroid lies within the pruning band
// of the viewpoint.
func (b *Builder) candidates(o Point3) []Face {
	band := b.cfg.PruneFraction * b.cfg.Radius
	near := b.index.Within(o.X, o.Y, band)

	faces := make([]Face, 0, len(near))
	for _, ob := range near {
		if o.Distance(ob.centroid) <= band {
			faces = append(faces, ob.face)
		}
	}
	return faces
}

// Build returns the isovist of one viewpoint as a counter-clockwise loop of
// ray endpoints in increasing angle order.
//
// For every ray the nearest hit farther than SelfHitEpsilon wins; rays that
// reach the radius unobstructed are handled by the configured EdgePolicy.
// When fewer than three endpoints survive, Build returns
// *DegenerateIsovistError and no polygon.
func (b *Builder) Build(vp Viewpoint) (Polygon, error) {
	o := vp.Point
	faces := b.candidates(o)

	pts := make(Polygon, 0, len(b.dirs))
	for _, d := range b.dirs {
		r := Ray{Origin: o, Dir: d, Length: b.cfg.Radius}

		best := r.Length
		var hit Point3
		obstructed := false
		for _, f := range faces {
			p, ok := f.Intersect(r)
			if !ok {
				continue
			}
			dist := p.Distance(o)
			if dist < b.cfg.SelfHitEpsilon {
				continue
			}
			if dist < best {
				best, hit, obstructed = dist, p, true
			}
		}

		if pt, ok := b.cfg.EdgePolicy.endpoint(r, hit, obstructed); ok {
			pts = append(pts, pt)
		}
	}

	if len(pts) < 3 {
		return nil, &DegenerateIsovistError{Viewpoint: vp, Survivors: len(pts)}
	}
	Logger().Debug("isovist built",
		"wall", vp.WallID,
		"faces", len(faces),
		"vertices", len(pts),
	)
	return pts, nil
}
