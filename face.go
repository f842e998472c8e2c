package isovist

import "math"

// Face is a planar obstacle surface.
//
// The builder only uses a face through its centroid (Evaluate(0.5, 0.5)) and
// its ray intersection. Implementations must be safe for concurrent reads:
// isovists for different viewpoints are built in parallel against the same
// face set.
type Face interface {
	// Area returns the surface area of the face.
	Area() float64

	// Evaluate maps normalized surface parameters (u, v) in [0, 1] to a
	// model-space point.
	Evaluate(u, v float64) Point3

	// Intersect returns the first point where the ray crosses the face, or
	// false when the ray misses it within its length.
	Intersect(r Ray) (Point3, bool)
}

// Centroid returns the parametric center of a face.
func Centroid(f Face) Point3 {
	return f.Evaluate(0.5, 0.5)
}

// Ray is a bounded horizontal ray at the elevation of its origin.
type Ray struct {
	Origin Point3
	Dir    Point // unit direction in plan
	Length float64
}

// End returns the far end of the ray.
func (r Ray) End() Point3 {
	return r.At(r.Length)
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Point3 {
	return Point3{
		X: r.Origin.X + r.Dir.X*t,
		Y: r.Origin.Y + r.Dir.Y*t,
		Z: r.Origin.Z,
	}
}

// Panel is a vertical rectangular face standing on the plan segment A-B
// between elevations Bottom and Top. Wall sides, jambs, end caps, sills and
// heads are all panels.
type Panel struct {
	A, B        Point
	Bottom, Top float64
}

// Area returns the panel's surface area.
func (p Panel) Area() float64 {
	return p.A.Distance(p.B) * math.Max(p.Top-p.Bottom, 0)
}

// Evaluate maps u along A-B and v from Bottom to Top.
func (p Panel) Evaluate(u, v float64) Point3 {
	return Point3{
		X: p.A.X + (p.B.X-p.A.X)*u,
		Y: p.A.Y + (p.B.Y-p.A.Y)*u,
		Z: p.Bottom + (p.Top-p.Bottom)*v,
	}
}

// Intersect solves origin + t*dir = A + s*(B-A) for t in [0, Length] and
// s in [0, 1]. Rays running parallel to the panel never hit it.
func (p Panel) Intersect(r Ray) (Point3, bool) {
	if r.Origin.Z < p.Bottom || r.Origin.Z > p.Top {
		return Point3{}, false
	}

	seg := p.B.Sub(p.A)
	denominator := r.Dir.Cross(seg)
	if math.Abs(denominator) < 1e-12 {
		return Point3{}, false
	}

	diff := p.A.Sub(r.Origin.Plan())
	s := diff.Cross(r.Dir) / denominator
	t := diff.Cross(seg) / denominator

	if s < 0 || s > 1 || t < 0 || t > r.Length {
		return Point3{}, false
	}
	return r.At(t), true
}
