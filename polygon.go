package isovist

import "math"

// Polygon is a closed loop of plan points. The closing edge from the last
// point back to the first is implicit.
type Polygon []Point

// Area returns the signed area enclosed by the loop.
// Positive for counter-clockwise loops, negative for clockwise.
// Uses the shoelace formula; self-crossing loops yield the net winding area.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var area float64
	prev := p[len(p)-1]
	for _, cur := range p {
		area += lineArea(prev, cur)
		prev = cur
	}
	return area
}

// lineArea computes the contribution of one edge to the signed area:
// 0.5 * (x0*y1 - x1*y0).
func lineArea(p0, p1 Point) float64 {
	return 0.5 * (p0.X*p1.Y - p1.X*p0.Y)
}

// Reversed returns a copy of the loop with the opposite orientation.
func (p Polygon) Reversed() Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the loop.
func (p Polygon) Bounds() (min, max Point) {
	if len(p) == 0 {
		return Point{}, Point{}
	}
	min = Point{X: math.Inf(1), Y: math.Inf(1)}
	max = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, pt := range p {
		min.X = math.Min(min.X, pt.X)
		min.Y = math.Min(min.Y, pt.Y)
		max.X = math.Max(max.X, pt.X)
		max.Y = math.Max(max.Y, pt.Y)
	}
	return min, max
}

// Winding returns how many times the loop turns counter-clockwise around
// pt: positive inside a counter-clockwise loop, negative inside a clockwise
// one and 0 outside. The result for points on the loop is unspecified.
func (p Polygon) Winding(pt Point) int {
	if len(p) < 3 {
		return 0
	}
	w := 0
	a := p[len(p)-1]
	for _, b := range p {
		side := b.Sub(a).Cross(pt.Sub(a))
		switch {
		case a.Y <= pt.Y && b.Y > pt.Y && side > 0:
			w++
		case a.Y > pt.Y && b.Y <= pt.Y && side < 0:
			w--
		}
		a = b
	}
	return w
}
