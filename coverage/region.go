package coverage

import (
	"math"

	"github.com/gogpu/isovist"
	"github.com/gogpu/isovist/lattice"
)

// Region is the union of all isovists of one run: zero or more disjoint
// loops, possibly with holes. A Region is tied to the Quantizer that built
// it and is only meaningful to the Aggregator that produced it.
type Region struct {
	q     lattice.Quantizer
	rings []lattice.Ring
}

// Empty reports whether the region covers nothing. An empty region is the
// legitimate result of a run without viewpoints.
func (r *Region) Empty() bool {
	return r == nil || len(r.rings) == 0
}

// Len returns the number of loops, holes included.
func (r *Region) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rings)
}

// Rings returns the lattice loops of the region. The slice must not be
// modified.
func (r *Region) Rings() []lattice.Ring {
	if r == nil {
		return nil
	}
	return r.rings
}

// Area returns the covered area in plan units. Holes are subtracted.
func (r *Region) Area() float64 {
	if r.Empty() {
		return 0
	}
	return netArea(r.q, r.rings)
}

// Polygons returns the region's loops in plan coordinates.
func (r *Region) Polygons() []isovist.Polygon {
	if r.Empty() {
		return nil
	}
	out := make([]isovist.Polygon, len(r.rings))
	for i, ring := range r.rings {
		out[i] = r.q.DequantizeRing(ring)
	}
	return out
}

// netArea sums signed loop areas so that clockwise holes cancel the loops
// they sit in.
func netArea(q lattice.Quantizer, rings []lattice.Ring) float64 {
	var sum float64
	for _, ring := range rings {
		sum += q.Area(ring)
	}
	return math.Abs(sum)
}
