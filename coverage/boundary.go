package coverage

import (
	"github.com/gogpu/isovist/lattice"
)

// ValidateBoundary checks that a quantized room loop is closed and simple:
// at least three distinct vertices, no two non-adjacent edges touching and
// non-zero area. It returns the reason for the first failure, or "".
// Crossings are reported before area, so a symmetric bowtie is
// self-intersecting rather than empty.
func ValidateBoundary(r lattice.Ring) string {
	r = r.Compact()
	if len(r) < 3 {
		return "fewer than 3 distinct vertices"
	}

	n := len(r)
	for i := 0; i < n; i++ {
		a0, a1 := r[i], r[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Adjacent edges share a vertex by construction.
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b0, b1 := r[j], r[(j+1)%n]
			if segmentsTouch(a0, a1, b0, b1) {
				return "self-intersecting loop"
			}
		}
	}
	if r.DoubleArea() == 0 {
		return "zero area"
	}
	return ""
}

// orient returns the sign of the cross product (b-a) x (c-a).
func orient(a, b, c lattice.Point) int {
	v := float64(b.X-a.X)*float64(c.Y-a.Y) - float64(b.Y-a.Y)*float64(c.X-a.X)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// onSegment reports whether c, known to be collinear with a-b, lies on it.
func onSegment(a, b, c lattice.Point) bool {
	return min(a.X, b.X) <= c.X && c.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= c.Y && c.Y <= max(a.Y, b.Y)
}

// segmentsTouch reports whether closed segments p0-p1 and q0-q1 share a point.
func segmentsTouch(p0, p1, q0, q1 lattice.Point) bool {
	d1 := orient(q0, q1, p0)
	d2 := orient(q0, q1, p1)
	d3 := orient(p0, p1, q0)
	d4 := orient(p0, p1, q1)

	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	return (d1 == 0 && onSegment(q0, q1, p0)) ||
		(d2 == 0 && onSegment(q0, q1, p1)) ||
		(d3 == 0 && onSegment(p0, p1, q0)) ||
		(d4 == 0 && onSegment(p0, p1, q1))
}
