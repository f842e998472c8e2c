// Package lattice maps plan coordinates onto a fixed integer lattice.
//
// Robust polygon booleans need exact arithmetic, so every polygon that takes
// part in one boolean operation is quantized with the same Quantizer. Mixing
// scales inside one operation produces seams and false gaps.
package lattice

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/isovist"
)

// MaxCoord is the largest magnitude a lattice coordinate may take. Larger
// values are clamped. It matches the full range of 64-bit scan-line clippers.
const MaxCoord = 1<<62 - 1

// ErrInvalidScale is returned by New for a zero, negative or non-finite scale.
var ErrInvalidScale = errors.New("lattice: invalid scale")

// Point is an integer lattice coordinate.
type Point struct {
	X, Y int64
}

// Ring is a closed loop of lattice points. The closing edge is implicit.
type Ring []Point

// Quantizer converts between plan and lattice coordinates at one scale.
// The zero value is not usable; create one with New.
type Quantizer struct {
	scale float64
}

// New returns a Quantizer mapping one plan unit to scale lattice units.
func New(scale float64) (Quantizer, error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return Quantizer{}, fmt.Errorf("%w: %g", ErrInvalidScale, scale)
	}
	return Quantizer{scale: scale}, nil
}

// Scale returns lattice units per plan unit.
func (q Quantizer) Scale() float64 {
	return q.scale
}

// Quantize maps a plan point to the nearest lattice point, rounding half away
// from zero. Coordinates within half a lattice unit of zero collapse to 0.
func (q Quantizer) Quantize(p isovist.Point) Point {
	return Point{X: q.toLattice(p.X), Y: q.toLattice(p.Y)}
}

func (q Quantizer) toLattice(v float64) int64 {
	s := v * q.scale
	switch {
	case math.IsNaN(s), math.Abs(s) < 0.5:
		return 0
	case s >= MaxCoord:
		return MaxCoord
	case s <= -MaxCoord:
		return -MaxCoord
	}
	return int64(math.Round(s))
}

// Dequantize maps a lattice point back to plan coordinates.
func (q Quantizer) Dequantize(p Point) isovist.Point {
	return isovist.Point{X: float64(p.X) / q.scale, Y: float64(p.Y) / q.scale}
}

// QuantizeRing quantizes a loop and removes the repeated vertices that
// collapse onto the same lattice point.
func (q Quantizer) QuantizeRing(poly isovist.Polygon) Ring {
	r := make(Ring, 0, len(poly))
	for _, p := range poly {
		r = append(r, q.Quantize(p))
	}
	return r.Compact()
}

// DequantizeRing maps a lattice loop back to plan coordinates.
func (q Quantizer) DequantizeRing(r Ring) isovist.Polygon {
	poly := make(isovist.Polygon, len(r))
	for i, p := range r {
		poly[i] = q.Dequantize(p)
	}
	return poly
}

// Area returns the signed area of a lattice loop in plan units.
func (q Quantizer) Area(r Ring) float64 {
	return r.DoubleArea() / 2 / (q.scale * q.scale)
}

// DoubleArea returns twice the signed lattice area of the loop.
// Positive for counter-clockwise loops.
func (r Ring) DoubleArea() float64 {
	if len(r) < 3 {
		return 0
	}
	var sum float64
	prev := r[len(r)-1]
	for _, cur := range r {
		// Products are taken in float64: int64 would overflow near MaxCoord.
		sum += float64(prev.X)*float64(cur.Y) - float64(cur.X)*float64(prev.Y)
		prev = cur
	}
	return sum
}

// Compact drops consecutive duplicate points, including a trailing point
// equal to the first.
func (r Ring) Compact() Ring {
	if len(r) == 0 {
		return r
	}
	out := make(Ring, 0, len(r))
	for _, p := range r {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// Reverse returns a copy of the loop with the opposite orientation.
func (r Ring) Reverse() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}
