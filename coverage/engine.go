package coverage

import (
	"fmt"

	"github.com/gogpu/isovist/lattice"
)

// FillRule decides which sub-regions of overlapping loops are interior.
type FillRule int

const (
	// Positive fills regions with winding count > 0. Overlapping
	// counter-clockwise loops never cancel.
	Positive FillRule = iota

	// NonZero fills regions with winding count != 0.
	NonZero

	// EvenOdd fills regions with odd winding count.
	EvenOdd
)

// String returns the name of the fill rule.
func (f FillRule) String() string {
	switch f {
	case Positive:
		return "positive"
	case NonZero:
		return "non-zero"
	case EvenOdd:
		return "even-odd"
	default:
		return fmt.Sprintf("FillRule(%d)", int(f))
	}
}

// Engine is a polygon boolean capability over lattice loops.
//
// Union must be associative and commutative over any number of subjects.
// Intersect may return zero, one or several disjoint loops. Output loops
// follow the usual convention: outer boundaries counter-clockwise, holes
// clockwise.
type Engine interface {
	Union(subjects []lattice.Ring, fill FillRule) ([]lattice.Ring, error)
	Intersect(subjects []lattice.Ring, clip lattice.Ring, fill FillRule) ([]lattice.Ring, error)
}
