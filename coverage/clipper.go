package coverage

import (
	clipper "github.com/ctessum/go.clipper"

	"github.com/gogpu/isovist/lattice"
)

// ClipperEngine implements Engine with Vatti scan-line clipping on 64-bit
// integer coordinates.
type ClipperEngine struct{}

// Union merges all subjects into non-overlapping loops.
func (ClipperEngine) Union(subjects []lattice.Ring, fill FillRule) ([]lattice.Ring, error) {
	c := clipper.NewClipper(0)
	c.AddPaths(toPaths(subjects), clipper.PtSubject, true)

	pft := polyFillType(fill)
	solution, ok := c.Execute1(clipper.CtUnion, pft, pft)
	if !ok {
		return nil, ErrEngine
	}
	return fromPaths(solution), nil
}

// Intersect clips the subjects against one clip loop.
func (ClipperEngine) Intersect(subjects []lattice.Ring, clip lattice.Ring, fill FillRule) ([]lattice.Ring, error) {
	c := clipper.NewClipper(0)
	c.AddPaths(toPaths(subjects), clipper.PtSubject, true)
	c.AddPath(toPath(clip), clipper.PtClip, true)

	pft := polyFillType(fill)
	solution, ok := c.Execute1(clipper.CtIntersection, pft, pft)
	if !ok {
		return nil, ErrEngine
	}
	return fromPaths(solution), nil
}

func polyFillType(f FillRule) clipper.PolyFillType {
	switch f {
	case NonZero:
		return clipper.PftNonZero
	case EvenOdd:
		return clipper.PftEvenOdd
	default:
		return clipper.PftPositive
	}
}

func toPath(r lattice.Ring) clipper.Path {
	p := make(clipper.Path, len(r))
	for i, pt := range r {
		p[i] = &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)}
	}
	return p
}

func toPaths(rs []lattice.Ring) clipper.Paths {
	ps := make(clipper.Paths, len(rs))
	for i, r := range rs {
		ps[i] = toPath(r)
	}
	return ps
}

func fromPaths(ps clipper.Paths) []lattice.Ring {
	out := make([]lattice.Ring, 0, len(ps))
	for _, p := range ps {
		r := make(lattice.Ring, len(p))
		for i, pt := range p {
			r[i] = lattice.Point{X: int64(pt.X), Y: int64(pt.Y)}
		}
		if r = r.Compact(); len(r) >= 3 {
			out = append(out, r)
		}
	}
	return out
}
