package scene

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/isovist"
)

// probeLead is how far outside the wall start a probe begins.
const probeLead = 1.0

// Wall is a straight wall segment with rectangular openings.
type Wall struct {
	ID        string    `yaml:"id"`
	Start     XY        `yaml:"start"`
	End       XY        `yaml:"end"`
	Thickness float64   `yaml:"thickness"`
	Base      float64   `yaml:"base"`
	Height    float64   `yaml:"height"`
	Exterior  bool      `yaml:"exterior"`
	Openings  []Opening `yaml:"openings"`
}

// Opening is a door or window cut through a wall. Offset is measured along
// the wall from Start; Sill and Head are heights above the wall base.
type Opening struct {
	Offset float64 `yaml:"offset"`
	Width  float64 `yaml:"width"`
	Sill   float64 `yaml:"sill"`
	Head   float64 `yaml:"head"`
}

// frame is the wall's local axis system.
type frame struct {
	origin isovist.Point
	dir    isovist.Point // unit vector Start -> End
	normal isovist.Point // dir rotated 90 degrees counter-clockwise
	length float64
}

func (f frame) at(s, o float64) isovist.Point {
	return f.origin.Add(f.dir.Mul(s)).Add(f.normal.Mul(o))
}

func (w *Wall) frame() frame {
	a, b := w.Start.Point(), w.End.Point()
	d := b.Sub(a)
	u := d.Normalize()
	return frame{origin: a, dir: u, normal: isovist.Point{X: -u.Y, Y: u.X}, length: d.Length()}
}

// Validate checks the wall and its openings.
func (w *Wall) Validate() error {
	f := w.frame()
	switch {
	case !(f.length > 0):
		return fmt.Errorf("%w %q: zero length", ErrInvalidWall, w.ID)
	case !(w.Thickness > 0):
		return fmt.Errorf("%w %q: thickness %g", ErrInvalidWall, w.ID, w.Thickness)
	case !(w.Height > 0):
		return fmt.Errorf("%w %q: height %g", ErrInvalidWall, w.ID, w.Height)
	}

	prevEnd := 0.0
	for i, o := range w.sortedOpenings() {
		switch {
		case !(o.Width > 0):
			return fmt.Errorf("%w %q: opening %d: width %g", ErrInvalidWall, w.ID, i, o.Width)
		case o.Offset < prevEnd:
			return fmt.Errorf("%w %q: opening %d overlaps its neighbour", ErrInvalidWall, w.ID, i)
		case o.Offset+o.Width > f.length:
			return fmt.Errorf("%w %q: opening %d runs past the wall end", ErrInvalidWall, w.ID, i)
		case o.Sill < 0 || o.Head <= o.Sill || o.Head > w.Height:
			return fmt.Errorf("%w %q: opening %d: sill %g head %g", ErrInvalidWall, w.ID, i, o.Sill, o.Head)
		}
		prevEnd = o.Offset + o.Width
	}
	return nil
}

func (w *Wall) sortedOpenings() []Opening {
	ops := slices.Clone(w.Openings)
	slices.SortFunc(ops, func(a, b Opening) int { return cmp.Compare(a.Offset, b.Offset) })
	return ops
}

// Faces returns the wall surfaces as vertical panels: both long faces split
// around the openings, sill and head panels under and over each opening,
// the jambs on each side of an opening and the two end caps.
func (w *Wall) Faces() ([]isovist.Face, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	f := w.frame()
	half := w.Thickness / 2
	bottom, top := w.Base, w.Base+w.Height
	ops := w.sortedOpenings()

	var faces []isovist.Face
	add := func(s0, o0, s1, o1, lo, hi float64) {
		if hi <= lo {
			return
		}
		faces = append(faces, isovist.Panel{A: f.at(s0, o0), B: f.at(s1, o1), Bottom: lo, Top: hi})
	}

	for _, side := range []float64{half, -half} {
		s := 0.0
		for _, o := range ops {
			add(s, side, o.Offset, side, bottom, top)
			add(o.Offset, side, o.Offset+o.Width, side, bottom, bottom+o.Sill)
			add(o.Offset, side, o.Offset+o.Width, side, bottom+o.Head, top)
			s = o.Offset + o.Width
		}
		if s < f.length {
			add(s, side, f.length, side, bottom, top)
		}
	}

	for _, o := range ops {
		for _, s := range []float64{o.Offset, o.Offset + o.Width} {
			add(s, half, s, -half, bottom+o.Sill, bottom+o.Head)
		}
	}
	add(0, half, 0, -half, bottom, top)
	add(f.length, half, f.length, -half, bottom, top)

	return faces, nil
}

// Probe casts a ray along the wall centre line from just outside its start,
// at elevation eye, against the wall's end caps and jambs.
//
// The end caps are the wall's own near and far surfaces and are reported
// first, followed by the jambs in order along the ray. Jambs of openings
// that do not span eye are not hit.
func (w *Wall) Probe(eye float64) isovist.Probe {
	p := isovist.Probe{WallID: w.ID}
	if w.Validate() != nil {
		return p
	}
	f := w.frame()
	half := w.Thickness / 2
	ray := isovist.Ray{
		Origin: f.at(-probeLead, 0).At(eye),
		Dir:    f.dir,
		Length: f.length + 2*probeLead,
	}
	hit := func(s, lo, hi float64) (isovist.Point3, bool) {
		panel := isovist.Panel{A: f.at(s, half), B: f.at(s, -half), Bottom: lo, Top: hi}
		return panel.Intersect(ray)
	}

	bottom, top := w.Base, w.Base+w.Height
	for _, s := range []float64{0, f.length} {
		if pt, ok := hit(s, bottom, top); ok {
			p.Hits = append(p.Hits, pt)
		}
	}
	for _, o := range w.sortedOpenings() {
		for _, s := range []float64{o.Offset, o.Offset + o.Width} {
			if pt, ok := hit(s, bottom+o.Sill, bottom+o.Head); ok {
				p.Hits = append(p.Hits, pt)
			}
		}
	}
	return p
}
