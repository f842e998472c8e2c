// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/isovist"
	"github.com/gogpu/isovist/report"
)

// ErrEmptyScene is returned when there is nothing to draw.
var ErrEmptyScene = errors.New("render: empty scene")

// Palette used by Plan.
var (
	Background    = color.RGBA{0xff, 0xff, 0xff, 0xff}
	RoomFill      = color.RGBA{0xe8, 0xe8, 0xe8, 0xff}
	MalformedFill = color.RGBA{0xf4, 0xc7, 0xc3, 0xff}
	RoomEdge      = color.RGBA{0x60, 0x60, 0x60, 0xff}
	CoverageFill  = color.NRGBA{0x2e, 0x9d, 0x5b, 0x80}
	ViewpointFill = color.RGBA{0x1f, 0x4e, 0xa8, 0xff}
	LabelColor    = color.RGBA{0x20, 0x20, 0x20, 0xff}
)

// Scene is the content of a preview.
type Scene struct {
	Rooms []isovist.Room

	// Records, when parallel to Rooms, add the visible share to each label
	// and tint malformed rooms.
	Records []report.Record

	Coverage   []isovist.Polygon
	Viewpoints []isovist.Viewpoint
}

// Options control the preview size.
type Options struct {
	// Width of the image in pixels. Height follows the plan's aspect ratio.
	Width int

	// Margin around the plan in pixels.
	Margin int

	// LabelSize is the label font size in pixels. Zero disables labels.
	LabelSize float64
}

// DefaultOptions returns the options used for zero fields.
func DefaultOptions() Options {
	return Options{Width: 1024, Margin: 24, LabelSize: 12}
}

// view maps plan coordinates to pixels with Y pointing down.
type view struct {
	min    isovist.Point
	scale  float64
	margin float64
	height float64
}

func (v view) px(p isovist.Point) (float32, float32) {
	x := v.margin + (p.X-v.min.X)*v.scale
	y := v.height - v.margin - (p.Y-v.min.Y)*v.scale
	return float32(x), float32(y)
}

// Plan draws s into a new image.
func Plan(s Scene, opts Options) (*image.RGBA, error) {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Margin < 0 {
		opts.Margin = def.Margin
	}

	lo, hi, ok := bounds(s)
	if !ok {
		return nil, ErrEmptyScene
	}
	span := math.Max(hi.X-lo.X, hi.Y-lo.Y)
	if span <= 0 {
		span = 1
	}
	inner := float64(opts.Width - 2*opts.Margin)
	if inner <= 0 {
		return nil, fmt.Errorf("render: width %d leaves no room inside margin %d", opts.Width, opts.Margin)
	}
	scale := inner / math.Max(hi.X-lo.X, span*1e-3)
	height := int(math.Ceil((hi.Y-lo.Y)*scale)) + 2*opts.Margin

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	v := view{min: lo, scale: scale, margin: float64(opts.Margin), height: float64(height)}
	z := vector.NewRasterizer(opts.Width, height)

	for i, r := range s.Rooms {
		fill := RoomFill
		if i < len(s.Records) && s.Records[i].Malformed {
			fill = MalformedFill
		}
		fillPolygons(img, z, v, []isovist.Polygon{r.Boundary}, fill)
	}
	fillPolygons(img, z, v, s.Coverage, CoverageFill)
	for _, r := range s.Rooms {
		strokePolygon(img, z, v, r.Boundary, 1.5, RoomEdge)
	}
	for _, vp := range s.Viewpoints {
		dot(img, z, v, vp.Point.Plan(), 3, ViewpointFill)
	}

	if opts.LabelSize > 0 {
		if err := labelRooms(img, v, s, opts.LabelSize); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// bounds returns the plan extent of everything in s.
func bounds(s Scene) (lo, hi isovist.Point, ok bool) {
	lo = isovist.Pt(math.Inf(1), math.Inf(1))
	hi = isovist.Pt(math.Inf(-1), math.Inf(-1))
	grow := func(p isovist.Point) {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
		ok = true
	}
	for _, r := range s.Rooms {
		for _, p := range r.Boundary {
			grow(p)
		}
	}
	for _, poly := range s.Coverage {
		for _, p := range poly {
			grow(p)
		}
	}
	for _, vp := range s.Viewpoints {
		grow(vp.Point.Plan())
	}
	return lo, hi, ok
}

// fillPolygons rasterizes all loops as one path so that clockwise holes
// cut through their outer loops.
func fillPolygons(dst draw.Image, z *vector.Rasterizer, v view, polys []isovist.Polygon, c color.Color) {
	b := dst.Bounds()
	z.Reset(b.Dx(), b.Dy())
	drawn := false
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		x, y := v.px(poly[0])
		z.MoveTo(x, y)
		for _, p := range poly[1:] {
			x, y = v.px(p)
			z.LineTo(x, y)
		}
		z.ClosePath()
		drawn = true
	}
	if drawn {
		z.Draw(dst, b, image.NewUniform(c), image.Point{})
	}
}

// strokePolygon outlines a loop with quads of the given pixel width.
func strokePolygon(dst draw.Image, z *vector.Rasterizer, v view, poly isovist.Polygon, width float32, c color.Color) {
	if len(poly) < 2 {
		return
	}
	b := dst.Bounds()
	z.Reset(b.Dx(), b.Dy())
	half := width / 2
	prev := poly[len(poly)-1]
	for _, cur := range poly {
		x0, y0 := v.px(prev)
		x1, y1 := v.px(cur)
		prev = cur

		dx, dy := x1-x0, y1-y0
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		// Each quad is wound the same way so overlaps at corners add up.
		z.MoveTo(x0+nx, y0+ny)
		z.LineTo(x1+nx, y1+ny)
		z.LineTo(x1-nx, y1-ny)
		z.LineTo(x0-nx, y0-ny)
		z.ClosePath()
	}
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// dot draws a filled diamond of radius r pixels.
func dot(dst draw.Image, z *vector.Rasterizer, v view, p isovist.Point, r float32, c color.Color) {
	b := dst.Bounds()
	z.Reset(b.Dx(), b.Dy())
	x, y := v.px(p)
	z.MoveTo(x, y-r)
	z.LineTo(x+r, y)
	z.LineTo(x, y+r)
	z.LineTo(x-r, y)
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

var (
	fontOnce sync.Once
	fontData *opentype.Font
	fontErr  error
)

func labelFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontData, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("render: parse font: %w", fontErr)
	}
	face, err := opentype.NewFace(fontData, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: font face: %w", err)
	}
	return face, nil
}

// labelRooms writes each room's number, and its visible share when known,
// centred on the room's bounding box.
func labelRooms(dst draw.Image, v view, s Scene, size float64) error {
	face, err := labelFace(size)
	if err != nil {
		return err
	}
	defer func() {
		_ = face.Close()
	}()

	d := font.Drawer{Dst: dst, Src: image.NewUniform(LabelColor), Face: face}
	for i, r := range s.Rooms {
		if len(r.Boundary) == 0 {
			continue
		}
		text := r.Number
		if text == "" {
			text = r.Name
		}
		if i < len(s.Records) && !s.Records[i].Malformed {
			text = fmt.Sprintf("%s %.0f%%", text, 100*s.Records[i].Ratio())
		}
		if text == "" {
			continue
		}

		lo, hi := r.Boundary.Bounds()
		cx, cy := v.px(isovist.Pt((lo.X+hi.X)/2, (lo.Y+hi.Y)/2))
		w := d.MeasureString(text)
		d.Dot = fixed.Point26_6{
			X: fixed.I(int(cx)) - w/2,
			Y: fixed.I(int(cy)) + fixed.I(int(size/3)),
		}
		d.DrawString(text)
	}
	return nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("render: %w", cerr)
		}
	}()
	return EncodePNG(f, img)
}
