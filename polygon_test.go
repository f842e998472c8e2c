package isovist

import (
	"math"
	"testing"
)

func TestPolygonArea(t *testing.T) {
	square := Polygon{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
	tests := []struct {
		name string
		poly Polygon
		want float64
	}{
		{"ccw square", square, 16},
		{"cw square", square.Reversed(), -16},
		{"triangle", Polygon{{0, 0}, {6, 0}, {0, 3}}, 9},
		{"bowtie cancels", Polygon{{0, 0}, {2, 2}, {2, 0}, {0, 2}}, 0},
		{"two points", Polygon{{0, 0}, {1, 1}}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.Area(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonBounds(t *testing.T) {
	lo, hi := Polygon{{1, 5}, {-2, 3}, {4, -1}}.Bounds()
	if lo != Pt(-2, -1) || hi != Pt(4, 5) {
		t.Errorf("Bounds() = %v, %v; want (-2,-1), (4,5)", lo, hi)
	}
	lo, hi = Polygon(nil).Bounds()
	if lo != (Point{}) || hi != (Point{}) {
		t.Errorf("Bounds(empty) = %v, %v; want zero", lo, hi)
	}
}

func TestPolygonWinding(t *testing.T) {
	square := Polygon{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
	tests := []struct {
		name string
		poly Polygon
		pt   Point
		want int
	}{
		{"inside ccw", square, Pt(2, 2), 1},
		{"inside cw", square.Reversed(), Pt(2, 2), -1},
		{"outside", square, Pt(5, 2), 0},
		{"degenerate", Polygon{{0, 0}, {1, 1}}, Pt(0.5, 0.5), 0},
		{"concave notch", Polygon{{0, 0}, {4, 0}, {4, 4}, {2, 1}, {0, 4}}, Pt(2, 3), 0},
		{"concave body", Polygon{{0, 0}, {4, 0}, {4, 4}, {2, 1}, {0, 4}}, Pt(2, 0.5), 1},
		{"doubly wound", append(square, square...), Pt(2, 2), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.Winding(tt.pt); got != tt.want {
				t.Errorf("Winding(%v) = %d, want %d", tt.pt, got, tt.want)
			}
		})
	}
}

// =============================================================================
// Faces
// =============================================================================

func TestPanelIntersect(t *testing.T) {
	p := Panel{A: Pt(2, -1), B: Pt(2, 1), Bottom: 0, Top: 3}
	tests := []struct {
		name string
		ray  Ray
		want Point3
		hit  bool
	}{
		{"straight on", Ray{Origin: Point3{Z: 1}, Dir: Pt(1, 0), Length: 10}, Point3{X: 2, Z: 1}, true},
		{"diagonal", Ray{Origin: Point3{Z: 1}, Dir: Pt(1, 1).Normalize(), Length: 10}, Point3{X: 2, Y: 2, Z: 1}, false},
		{"edge", Ray{Origin: Point3{Y: 1, Z: 1}, Dir: Pt(1, 0), Length: 10}, Point3{X: 2, Y: 1, Z: 1}, true},
		{"too short", Ray{Origin: Point3{Z: 1}, Dir: Pt(1, 0), Length: 1.5}, Point3{}, false},
		{"behind", Ray{Origin: Point3{Z: 1}, Dir: Pt(-1, 0), Length: 10}, Point3{}, false},
		{"above", Ray{Origin: Point3{Z: 4}, Dir: Pt(1, 0), Length: 10}, Point3{}, false},
		{"parallel", Ray{Origin: Point3{X: 2, Y: -5, Z: 1}, Dir: Pt(0, 1), Length: 10}, Point3{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Intersect(tt.ray)
			if ok != tt.hit {
				t.Fatalf("Intersect() hit = %v, want %v", ok, tt.hit)
			}
			if ok && got.Distance(tt.want) > 1e-12 {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPanelGeometry(t *testing.T) {
	p := Panel{A: Pt(0, 0), B: Pt(3, 4), Bottom: 1, Top: 3}
	if got := p.Area(); got != 10 {
		t.Errorf("Area() = %v, want 10", got)
	}
	if got := Centroid(p); got != (Point3{X: 1.5, Y: 2, Z: 2}) {
		t.Errorf("Centroid() = %v, want (1.5, 2, 2)", got)
	}
}
