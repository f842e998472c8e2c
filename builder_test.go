package isovist

import (
	"errors"
	"math"
	"testing"
)

func wall(x0, y0, x1, y1 float64) Face {
	return Panel{A: Pt(x0, y0), B: Pt(x1, y1), Bottom: 0, Top: 10}
}

// doorRoom is a closed 10x10 room with a door gap from x=4 to x=6 in the
// bottom wall.
func doorRoom() []Face {
	return []Face{
		wall(0, 0, 4, 0),
		wall(6, 0, 10, 0),
		wall(10, 0, 10, 10),
		wall(10, 10, 0, 10),
		wall(0, 10, 0, 0),
	}
}

func vp(x, y float64) Viewpoint {
	return Viewpoint{Point: Point3{X: x, Y: y, Z: DefaultEyeElevation}, WallID: "test"}
}

func mustBuilder(t *testing.T, faces []Face, opts ...Option) *Builder {
	t.Helper()
	b, err := NewBuilder(faces, NewConfig(opts...))
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return b
}

// =============================================================================
// Construction
// =============================================================================

func TestNewBuilder_Errors(t *testing.T) {
	if _, err := NewBuilder(nil, DefaultConfig()); !errors.Is(err, ErrNoFaces) {
		t.Errorf("NewBuilder(nil) error = %v, want ErrNoFaces", err)
	}
	if _, err := NewBuilder(doorRoom(), NewConfig(WithRadius(-1))); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewBuilder(bad config) error = %v, want ErrInvalidConfig", err)
	}
}

func TestRayDirections(t *testing.T) {
	dirs := rayDirections(NewConfig(WithRays(4)))
	want := []Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	for i, d := range dirs {
		if d.Distance(want[i]) > 1e-12 {
			t.Errorf("dirs[%d] = %v, want %v", i, d, want[i])
		}
	}

	half := rayDirections(NewConfig(WithRays(3), WithAngleRange(0, 90)))
	if got := math.Atan2(half[2].Y, half[2].X) * 180 / math.Pi; math.Abs(got-60) > 1e-9 {
		t.Errorf("last ray of [0, 90) with 3 rays = %v degrees, want 60", got)
	}
}

// =============================================================================
// Build
// =============================================================================

func TestBuild_ClosedRoom(t *testing.T) {
	b := mustBuilder(t, doorRoom(), WithRadius(20))
	poly, err := b.Build(vp(5, 5))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := poly.Area(); got <= 0 || got > 100+1e-9 {
		t.Errorf("Area() = %v, want in (0, 100]", got)
	}
	if got := poly.Area(); got < 99 {
		t.Errorf("Area() = %v, want close to 100", got)
	}
	for _, p := range poly {
		if p.X < -1e-9 || p.X > 10+1e-9 || p.Y < -1e-9 || p.Y > 10+1e-9 {
			t.Fatalf("vertex %v lies outside the room", p)
		}
	}
}

func TestBuild_MonotoneInRayCount(t *testing.T) {
	prev := 0.0
	for _, n := range []int{30, 60, 120, 600} {
		b := mustBuilder(t, doorRoom(), WithRadius(20), WithRays(n))
		poly, err := b.Build(vp(5, 5))
		if err != nil {
			t.Fatalf("Build(%d rays) error = %v", n, err)
		}
		area := poly.Area()
		if area < prev-1e-9 {
			t.Errorf("area with %d rays = %v, less than %v with fewer rays", n, area, prev)
		}
		prev = area
	}
}

func TestBuild_EdgePolicy(t *testing.T) {
	// A single wall to the north; every other direction is open.
	faces := []Face{wall(-5, 3, 5, 3)}

	drop := mustBuilder(t, faces, WithRadius(10), WithRays(360))
	dp, err := drop.Build(vp(0, 0))
	if err != nil {
		t.Fatalf("DropUnhit Build() error = %v", err)
	}
	for _, p := range dp {
		if math.Abs(p.Y-3) > 1e-9 {
			t.Fatalf("DropUnhit vertex %v is not on the wall", p)
		}
	}

	clamp := mustBuilder(t, faces, WithRadius(10), WithRays(360), WithEdgePolicy(ClampToRadius))
	cp, err := clamp.Build(vp(0, 0))
	if err != nil {
		t.Fatalf("ClampToRadius Build() error = %v", err)
	}
	if len(cp) != 360 {
		t.Errorf("ClampToRadius vertices = %d, want 360", len(cp))
	}
	if cp.Area() <= dp.Area() {
		t.Errorf("ClampToRadius area %v should exceed DropUnhit area %v", cp.Area(), dp.Area())
	}
	// Open directions end on the radius.
	if d := cp[270].Distance(Pt(0, 0)); math.Abs(d-10) > 1e-9 {
		t.Errorf("south vertex at distance %v, want 10", d)
	}
}

func TestBuild_SelfHitDiscarded(t *testing.T) {
	// The viewpoint sits on a wall; hits on that wall must not collapse the
	// isovist onto the viewpoint.
	faces := append(doorRoom(), wall(5, 4, 5, 6))
	b := mustBuilder(t, faces, WithRadius(20))
	poly, err := b.Build(vp(5, 5))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, p := range poly {
		if p.Distance(Pt(5, 5)) < DefaultSelfHitEpsilon {
			t.Fatalf("vertex %v closer than the self-hit epsilon", p)
		}
	}
}

func TestBuild_PrunesDistantFaces(t *testing.T) {
	// Centroid at distance 10 is outside 0.9*10; the face is ignored even
	// though rays cross it.
	faces := []Face{wall(10, -20, 10, 20), wall(-3, -3, -3, 3), wall(-3, 3, 3, 3), wall(-3, -3, 3, -3)}
	b := mustBuilder(t, faces, WithRadius(10), WithRays(360))
	poly, err := b.Build(vp(0, 0))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, p := range poly {
		if math.Abs(p.X-10) < 1e-9 {
			t.Fatalf("vertex %v lies on the pruned face", p)
		}
	}
}

func TestBuild_Degenerate(t *testing.T) {
	b := mustBuilder(t, []Face{wall(3, -0.01, 3, 0.01)}, WithRadius(10))
	_, err := b.Build(vp(0, 0))
	var de *DegenerateIsovistError
	if !errors.As(err, &de) {
		t.Fatalf("Build() error = %v, want *DegenerateIsovistError", err)
	}
	if de.Survivors >= 3 {
		t.Errorf("Survivors = %d, want < 3", de.Survivors)
	}
}

func TestBuild_Concurrent(t *testing.T) {
	b := mustBuilder(t, doorRoom(), WithRadius(20), WithRays(120))
	want, err := b.Build(vp(5, 5))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	done := make(chan float64, 16)
	for range 16 {
		go func() {
			p, err := b.Build(vp(5, 5))
			if err != nil {
				done <- -1
				return
			}
			done <- p.Area()
		}()
	}
	for range 16 {
		if got := <-done; got != want.Area() {
			t.Errorf("concurrent Build() area = %v, want %v", got, want.Area())
		}
	}
}
