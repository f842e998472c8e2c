package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/isovist"
)

const sampleDoc = `
crop: {min: [-5, -5], max: [50, 40]}
walls:
  - id: W1
    start: [0, 0]
    end: [40, 0]
    thickness: 1
    height: 10
    exterior: true
    openings:
      - {offset: 10, width: 6, sill: 3, head: 8}
  - id: W2
    start: [0, 30]
    end: [40, 30]
    thickness: 1
    height: 10
rooms:
  - name: Classroom
    number: "101"
    occupancy: REGULARLY OCCUPIED SPACES (CORE LEARNING)
    boundary: [[0.5, 0.5], [39.5, 0.5], [39.5, 29.5], [0.5, 29.5]]
  - name: Annex
    number: "201"
    occupancy: STORAGE
    area: 12
    boundary: [[60, 0], [64, 0], [64, 3], [60, 3]]
`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

// =============================================================================
// Decoding
// =============================================================================

func TestParse(t *testing.T) {
	doc := mustParse(t, sampleDoc)

	if len(doc.Walls) != 2 || len(doc.Rooms) != 2 {
		t.Fatalf("walls=%d rooms=%d, want 2 and 2", len(doc.Walls), len(doc.Rooms))
	}
	if doc.Crop == nil || doc.Crop.Max != (XY{50, 40}) {
		t.Errorf("Crop = %+v, want max [50 40]", doc.Crop)
	}
	w := doc.Walls[0]
	if w.ID != "W1" || !w.Exterior || len(w.Openings) != 1 {
		t.Errorf("Walls[0] = %+v", w)
	}
	if doc.Rooms[1].Area == nil || *doc.Rooms[1].Area != 12 {
		t.Errorf("Rooms[1].Area = %v, want 12", doc.Rooms[1].Area)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", "walls:\n  - id: W1\n    colour: red\n"},
		{"short point", "walls:\n  - id: W1\n    start: [1]\n"},
		{"not yaml", "walls: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src)); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	doc := mustParse(t, "")
	if len(doc.Walls) != 0 || len(doc.Rooms) != 0 {
		t.Errorf("empty document = %+v", doc)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o600); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Walls) != 2 {
		t.Errorf("len(Walls) = %d, want 2", len(doc.Walls))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil, want error")
	}
}

// =============================================================================
// Walls
// =============================================================================

func TestWall_Faces(t *testing.T) {
	doc := mustParse(t, sampleDoc)

	faces, err := doc.Walls[0].Faces()
	if err != nil {
		t.Fatalf("Faces() error = %v", err)
	}
	// 2 sides x (2 solid runs + sill + head) + 2 jambs + 2 end caps
	if len(faces) != 12 {
		t.Errorf("len(Faces()) = %d, want 12", len(faces))
	}

	var area float64
	for _, f := range faces {
		area += f.Area()
	}
	// sides: 2*(40*10 - 6*5), jambs: 2*1*5, caps: 2*1*10
	want := 2*(400.0-30) + 10 + 20
	if math.Abs(area-want) > 1e-9 {
		t.Errorf("total face area = %v, want %v", area, want)
	}

	plain, err := doc.Walls[1].Faces()
	if err != nil {
		t.Fatalf("Faces() error = %v", err)
	}
	if len(plain) != 4 {
		t.Errorf("len(Faces()) without openings = %d, want 4", len(plain))
	}
}

func TestWall_Validate(t *testing.T) {
	base := Wall{ID: "W", End: XY{10, 0}, Thickness: 1, Height: 10}
	tests := []struct {
		name   string
		modify func(w *Wall)
	}{
		{"zero length", func(w *Wall) { w.End = w.Start }},
		{"zero thickness", func(w *Wall) { w.Thickness = 0 }},
		{"negative height", func(w *Wall) { w.Height = -1 }},
		{"zero width", func(w *Wall) { w.Openings = []Opening{{Offset: 1, Head: 5}} }},
		{"past end", func(w *Wall) { w.Openings = []Opening{{Offset: 8, Width: 4, Head: 5}} }},
		{"overlap", func(w *Wall) {
			w.Openings = []Opening{{Offset: 1, Width: 4, Head: 5}, {Offset: 3, Width: 2, Head: 5}}
		}},
		{"head above wall", func(w *Wall) { w.Openings = []Opening{{Offset: 1, Width: 2, Head: 11}} }},
		{"sill above head", func(w *Wall) { w.Openings = []Opening{{Offset: 1, Width: 2, Sill: 6, Head: 5}} }},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate(base) error = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := base
			tt.modify(&w)
			if err := w.Validate(); !errors.Is(err, ErrInvalidWall) {
				t.Errorf("Validate() error = %v, want ErrInvalidWall", err)
			}
		})
	}
}

func TestWall_Probe(t *testing.T) {
	doc := mustParse(t, sampleDoc)
	p := doc.Walls[0].Probe(5)

	want := []isovist.Point3{{X: 0, Z: 5}, {X: 40, Z: 5}, {X: 10, Z: 5}, {X: 16, Z: 5}}
	if len(p.Hits) != len(want) {
		t.Fatalf("Probe().Hits = %v, want %v", p.Hits, want)
	}
	for i := range want {
		if p.Hits[i].Distance(want[i]) > 1e-9 {
			t.Errorf("Hits[%d] = %v, want %v", i, p.Hits[i], want[i])
		}
	}

	pts, err := isovist.ExtractOpenings(p)
	if err != nil {
		t.Fatalf("ExtractOpenings() error = %v", err)
	}
	if len(pts) != 2 || pts[0].X != 10 || pts[1].X != 16 {
		t.Errorf("ExtractOpenings() = %v, want jambs at x=10 and x=16", pts)
	}
}

func TestWall_ProbeAboveOpening(t *testing.T) {
	w := Wall{
		ID: "W", End: XY{10, 0}, Thickness: 1, Height: 10,
		Openings: []Opening{{Offset: 2, Width: 2, Sill: 6, Head: 9}},
	}
	p := w.Probe(5)
	if len(p.Hits) != 2 {
		t.Fatalf("len(Hits) = %d, want 2 (end caps only)", len(p.Hits))
	}
	var ih *isovist.InsufficientHitsError
	if _, err := isovist.ExtractOpenings(p); !errors.As(err, &ih) {
		t.Errorf("ExtractOpenings() error = %v, want *InsufficientHitsError", err)
	}
}

// =============================================================================
// Rooms
// =============================================================================

func TestDocument_Snapshot(t *testing.T) {
	doc := mustParse(t, sampleDoc)
	snap, err := doc.Snapshot(isovist.DefaultConfig())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snap.Faces) != 16 {
		t.Errorf("len(Faces) = %d, want 16", len(snap.Faces))
	}
	if len(snap.Probes) != 1 || snap.Probes[0].WallID != "W1" {
		t.Errorf("Probes = %+v, want one probe of W1", snap.Probes)
	}
	if len(snap.Rooms) != 1 || snap.Rooms[0].Name != "Classroom" {
		t.Fatalf("Rooms = %+v, want only Classroom inside the crop", snap.Rooms)
	}
	if got := snap.Rooms[0].Area; math.Abs(got-39*29) > 1e-9 {
		t.Errorf("Classroom area = %v, want %v", got, 39*29)
	}
}

func TestDocument_SnapshotInvalidWall(t *testing.T) {
	doc := mustParse(t, "walls:\n  - id: bad\n    start: [0, 0]\n    end: [0, 0]\n    thickness: 1\n    height: 3\n")
	if _, err := doc.Snapshot(isovist.DefaultConfig()); !errors.Is(err, ErrInvalidWall) {
		t.Errorf("Snapshot() error = %v, want ErrInvalidWall", err)
	}
}

func TestDocument_RoomsWithin(t *testing.T) {
	doc := mustParse(t, sampleDoc)

	all, err := doc.RoomsWithin(nil)
	if err != nil {
		t.Fatalf("RoomsWithin(nil) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("RoomsWithin(nil) = %d rooms, want 2", len(all))
	}
	if all[1].Area != 12 {
		t.Errorf("explicit area = %v, want 12", all[1].Area)
	}

	tight := &Rect{Min: XY{0.5, 0.5}, Max: XY{39.5, 29.5}}
	rooms, err := doc.RoomsWithin(tight)
	if err != nil {
		t.Fatalf("RoomsWithin() error = %v", err)
	}
	if len(rooms) != 1 {
		t.Errorf("RoomsWithin(edge crop) = %d rooms, want 1", len(rooms))
	}
}

func TestDocument_SnapshotRoomWithoutBoundary(t *testing.T) {
	doc := mustParse(t, sampleDoc+"  - {name: NoCurves, number: \"2\"}\n")
	snap, err := doc.Snapshot(isovist.DefaultConfig())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snap.Rooms) != 2 {
		t.Fatalf("Rooms = %+v, want Classroom and NoCurves", snap.Rooms)
	}
	if snap.Rooms[0].Name != "Classroom" {
		t.Errorf("Rooms[0] = %q, want Classroom", snap.Rooms[0].Name)
	}
	r := snap.Rooms[1]
	if r.Name != "NoCurves" || len(r.Boundary) != 0 || r.Area != 0 {
		t.Errorf("Rooms[1] = %+v, want NoCurves with no boundary and zero area", r)
	}
}

func TestRoom_ExplicitAreaWithoutBoundary(t *testing.T) {
	area := 7.5
	r := Room{Name: "ghost", Area: &area}
	got, err := r.Room()
	if err != nil {
		t.Fatalf("Room() error = %v", err)
	}
	if got.Area != 7.5 || len(got.Boundary) != 0 {
		t.Errorf("Room() = %+v, want area 7.5 and no boundary", got)
	}
}

func TestRoom_InvalidArea(t *testing.T) {
	tests := []struct {
		name string
		area float64
	}{
		{"negative", -1},
		{"NaN", math.NaN()},
		{"infinite", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			area := tt.area
			r := Room{Name: "ghost", Area: &area, Boundary: []XY{{0, 0}, {1, 0}, {1, 1}}}
			if _, err := r.Room(); !errors.Is(err, ErrInvalidRoom) || !strings.Contains(err.Error(), "ghost") {
				t.Errorf("Room() error = %v, want ErrInvalidRoom naming the room", err)
			}
		})
	}
}

func TestRegularlyOccupied(t *testing.T) {
	rooms := []isovist.Room{
		{Name: "a", Occupancy: CoreLearning},
		{Name: "b", Occupancy: "STORAGE"},
		{Name: "c", Occupancy: OtherOccupied},
		{Name: "d", Occupancy: AncillaryLearning},
		{Name: "e"},
	}
	got := RegularlyOccupied(rooms)
	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.Name
	}
	if strings.Join(names, ",") != "a,c,d" {
		t.Errorf("RegularlyOccupied() = %v, want [a c d]", names)
	}
}
