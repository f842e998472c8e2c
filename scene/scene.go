// Package scene reads building snapshots and turns them into the inputs of
// an isovist analysis: obstacle faces, wall probes and room boundaries.
//
// A snapshot is a YAML (or JSON) document:
//
//	crop: {min: [0, 0], max: [100, 60]}
//	walls:
//	  - id: W1
//	    start: [0, 0]
//	    end: [40, 0]
//	    thickness: 1
//	    height: 10
//	    exterior: true
//	    openings:
//	      - {offset: 10, width: 6, sill: 3, head: 8}
//	rooms:
//	  - name: Classroom
//	    number: "101"
//	    occupancy: REGULARLY OCCUPIED SPACES (CORE LEARNING)
//	    boundary: [[0.5, 0.5], [39.5, 0.5], [39.5, 30], [0.5, 30]]
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/isovist"
)

// Sentinel errors for the scene package.
var (
	// ErrInvalidWall is returned for walls whose geometry cannot be built.
	ErrInvalidWall = errors.New("scene: invalid wall")

	// ErrInvalidRoom is returned for rooms with a negative or non-finite area.
	ErrInvalidRoom = errors.New("scene: invalid room")
)

// XY is a plan coordinate written as a two-element sequence.
type XY [2]float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *XY) UnmarshalYAML(n *yaml.Node) error {
	var v []float64
	if err := n.Decode(&v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("scene: line %d: point needs 2 coordinates, got %d", n.Line, len(v))
	}
	p[0], p[1] = v[0], v[1]
	return nil
}

// Point converts p to a plan point.
func (p XY) Point() isovist.Point {
	return isovist.Point{X: p[0], Y: p[1]}
}

// Rect is an axis-aligned plan rectangle.
type Rect struct {
	Min XY `yaml:"min"`
	Max XY `yaml:"max"`
}

// Contains reports whether the box [min, max] lies inside r, edges included.
func (r Rect) Contains(min, max isovist.Point) bool {
	return min.X >= r.Min[0] && min.Y >= r.Min[1] && max.X <= r.Max[0] && max.Y <= r.Max[1]
}

// Document is a building snapshot.
type Document struct {
	Walls []Wall `yaml:"walls"`
	Rooms []Room `yaml:"rooms"`

	// Crop restricts the analysed rooms to those fully inside it.
	Crop *Rect `yaml:"crop,omitempty"`
}

// Load reads a snapshot file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a snapshot held in memory.
func Parse(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one snapshot document from r. Unknown fields are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, err
	}
	return &doc, nil
}

// Snapshot is a document converted to analysis inputs.
type Snapshot struct {
	Faces  []isovist.Face
	Probes []isovist.Probe
	Rooms  []isovist.Room
}

// Snapshot builds obstacle faces from every wall, a probe for every exterior
// wall at the configured eye elevation, and the rooms inside the crop.
func (d *Document) Snapshot(cfg isovist.Config) (*Snapshot, error) {
	s := &Snapshot{}
	for i := range d.Walls {
		w := &d.Walls[i]
		faces, err := w.Faces()
		if err != nil {
			return nil, err
		}
		s.Faces = append(s.Faces, faces...)
		if w.Exterior {
			s.Probes = append(s.Probes, w.Probe(cfg.EyeElevation))
		}
	}

	rooms, err := d.RoomsWithin(d.Crop)
	if err != nil {
		return nil, err
	}
	s.Rooms = rooms

	isovist.Logger().Info("scene snapshot",
		"walls", len(d.Walls),
		"faces", len(s.Faces),
		"probes", len(s.Probes),
		"rooms", len(s.Rooms),
	)
	return s, nil
}

// RoomsWithin converts the document rooms, keeping those whose bounding box
// lies fully inside crop. A nil crop keeps every room. Rooms without a
// boundary have no bounding box and are always kept, so they are reported.
func (d *Document) RoomsWithin(crop *Rect) ([]isovist.Room, error) {
	var rooms []isovist.Room
	for i := range d.Rooms {
		r, err := d.Rooms[i].Room()
		if err != nil {
			return nil, err
		}
		if len(r.Boundary) == 0 {
			isovist.Logger().Warn("room has no boundary", "room", r.Label())
			rooms = append(rooms, r)
			continue
		}
		if crop != nil {
			lo, hi := r.Boundary.Bounds()
			if !crop.Contains(lo, hi) {
				continue
			}
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}
