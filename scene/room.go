package scene

import (
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/isovist"
)

// LEED occupancy categories counted as regularly occupied.
const (
	CoreLearning      = "REGULARLY OCCUPIED SPACES (CORE LEARNING)"
	AncillaryLearning = "REGULARLY OCCUPIED SPACES (ANCILLARY LEARNING)"
	OtherOccupied     = "OTHER REGULARLY OCCUPIED SPACES"
)

var regularlyOccupied = []string{CoreLearning, AncillaryLearning, OtherOccupied}

// Room is a room as stored in a snapshot.
type Room struct {
	Name      string `yaml:"name"`
	Number    string `yaml:"number"`
	Occupancy string `yaml:"occupancy"`
	Boundary  []XY   `yaml:"boundary"`

	// Area overrides the area computed from Boundary.
	Area *float64 `yaml:"area,omitempty"`
}

// Room converts r to an analysis room. Without an explicit area the
// absolute shoelace area of the boundary is used. A room without a boundary
// converts to an empty loop, which the coverage step reports as malformed.
func (r *Room) Room() (isovist.Room, error) {
	poly := make(isovist.Polygon, len(r.Boundary))
	for i, p := range r.Boundary {
		poly[i] = p.Point()
	}

	area := math.Abs(poly.Area())
	if r.Area != nil {
		area = *r.Area
		if math.IsNaN(area) || math.IsInf(area, 0) || area < 0 {
			return isovist.Room{}, fmt.Errorf("%w %q: area %g", ErrInvalidRoom, r.Name, area)
		}
	}
	return isovist.Room{
		Name:      r.Name,
		Number:    r.Number,
		Occupancy: r.Occupancy,
		Area:      area,
		Boundary:  poly,
	}, nil
}

// RegularlyOccupied returns the rooms whose occupancy is one of the
// regularly occupied LEED categories, preserving order.
func RegularlyOccupied(rooms []isovist.Room) []isovist.Room {
	var out []isovist.Room
	for _, r := range rooms {
		if slices.Contains(regularlyOccupied, r.Occupancy) {
			out = append(out, r)
		}
	}
	return out
}
