// Package report turns a coverage region into per-room visibility records
// and writes them out.
package report

import (
	"errors"
	"log/slog"

	"github.com/gogpu/isovist"
	"github.com/gogpu/isovist/coverage"
)

// Record is the visibility result of one room.
type Record struct {
	Name   string
	Number string

	// Area is the room's gross area as supplied by the scene.
	Area float64

	// VisibleArea is the part of the room covered by the coverage region.
	VisibleArea float64

	// Malformed is set when the room boundary could not be intersected;
	// VisibleArea is then 0 and Err holds the cause.
	Malformed bool
	Err       error
}

// Ratio returns VisibleArea / Area, or 0 for rooms without area.
func (r Record) Ratio() float64 {
	if r.Area <= 0 {
		return 0
	}
	return r.VisibleArea / r.Area
}

// Build computes one record per room, in input order. Rooms are never
// filtered: rooms the region does not reach get a visible area of 0, and
// rooms with malformed boundaries are flagged rather than dropped.
func Build(agg *coverage.Aggregator, region *coverage.Region, rooms []isovist.Room) []Record {
	log := isovist.Logger()
	records := make([]Record, len(rooms))

	for i, room := range rooms {
		rec := Record{
			Name:   room.Name,
			Number: room.Number,
			Area:   room.Area,
		}

		visible, err := agg.Intersect(region, room)
		var mb *coverage.MalformedBoundaryError
		switch {
		case errors.As(err, &mb):
			rec.Malformed = true
			rec.Err = err
			log.Warn("room skipped", slog.String("room", room.Label()), slog.String("reason", mb.Reason))
		case err != nil:
			rec.Err = err
			log.Warn("room intersection failed", slog.String("room", room.Label()), slog.Any("err", err))
		default:
			rec.VisibleArea = visible
		}
		records[i] = rec
	}
	return records
}

// Summary aggregates a set of records.
type Summary struct {
	Rooms       int
	Malformed   int
	WithView    int
	Area        float64
	VisibleArea float64
}

// Summarize totals records. Malformed rooms count towards Rooms and Area
// only.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		s.Rooms++
		s.Area += r.Area
		if r.Malformed {
			s.Malformed++
			continue
		}
		s.VisibleArea += r.VisibleArea
		if r.VisibleArea > 0 {
			s.WithView++
		}
	}
	return s
}
