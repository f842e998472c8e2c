package isovist

import (
	"errors"
	"fmt"
)

// Sentinel errors for the isovist package.
var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("isovist: invalid config")

	// ErrNoFaces is returned when a Builder is created without obstacles.
	ErrNoFaces = errors.New("isovist: no obstacle faces")
)

// MinProbeHits is the smallest probe result that can contain an opening:
// the wall's own near and far surfaces plus two opening boundaries.
const MinProbeHits = 4

// InsufficientHitsError is returned by ExtractOpenings when a wall probe
// produced fewer than MinProbeHits points. The wall contributes no viewpoints.
type InsufficientHitsError struct {
	WallID string
	Hits   int
}

func (e *InsufficientHitsError) Error() string {
	return fmt.Sprintf("isovist: wall %q: %d probe hits, need %d", e.WallID, e.Hits, MinProbeHits)
}

// DegenerateIsovistError is returned by Builder.Build when fewer than three
// ray endpoints survive. The viewpoint contributes no polygon.
type DegenerateIsovistError struct {
	Viewpoint Viewpoint
	Survivors int
}

func (e *DegenerateIsovistError) Error() string {
	return fmt.Sprintf("isovist: viewpoint (%g, %g) of wall %q: %d ray endpoints survived, need 3",
		e.Viewpoint.Point.X, e.Viewpoint.Point.Y, e.Viewpoint.WallID, e.Survivors)
}
