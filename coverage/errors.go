package coverage

import (
	"errors"
	"fmt"
)

// Sentinel errors for the coverage package.
var (
	// ErrShortLoop is returned when a loop with fewer than three points
	// reaches a boolean operation. Builders must never emit one, so this is
	// an invariant violation and fatal to the run.
	ErrShortLoop = errors.New("coverage: loop with fewer than 3 points")

	// ErrEngine is returned when the clipping engine reports failure.
	ErrEngine = errors.New("coverage: clipping engine failed")
)

// MalformedBoundaryError is returned by Intersect when a room boundary does
// not form a closed simple loop. The room is reported with no visible area.
type MalformedBoundaryError struct {
	Room   string
	Reason string
}

func (e *MalformedBoundaryError) Error() string {
	return fmt.Sprintf("coverage: room %q: malformed boundary: %s", e.Room, e.Reason)
}
