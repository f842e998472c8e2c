package isovist

import "fmt"

// EdgePolicy decides what a ray that hits nothing inside the radius
// contributes to the isovist outline.
type EdgePolicy int

const (
	// DropUnhit omits the endpoint of an unobstructed ray. Directions with
	// nothing to hit contribute no vertex, so the loop closes with a chord
	// across the open sector.
	DropUnhit EdgePolicy = iota

	// ClampToRadius keeps the endpoint of an unobstructed ray at the radius,
	// bounding open sectors with a polygonal arc.
	ClampToRadius
)

// String returns the configuration name of the policy.
func (p EdgePolicy) String() string {
	switch p {
	case DropUnhit:
		return "drop-unhit"
	case ClampToRadius:
		return "clamp-to-radius"
	default:
		return fmt.Sprintf("EdgePolicy(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p EdgePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *EdgePolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "drop-unhit", "":
		*p = DropUnhit
	case "clamp-to-radius":
		*p = ClampToRadius
	default:
		return fmt.Errorf("%w: unknown edge policy %q", ErrInvalidConfig, text)
	}
	return nil
}

// endpoint returns the outline vertex for one ray. obstructed reports
// whether something closer than the radius was hit; hit is that point.
func (p EdgePolicy) endpoint(r Ray, hit Point3, obstructed bool) (Point, bool) {
	if obstructed {
		return hit.Plan(), true
	}
	if p == ClampToRadius {
		return r.End().Plan(), true
	}
	return Point{}, false
}
