package isovist

// Room is a room boundary with its identity fields. Rooms are read-only
// inputs owned by the scene adapter.
type Room struct {
	Name      string
	Number    string
	Occupancy string

	// Area is the room's gross area as stored by the host model.
	Area float64

	// Boundary is the outer loop of the room in plan coordinates.
	Boundary Polygon
}

// Label returns "number name", or whichever of the two is set.
func (r Room) Label() string {
	switch {
	case r.Number == "":
		return r.Name
	case r.Name == "":
		return r.Number
	default:
		return r.Number + " " + r.Name
	}
}
