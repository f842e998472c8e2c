package isovist

import "log/slog"

// Probe is the result of casting one ray along a wall: from a point just
// outside one end, at eye elevation, in the wall's longitudinal direction.
// Hits include only the probed wall's own faces: its near and far surface
// crossings first, then the opening boundaries in order along the ray.
type Probe struct {
	WallID string
	Hits   []Point3
}

// Viewpoint is a place an occupant could look out from. Created once per
// detected opening boundary point.
type Viewpoint struct {
	Point  Point3
	WallID string
}

// ExtractOpenings returns the opening boundary points of a probed wall.
//
// The first two hits are the wall's own near and far surface crossings and
// are discarded; the remainder are opening boundaries. A probe with fewer
// than MinProbeHits hits has no opening and yields *InsufficientHitsError.
// The input is not modified.
func ExtractOpenings(p Probe) ([]Point3, error) {
	if len(p.Hits) < MinProbeHits {
		return nil, &InsufficientHitsError{WallID: p.WallID, Hits: len(p.Hits)}
	}
	pts := make([]Point3, len(p.Hits)-2)
	copy(pts, p.Hits[2:])
	return pts, nil
}

// Viewpoints extracts openings from every probe and lifts the resulting
// points to eye elevation. Walls without openings are skipped; their
// *InsufficientHitsError values are returned alongside in probe order.
func Viewpoints(probes []Probe, eye float64) ([]Viewpoint, []error) {
	var (
		vps     []Viewpoint
		skipped []error
	)
	log := Logger()

	for _, p := range probes {
		pts, err := ExtractOpenings(p)
		if err != nil {
			log.Debug("wall has no openings", slog.String("wall", p.WallID), slog.Int("hits", len(p.Hits)))
			skipped = append(skipped, err)
			continue
		}
		for _, pt := range pts {
			vps = append(vps, Viewpoint{Point: pt.Plan().At(eye), WallID: p.WallID})
		}
		log.Debug("wall openings", slog.String("wall", p.WallID), slog.Int("points", len(pts)))
	}
	return vps, skipped
}
