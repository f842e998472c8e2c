// Package isovist computes how much of each room in a floor plan can see an
// exterior opening.
//
// # Overview
//
// The analysis runs on a single plan level. Viewpoints are placed at the
// openings of exterior walls, a fan of rays is cast from every viewpoint
// against the obstacle faces of the plan, and the resulting visibility
// polygons (isovists) are merged into one coverage region. Each room boundary
// is then intersected with that region to obtain its visible area.
//
// # Quick Start
//
//	import "github.com/gogpu/isovist"
//
//	cfg := isovist.DefaultConfig()
//	b, err := isovist.NewBuilder(faces, cfg)
//	if err != nil {
//		return err
//	}
//	vps, skipped := isovist.Viewpoints(probes, cfg.EyeElevation)
//	for _, err := range skipped {
//		log.Print(err) // walls without openings
//	}
//	for _, vp := range vps {
//		poly, err := b.Build(vp)
//		...
//	}
//
// Most callers use the analysis package, which runs the whole pipeline and
// returns one report record per room.
//
// # Architecture
//
// The module is organized into:
//   - isovist: data model, configuration, opening extraction, ray casting
//   - lattice: float <-> integer coordinate quantization
//   - coverage: union and per-room intersection on top of a clipping engine
//   - report: per-room records and their CSV / GeoJSON exporters
//   - scene: plan snapshot files (walls, openings, rooms)
//   - analysis: the run orchestrator
//   - render: PNG plan preview
//
// # Coordinate System
//
// Plan coordinates are right-handed:
//   - X increases right, Y increases up, Z is elevation
//   - Angles in degrees in configuration, 0 is +X, increases counter-clockwise
//   - Isovists are emitted counter-clockwise
//
// # Logging
//
// The package is silent by default. Call SetLogger to route diagnostics to a
// slog.Logger.
package isovist

// Version is the current version of the module.
const Version = "0.1.0"
