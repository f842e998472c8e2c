// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws a plan preview of an analysis run: rooms, the
// coverage region and the viewpoints it was built from.
//
// Rendering is CPU-only. Fills go through the golang.org/x/image/vector
// rasterizer and room labels are set in Go Regular.
//
//	img, err := render.Plan(render.Scene{
//	    Rooms:      snap.Rooms,
//	    Records:    res.Records,
//	    Coverage:   res.Coverage.Polygons(),
//	    Viewpoints: res.Viewpoints,
//	}, render.Options{Width: 1200})
package render
