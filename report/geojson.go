package report

import (
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/gogpu/isovist"
	"github.com/gogpu/isovist/coverage"
)

// Feature kinds written to the "kind" property.
const (
	KindCoverage = "coverage"
	KindRoom     = "room"
	KindVisible  = "visible"
)

// FeatureCollection describes a run as GeoJSON in plan coordinates: one
// coverage feature, then for every room its boundary and the covered pieces.
// records must be parallel to rooms, as returned by Build.
func FeatureCollection(agg *coverage.Aggregator, region *coverage.Region, rooms []isovist.Room, records []Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	cov := geojson.NewFeature(multiPolygon(region.Polygons()))
	cov.Properties["kind"] = KindCoverage
	cov.Properties["area"] = region.Area()
	cov.Properties["loops"] = region.Len()
	fc.Append(cov)

	for i, room := range rooms {
		f := geojson.NewFeature(orb.Polygon{ring(room.Boundary)})
		f.Properties["kind"] = KindRoom
		f.Properties["name"] = room.Name
		f.Properties["number"] = room.Number
		if i < len(records) {
			rec := records[i]
			f.Properties["area"] = rec.Area
			f.Properties["visible_area"] = rec.VisibleArea
			f.Properties["malformed"] = rec.Malformed
			if rec.Err != nil {
				f.Properties["error"] = rec.Err.Error()
			}
			if rec.Malformed {
				fc.Append(f)
				continue
			}
		}
		fc.Append(f)

		pieces, err := agg.Pieces(region, room)
		if err != nil || len(pieces) == 0 {
			continue
		}
		v := geojson.NewFeature(multiPolygon(pieces))
		v.Properties["kind"] = KindVisible
		v.Properties["name"] = room.Name
		v.Properties["number"] = room.Number
		fc.Append(v)
	}
	return fc
}

// WriteGeoJSON encodes fc to w.
func WriteGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("report: encode geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("report: write geojson: %w", err)
	}
	return nil
}

// SaveGeoJSON writes fc to path, replacing any existing file.
func SaveGeoJSON(path string, fc *geojson.FeatureCollection) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("report: %w", cerr)
		}
	}()
	return WriteGeoJSON(f, fc)
}

// ring converts a loop to a closed orb ring.
func ring(p isovist.Polygon) orb.Ring {
	r := make(orb.Ring, 0, len(p)+1)
	for _, pt := range p {
		r = append(r, orb.Point{pt.X, pt.Y})
	}
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}

// multiPolygon groups loops into polygons. Counter-clockwise loops are
// outer boundaries; each clockwise loop becomes a hole of the first outer
// boundary winding around its first vertex. Holes without an outer boundary
// are dropped.
func multiPolygon(loops []isovist.Polygon) orb.MultiPolygon {
	var (
		mp     orb.MultiPolygon
		outers []isovist.Polygon
		holes  []isovist.Polygon
	)
	for _, loop := range loops {
		r := ring(loop)
		if len(r) < 4 {
			continue
		}
		if r.Orientation() == orb.CW {
			holes = append(holes, loop)
			continue
		}
		mp = append(mp, orb.Polygon{r})
		outers = append(outers, loop)
	}

	for _, h := range holes {
		for i, outer := range outers {
			if outer.Winding(h[0]) != 0 {
				mp[i] = append(mp[i], ring(h))
				break
			}
		}
	}
	return mp
}

// Area returns the planar area of fc's features of the given kind.
func Area(fc *geojson.FeatureCollection, kind string) float64 {
	var sum float64
	for _, f := range fc.Features {
		if f.Properties["kind"] == kind {
			sum += planar.Area(f.Geometry)
		}
	}
	return sum
}
