package dataset

import (
	geom "github.com/twpayne/go-geom"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
)

// BBox is a geographic bounding box in lon/lat order.
type BBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Bounds computes the bounding box over every feature of a transformed
// dataset. Returns false when the dataset holds no usable coordinates.
func Bounds(ds *geojson.Dataset) (BBox, bool) {
	b := geom.NewBounds(geom.XY)

	var extend func(g geojson.Geometry)
	extend = func(g geojson.Geometry) {
		if g.Type == geojson.TypeGeometryCollection {
			for _, sub := range g.Geometries {
				extend(sub)
			}
			return
		}
		if gt := toGeom(g); gt != nil {
			b.Extend(gt)
		}
	}

	for _, f := range ds.Features {
		extend(f.Geometry)
	}

	if b.IsEmpty() {
		return BBox{}, false
	}
	return BBox{
		MinLon: b.Min(0),
		MinLat: b.Min(1),
		MaxLon: b.Max(0),
		MaxLat: b.Max(1),
	}, true
}

// toGeom converts one non-collection geometry to go-geom form. Unknown kinds
// and degenerate shapes yield nil and contribute nothing to the bounds.
func toGeom(g geojson.Geometry) geom.T {
	switch g.Type {
	case geojson.TypePoint:
		flat := flatLine([]geojson.Coord{g.Point})
		if len(flat) == 0 {
			return nil
		}
		return geom.NewPointFlat(geom.XY, flat)
	case geojson.TypeLineString:
		flat := flatLine(g.Line)
		if len(flat) == 0 {
			return nil
		}
		return geom.NewLineStringFlat(geom.XY, flat)
	case geojson.TypePolygon:
		flat, ends := flatRings(g.Polygon)
		if len(flat) == 0 {
			return nil
		}
		return geom.NewPolygonFlat(geom.XY, flat, ends)
	case geojson.TypeMultiLineString:
		flat, ends := flatRings(g.MultiLine)
		if len(flat) == 0 {
			return nil
		}
		return geom.NewMultiLineStringFlat(geom.XY, flat, ends)
	case geojson.TypeMultiPolygon:
		var flat []float64
		var endss [][]int
		for _, poly := range g.MultiPoly {
			polyFlat, ends := flatRings(poly)
			if len(polyFlat) == 0 {
				continue
			}
			offset := len(flat)
			for i := range ends {
				ends[i] += offset
			}
			flat = append(flat, polyFlat...)
			endss = append(endss, ends)
		}
		if len(flat) == 0 {
			return nil
		}
		return geom.NewMultiPolygonFlat(geom.XY, flat, endss)
	default:
		return nil
	}
}

// flatLine flattens coordinate pairs, skipping malformed short pairs and
// discarding any components beyond the second.
func flatLine(line []geojson.Coord) []float64 {
	flat := make([]float64, 0, len(line)*2)
	for _, c := range line {
		if len(c) < 2 {
			continue
		}
		flat = append(flat, c[0], c[1])
	}
	return flat
}

func flatRings(rings [][]geojson.Coord) ([]float64, []int) {
	var flat []float64
	var ends []int
	for _, ring := range rings {
		ringFlat := flatLine(ring)
		if len(ringFlat) == 0 {
			continue
		}
		flat = append(flat, ringFlat...)
		ends = append(ends, len(flat))
	}
	return flat, ends
}
