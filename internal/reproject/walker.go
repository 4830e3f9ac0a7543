package reproject

import (
	"go.uber.org/zap"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
)

// Geometry returns a transformed deep copy of g. The nesting shape of the
// result is identical to the input; only leaf coordinate pairs change.
// Geometry kinds outside the known set are logged and returned unchanged,
// never rejected: the dataset's geometry vocabulary is not guaranteed to be
// exhaustively mapped.
func (t *Transformer) Geometry(g geojson.Geometry) geojson.Geometry {
	out := g.Clone()
	t.walk(&out)
	return out
}

func (t *Transformer) walk(g *geojson.Geometry) {
	switch g.Type {
	case "":
		// Null geometry, nothing to do.
	case geojson.TypePoint:
		g.Point = t.Pair(g.Point)
	case geojson.TypeLineString:
		g.Line = t.line(g.Line)
	case geojson.TypePolygon:
		g.Polygon = t.rings(g.Polygon)
	case geojson.TypeMultiLineString:
		g.MultiLine = t.rings(g.MultiLine)
	case geojson.TypeMultiPolygon:
		for i := range g.MultiPoly {
			g.MultiPoly[i] = t.rings(g.MultiPoly[i])
		}
	case geojson.TypeGeometryCollection:
		for i := range g.Geometries {
			t.walk(&g.Geometries[i])
		}
	default:
		zap.L().Warn("reproject: unsupported geometry type, passing through",
			zap.String("type", string(g.Type)),
		)
	}
}

func (t *Transformer) line(line []geojson.Coord) []geojson.Coord {
	for i, c := range line {
		line[i] = t.Pair(c)
	}
	return line
}

func (t *Transformer) rings(rings [][]geojson.Coord) [][]geojson.Coord {
	for i := range rings {
		rings[i] = t.line(rings[i])
	}
	return rings
}
