package dataset

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
)

// LoadShapefile ingests a dissemination-area boundary shapefile plus its DBF
// attribute table and returns the transformed dataset. The shapefile is
// expected in the same projected source system as the GeoJSON publication.
func (l *Loader) LoadShapefile(ctx context.Context, path string) (*geojson.Dataset, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, &ParseError{Err: eris.Wrap(err, "open shapefile")}
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	log := zap.L().With(zap.String("component", "dataset.shapefile"))

	ds := &geojson.Dataset{Type: "FeatureCollection"}
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}

		geometry := polygonToMultiPolygon(poly)
		if geometry.Type == "" {
			skipped++
			continue
		}

		props := make(map[string]any, len(names))
		for i, name := range names {
			props[name] = attrValue(name, reader.Attribute(i))
		}

		ds.Features = append(ds.Features, geojson.Feature{
			Type:       "Feature",
			Geometry:   geometry,
			Properties: props,
		})
	}

	if skipped > 0 {
		log.Warn("skipped non-polygon shapefile records", zap.Int("skipped", skipped))
	}
	log.Info("shapefile ingested", zap.Int("features", len(ds.Features)))

	return l.Transform(ctx, ds)
}

// polygonToMultiPolygon converts shapefile polygon parts into a MultiPolygon
// geometry, one single-ring polygon per part.
func polygonToMultiPolygon(p *shp.Polygon) geojson.Geometry {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return geojson.Geometry{}
	}

	multi := make([][][]geojson.Coord, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		ring := make([]geojson.Coord, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, geojson.Coord{p.Points[j].X, p.Points[j].Y})
		}
		if len(ring) == 0 {
			continue
		}
		multi = append(multi, [][]geojson.Coord{ring})
	}

	if len(multi) == 0 {
		return geojson.Geometry{}
	}
	return geojson.Geometry{Type: geojson.TypeMultiPolygon, MultiPoly: multi}
}

// attrValue parses a DBF attribute. The region identifier stays a string;
// everything else becomes a number when it parses as one, and null when the
// cell is empty.
func attrValue(name, raw string) any {
	raw = strings.TrimSpace(raw)
	if name == geojson.RegionIDKey {
		return raw
	}
	if raw == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return raw
}
