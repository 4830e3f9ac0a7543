// Package geojson models the dissemination-area dataset: a feature collection
// with CRS metadata, features carrying scalar attributes, and geometries as a
// closed tagged union over the shape kinds the dataset uses.
package geojson

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/rotisserie/eris"
)

// GeometryType identifies one variant of the Geometry union.
type GeometryType string

// Supported geometry variants. Anything else is carried through raw.
const (
	TypePoint              GeometryType = "Point"
	TypeLineString         GeometryType = "LineString"
	TypePolygon            GeometryType = "Polygon"
	TypeMultiLineString    GeometryType = "MultiLineString"
	TypeMultiPolygon       GeometryType = "MultiPolygon"
	TypeGeometryCollection GeometryType = "GeometryCollection"
)

// Coord is a single coordinate pair. Pairs with fewer than two components are
// tolerated and carried through untouched rather than rejected.
type Coord []float64

// Geometry is a tagged union: exactly one variant field is populated,
// matching Type. Unrecognized types keep their coordinates in Raw so the
// geometry round-trips without loss.
type Geometry struct {
	Type GeometryType

	Point      Coord
	Line       []Coord
	Polygon    [][]Coord
	MultiLine  [][]Coord
	MultiPoly  [][][]Coord
	Geometries []Geometry

	Raw json.RawMessage
}

// geometryEnvelope is the wire form of a GeoJSON geometry object.
type geometryEnvelope struct {
	Type        GeometryType      `json:"type"`
	Coordinates json.RawMessage   `json:"coordinates,omitempty"`
	Geometries  []json.RawMessage `json:"geometries,omitempty"`
}

// UnmarshalJSON decodes a GeoJSON geometry into its union variant. A null
// geometry decodes to the zero Geometry.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = Geometry{}
		return nil
	}

	var env geometryEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return eris.Wrap(err, "geojson: decode geometry")
	}

	out := Geometry{Type: env.Type}
	var err error
	switch env.Type {
	case TypePoint:
		err = json.Unmarshal(env.Coordinates, &out.Point)
	case TypeLineString:
		err = json.Unmarshal(env.Coordinates, &out.Line)
	case TypePolygon:
		err = json.Unmarshal(env.Coordinates, &out.Polygon)
	case TypeMultiLineString:
		err = json.Unmarshal(env.Coordinates, &out.MultiLine)
	case TypeMultiPolygon:
		err = json.Unmarshal(env.Coordinates, &out.MultiPoly)
	case TypeGeometryCollection:
		out.Geometries = make([]Geometry, 0, len(env.Geometries))
		for _, raw := range env.Geometries {
			var sub Geometry
			if err := sub.UnmarshalJSON(raw); err != nil {
				return err
			}
			out.Geometries = append(out.Geometries, sub)
		}
	default:
		// Unknown kind: keep the coordinate tree verbatim.
		out.Raw = append(json.RawMessage(nil), env.Coordinates...)
	}
	if err != nil {
		return eris.Wrapf(err, "geojson: decode %s coordinates", env.Type)
	}

	*g = out
	return nil
}

// MarshalJSON re-encodes the union in GeoJSON wire form.
func (g Geometry) MarshalJSON() ([]byte, error) {
	if g.Type == "" {
		return []byte("null"), nil
	}

	if g.Type == TypeGeometryCollection {
		return json.Marshal(struct {
			Type       GeometryType `json:"type"`
			Geometries []Geometry   `json:"geometries"`
		}{g.Type, g.Geometries})
	}

	var coords any
	switch g.Type {
	case TypePoint:
		coords = g.Point
	case TypeLineString:
		coords = g.Line
	case TypePolygon:
		coords = g.Polygon
	case TypeMultiLineString:
		coords = g.MultiLine
	case TypeMultiPolygon:
		coords = g.MultiPoly
	default:
		coords = g.Raw
		if g.Raw == nil {
			coords = json.RawMessage("null")
		}
	}
	return json.Marshal(struct {
		Type        GeometryType `json:"type"`
		Coordinates any          `json:"coordinates"`
	}{g.Type, coords})
}

// Feature is one geometric shape plus its attribute values.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// RegionIDKey is the attribute carrying the dissemination-area identifier.
const RegionIDKey = "DAUID"

// Well-known non-normalized attributes.
const (
	PopulationKey = "Population"
	LandAreaKey   = "LANDAREA"
	DensityKey    = "PopulationDensity"
)

// RegionID returns the dissemination-area identifier, or "" when the feature
// has no usable id. Numeric ids are formatted without a fraction.
func (f *Feature) RegionID() string {
	v, ok := f.Properties[RegionIDKey]
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

// Number returns the named attribute as a float64. The second result is false
// when the attribute is absent, null, non-numeric, or not finite.
func (f *Feature) Number(name string) (float64, bool) {
	v, ok := f.Properties[name]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// CRS is GeoJSON named-CRS metadata.
type CRS struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// NamedCRS builds named-CRS metadata for the given identifier.
func NamedCRS(name string) *CRS {
	return &CRS{Type: "name", Properties: map[string]string{"name": name}}
}

// Name returns the CRS identifier, or "" when the metadata is absent.
func (c *CRS) Name() string {
	if c == nil {
		return ""
	}
	return c.Properties["name"]
}

// Dataset is an ordered feature collection plus coordinate-reference
// metadata. A transformed dataset always names the destination system; mixed
// datasets are never exposed.
type Dataset struct {
	Type     string    `json:"type"`
	Name     string    `json:"name,omitempty"`
	CRS      *CRS      `json:"crs,omitempty"`
	Features []Feature `json:"features"`
}
