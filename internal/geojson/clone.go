package geojson

// Clone returns a deep copy of the coordinate pair.
func (c Coord) Clone() Coord {
	if c == nil {
		return nil
	}
	return append(Coord(nil), c...)
}

func cloneLine(line []Coord) []Coord {
	if line == nil {
		return nil
	}
	out := make([]Coord, len(line))
	for i, c := range line {
		out[i] = c.Clone()
	}
	return out
}

func cloneRings(rings [][]Coord) [][]Coord {
	if rings == nil {
		return nil
	}
	out := make([][]Coord, len(rings))
	for i, r := range rings {
		out[i] = cloneLine(r)
	}
	return out
}

// Clone returns a deep copy of the geometry. Transformation always operates
// on a clone so the fetched dataset is never mutated in place.
func (g Geometry) Clone() Geometry {
	out := Geometry{Type: g.Type}
	out.Point = g.Point.Clone()
	out.Line = cloneLine(g.Line)
	out.Polygon = cloneRings(g.Polygon)
	out.MultiLine = cloneRings(g.MultiLine)
	if g.MultiPoly != nil {
		out.MultiPoly = make([][][]Coord, len(g.MultiPoly))
		for i, poly := range g.MultiPoly {
			out.MultiPoly[i] = cloneRings(poly)
		}
	}
	if g.Geometries != nil {
		out.Geometries = make([]Geometry, len(g.Geometries))
		for i, sub := range g.Geometries {
			out.Geometries[i] = sub.Clone()
		}
	}
	if g.Raw != nil {
		out.Raw = append(out.Raw, g.Raw...)
	}
	return out
}

// Clone returns a deep copy of the feature. Property values are scalars, so a
// shallow map copy is sufficient.
func (f Feature) Clone() Feature {
	out := Feature{Type: f.Type, Geometry: f.Geometry.Clone()}
	if f.Properties != nil {
		out.Properties = make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			out.Properties[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := &Dataset{Type: d.Type, Name: d.Name}
	if d.CRS != nil {
		out.CRS = NamedCRS(d.CRS.Name())
		out.CRS.Type = d.CRS.Type
		for k, v := range d.CRS.Properties {
			out.CRS.Properties[k] = v
		}
	}
	if d.Features != nil {
		out.Features = make([]Feature, len(d.Features))
		for i, f := range d.Features {
			out.Features[i] = f.Clone()
		}
	}
	return out
}
