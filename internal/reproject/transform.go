// Package reproject converts dataset coordinates from the projected source
// system (NAD83 / UTM zone 10N) to geographic WGS84 longitude/latitude.
package reproject

import (
	"sync"

	"github.com/rotisserie/eris"
	"github.com/wroge/wgs84"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
)

// The two fixed systems the dashboard deals with.
const (
	// SourceEPSG is NAD83 / UTM zone 10N, the system the dataset is published in.
	SourceEPSG = 26910
	// DestEPSG is WGS84 geographic, the system the map surface displays.
	DestEPSG = 4326
)

var (
	registerOnce sync.Once
	systems      map[int]wgs84.CoordinateReferenceSystem
)

// registerSystems installs the fixed coordinate-system definitions into the
// projection engine registry. Idempotent: repeated calls are no-ops.
func registerSystems() {
	registerOnce.Do(func() {
		utm10 := wgs84.UTM(10, true)
		systems = map[int]wgs84.CoordinateReferenceSystem{
			// NAD83 and WGS84 differ by well under a metre over the study
			// area, so the WGS84 UTM formulas stand in for both 26910 and
			// 32610.
			26910:    utm10,
			32610:    utm10,
			DestEPSG: wgs84.LonLat(),
		}
	})
}

// Transformer converts coordinate pairs between two registered systems.
type Transformer struct {
	forward wgs84.Func
}

// New builds a Transformer for the given EPSG pair. An unregistered code
// means the projection engine cannot serve the dataset.
func New(sourceEPSG, destEPSG int) (*Transformer, error) {
	registerSystems()

	from, ok := systems[sourceEPSG]
	if !ok {
		return nil, eris.Errorf("reproject: unregistered source system EPSG:%d", sourceEPSG)
	}
	to, ok := systems[destEPSG]
	if !ok {
		return nil, eris.Errorf("reproject: unregistered destination system EPSG:%d", destEPSG)
	}

	return &Transformer{forward: wgs84.Transform(from, to)}, nil
}

// Pair transforms a single coordinate pair. Pairs with fewer than two
// components are returned unchanged; any components beyond the second are
// discarded. The input slice is never modified.
func (t *Transformer) Pair(c geojson.Coord) geojson.Coord {
	if len(c) < 2 {
		return c
	}
	x, y, _ := t.forward(c[0], c[1], 0)
	return geojson.Coord{x, y}
}
