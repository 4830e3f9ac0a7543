package reproject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
)

func newTransformer(t *testing.T) *Transformer {
	t.Helper()
	tr, err := New(SourceEPSG, DestEPSG)
	require.NoError(t, err)
	return tr
}

func TestNew_UnregisteredSystem(t *testing.T) {
	t.Parallel()

	_, err := New(99999, DestEPSG)
	assert.Error(t, err)

	_, err = New(SourceEPSG, 99999)
	assert.Error(t, err)
}

// A point near the middle of the Surrey dataset. UTM zone 10N easting 515000,
// northing 5443000 sits just west of the central meridian (-123°) at about
// 49.14°N.
func TestPair_KnownPoint(t *testing.T) {
	t.Parallel()
	tr := newTransformer(t)

	out := tr.Pair(geojson.Coord{515000, 5443000})
	require.Len(t, out, 2)

	lon, lat := out[0], out[1]
	assert.InDelta(t, -122.794, lon, 0.01)
	assert.InDelta(t, 49.1417, lat, 0.01)

	// Independently of the golden value, the result must land inside the
	// study area.
	assert.Greater(t, lon, -123.0)
	assert.Less(t, lon, -122.7)
	assert.Greater(t, lat, 49.0)
	assert.Less(t, lat, 49.25)
}

func TestPair_ShortPairsPassThrough(t *testing.T) {
	t.Parallel()
	tr := newTransformer(t)

	assert.Nil(t, tr.Pair(nil))
	assert.Equal(t, geojson.Coord{}, tr.Pair(geojson.Coord{}))
	assert.Equal(t, geojson.Coord{515000}, tr.Pair(geojson.Coord{515000}))
}

func TestPair_ExtraComponentsDropped(t *testing.T) {
	t.Parallel()
	tr := newTransformer(t)

	out := tr.Pair(geojson.Coord{515000, 5443000, 120})
	assert.Len(t, out, 2)
}

func TestPair_DoesNotModifyInput(t *testing.T) {
	t.Parallel()
	tr := newTransformer(t)

	in := geojson.Coord{515000, 5443000}
	_ = tr.Pair(in)
	assert.Equal(t, geojson.Coord{515000, 5443000}, in)
}
