package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/metric"
)

func readyDataset() *geojson.Dataset {
	return &geojson.Dataset{
		Type: "FeatureCollection",
		CRS:  geojson.NamedCRS("EPSG:4326"),
		Features: []geojson.Feature{
			{
				Type: "Feature",
				Geometry: geojson.Geometry{
					Type: geojson.TypePolygon,
					Polygon: [][]geojson.Coord{{
						{-122.85, 49.10}, {-122.75, 49.10}, {-122.75, 49.20}, {-122.85, 49.10},
					}},
				},
				Properties: map[string]any{
					"DAUID": "59153586",
					"Earthquake_Vulnerability_Index_Normalized": 0.85,
					"Age_Normalized":                       0.42,
					"Building_Age_Normalized":              0.61,
					"Urgent_Care_Accessibility_Normalized": 0.18,
					"Hospital_Accessibility_Normalized":    nil,
					"Housing_Suitability_Normalized":       0.77,
					"Communication_Normalized":             0.5,
					"Population":                           5243.0,
					"LANDAREA":                             1.23,
					"PopulationDensity":                    4263.0,
				},
			},
			{
				Type:     "Feature",
				Geometry: geojson.Geometry{Type: geojson.TypePoint, Point: geojson.Coord{-122.8, 49.12}},
				Properties: map[string]any{
					"DAUID": "59150002",
					"Earthquake_Vulnerability_Index_Normalized": 0.1,
				},
			},
		},
	}
}

func newReadyHandler(t *testing.T) http.Handler {
	t.Helper()
	gate := NewGate()
	gate.Ready(readyDataset())
	return NewServer(gate, nil).Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	decoded := map[string]any{}
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded))
	}
	return rr, decoded
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rr, body := doJSON(t, newReadyHandler(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestStatus_Lifecycle(t *testing.T) {
	t.Parallel()

	gate := NewGate()
	h := NewServer(gate, nil).Routes()

	_, body := doJSON(t, h, http.MethodGet, "/api/status", nil)
	assert.Equal(t, "uninitialized", body["state"])

	gate.StartLoading()
	_, body = doJSON(t, h, http.MethodGet, "/api/status", nil)
	assert.Equal(t, "loading", body["state"])

	gate.Ready(readyDataset())
	_, body = doJSON(t, h, http.MethodGet, "/api/status", nil)
	assert.Equal(t, "ready", body["state"])
}

func TestDataEndpoints_WhileLoading(t *testing.T) {
	t.Parallel()

	gate := NewGate()
	gate.StartLoading()
	h := NewServer(gate, nil).Routes()

	for _, path := range []string{"/api/dataset", "/api/overlay"} {
		rr, body := doJSON(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code, path)
		assert.Equal(t, "dataset is loading", body["error"], path)
	}
}

func TestDataEndpoints_AfterFailedLoad(t *testing.T) {
	t.Parallel()

	gate := NewGate()
	gate.StartLoading()
	gate.Fail(errors.New("dataset: fetch https://example.com: status 404"))
	h := NewServer(gate, nil).Routes()

	_, body := doJSON(t, h, http.MethodGet, "/api/status", nil)
	assert.Equal(t, "failed", body["state"])
	assert.Equal(t, "dataset: fetch https://example.com: status 404", body["error"])

	rr, body := doJSON(t, h, http.MethodGet, "/api/overlay", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "dataset: fetch https://example.com: status 404", body["error"])
}

func TestDataset(t *testing.T) {
	t.Parallel()

	rr, body := doJSON(t, newReadyHandler(t), http.MethodGet, "/api/dataset", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "EPSG:4326", body["crs"])
	assert.Equal(t, float64(2), body["feature_count"])

	bounds, ok := body["bounds"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, -122.85, bounds["min_lon"])
	assert.Equal(t, 49.20, bounds["max_lat"])
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	rr, body := doJSON(t, newReadyHandler(t), http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, metric.DefaultID(), body["default"])
	metrics, ok := body["metrics"].([]any)
	require.True(t, ok)
	assert.Len(t, metrics, 7)
}

func TestLegend(t *testing.T) {
	t.Parallel()
	h := newReadyHandler(t)

	rr, body := doJSON(t, h, http.MethodGet, "/api/legend", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, metric.DefaultID(), body["metric"])
	assert.Len(t, body["buckets"], 5)

	rr, _ = doJSON(t, h, http.MethodGet, "/api/legend?metric=Population", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestOverlay(t *testing.T) {
	t.Parallel()
	h := newReadyHandler(t)

	rr, body := doJSON(t, h, http.MethodGet, "/api/overlay", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	styles, ok := body["styles"].([]any)
	require.True(t, ok)
	require.Len(t, styles, 2)

	first := styles[0].(map[string]any)
	assert.Equal(t, "59153586", first["region_id"])
	assert.Equal(t, "#BD0026", first["color"])

	second := styles[1].(map[string]any)
	assert.Equal(t, "#FFFFFF", second["color"])

	rr, _ = doJSON(t, h, http.MethodGet, "/api/overlay?metric=bogus", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rr, body := doJSON(t, h, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	id, ok := body["session_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestSessionFlow(t *testing.T) {
	t.Parallel()
	h := newReadyHandler(t)
	id := createSession(t, h)

	// Before a region is selected the chart is a placeholder and the popup
	// does not exist.
	rr, body := doJSON(t, h, http.MethodGet, "/api/sessions/"+id+"/chart", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["placeholder"])

	rr, _ = doJSON(t, h, http.MethodGet, "/api/sessions/"+id+"/popup", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/region", map[string]string{"region_id": "59153586"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr, body = doJSON(t, h, http.MethodGet, "/api/sessions/"+id+"/chart", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Dissemination Area 59153586", body["title"])
	assert.Equal(t, "bar", body["kind"])
	values, ok := body["values"].([]any)
	require.True(t, ok)
	require.Len(t, values, 7)
	// The null hospital score charts as zero.
	assert.Equal(t, float64(0), values[4])

	rr, body = doJSON(t, h, http.MethodGet, "/api/sessions/"+id+"/popup", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "59153586", body["region_id"])
	assert.Equal(t, "0.85", body["metric_value"])
	assert.Equal(t, "5,243", body["population"])

	rr, _ = doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/chart", map[string]string{"kind": "radar"})
	require.Equal(t, http.StatusOK, rr.Code)
	_, body = doJSON(t, h, http.MethodGet, "/api/sessions/"+id+"/chart", nil)
	assert.Equal(t, "radar", body["kind"])
}

func TestSelectRegion_Unknown(t *testing.T) {
	t.Parallel()
	h := newReadyHandler(t)
	id := createSession(t, h)

	rr, _ := doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/region", map[string]string{"region_id": "00000000"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/region", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSelectMetric(t *testing.T) {
	t.Parallel()
	h := newReadyHandler(t)
	id := createSession(t, h)

	rr, _ := doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/metric", map[string]string{"metric": metric.Hospital})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/metric", map[string]string{"metric": "Population"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestSetChartKind_Invalid(t *testing.T) {
	t.Parallel()
	h := newReadyHandler(t)
	id := createSession(t, h)

	rr, _ := doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/chart", map[string]string{"kind": "pie"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUnknownSession(t *testing.T) {
	t.Parallel()
	h := newReadyHandler(t)

	for _, path := range []string{"/chart", "/popup"} {
		rr, _ := doJSON(t, h, http.MethodGet, "/api/sessions/nope"+path, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
	}
	rr, _ := doJSON(t, h, http.MethodPost, "/api/sessions/nope/metric", map[string]string{"metric": metric.Hospital})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestIndex(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	newReadyHandler(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "Earthquake Resilience")
}

func TestTileRoute(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	gate := NewGate()
	gate.Ready(readyDataset())
	proxy := NewTileProxy(upstream.URL, "png", nil, 100, 10)
	h := NewServer(gate, proxy).Routes()

	req := httptest.NewRequest(http.MethodGet, "/tiles/11/323/705.png", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rr.Body.String())
}
