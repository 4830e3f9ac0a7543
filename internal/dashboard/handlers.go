package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/metric"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/selection"
)

// Server wires the dashboard HTTP surface.
type Server struct {
	gate     *Gate
	sessions *Sessions
	tiles    *TileProxy
}

// NewServer creates the dashboard server. tiles may be nil to disable the
// basemap proxy.
func NewServer(gate *Gate, tiles *TileProxy) *Server {
	return &Server{
		gate:     gate,
		sessions: NewSessions(),
		tiles:    tiles,
	}
}

// Routes builds the chi router for the dashboard.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/metrics", s.handleMetrics)
	r.Get("/api/legend", s.handleLegend)
	r.Get("/api/dataset", s.handleDataset)
	r.Get("/api/overlay", s.handleOverlay)
	r.Post("/api/sessions", s.handleCreateSession)
	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Post("/region", s.handleSelectRegion)
		r.Post("/metric", s.handleSelectMetric)
		r.Post("/chart", s.handleSetChartKind)
		r.Get("/chart", s.handleChart)
		r.Get("/popup", s.handlePopup)
	})
	if s.tiles != nil {
		r.Get("/tiles/{z}/{x}/{y}.png", s.handleTile)
	}
	r.Get("/", s.handleIndex)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	body := map[string]string{"state": string(s.gate.State())}
	if msg := s.gate.Err(); msg != "" {
		body["error"] = msg
	}
	writeJSON(w, http.StatusOK, body)
}

// requireDataset writes the not-ready response and returns false while the
// gate has nothing to serve. A failed load carries its single user-visible
// error message; there is no partial-data fallback.
func (s *Server) requireDataset(w http.ResponseWriter) (*geojson.Dataset, bool) {
	ds, ok := s.gate.Dataset()
	if ok {
		return ds, true
	}

	msg := "dataset is loading"
	if s.gate.State() == StateFailed {
		msg = s.gate.Err()
	}
	writeError(w, http.StatusServiceUnavailable, msg)
	return nil, false
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default": metric.DefaultID(),
		"metrics": metric.Registry(),
	})
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	metricID := r.URL.Query().Get("metric")
	if metricID == "" {
		metricID = metric.DefaultID()
	}

	legend, err := BuildLegend(metricID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, legend)
}

func (s *Server) handleDataset(w http.ResponseWriter, _ *http.Request) {
	ds, ok := s.requireDataset(w)
	if !ok {
		return
	}

	body := map[string]any{
		"crs":           ds.CRS.Name(),
		"feature_count": len(ds.Features),
		"collection":    ds,
	}
	if bounds, ok := s.gate.Bounds(); ok {
		body["bounds"] = bounds
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.requireDataset(w)
	if !ok {
		return
	}

	metricID := r.URL.Query().Get("metric")
	if metricID == "" {
		metricID = metric.DefaultID()
	}

	styles, err := BuildOverlay(ds, metricID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"metric": metricID,
		"styles": styles,
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id := s.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

// session resolves the session model from the URL, writing a 404 on miss.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*selection.Model, bool) {
	id := chi.URLParam(r, "id")
	m, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}
	return m, true
}

func (s *Server) handleSelectRegion(w http.ResponseWriter, r *http.Request) {
	m, ok := s.session(w, r)
	if !ok {
		return
	}
	ds, ok := s.requireDataset(w)
	if !ok {
		return
	}

	var req struct {
		RegionID string `json:"region_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RegionID == "" {
		writeError(w, http.StatusBadRequest, "region_id is required")
		return
	}

	for i := range ds.Features {
		f := &ds.Features[i]
		if f.Properties != nil && f.RegionID() == req.RegionID {
			m.SelectRegion(f.Properties)
			writeJSON(w, http.StatusOK, map[string]string{"region_id": req.RegionID})
			return
		}
	}
	writeError(w, http.StatusNotFound, "unknown region")
}

func (s *Server) handleSelectMetric(w http.ResponseWriter, r *http.Request) {
	m, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Metric string `json:"metric"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := m.SelectMetric(req.Metric); err != nil {
		var unknown *selection.UnknownMetricError
		if errors.As(err, &unknown) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"metric": req.Metric})
}

func (s *Server) handleSetChartKind(w http.ResponseWriter, r *http.Request) {
	m, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := m.SetChartKind(selection.ChartKind(req.Kind)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"kind": req.Kind})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	m, ok := s.session(w, r)
	if !ok {
		return
	}

	var title string
	if attrs, selected := m.Region(); selected {
		f := geojson.Feature{Properties: attrs}
		title = "Dissemination Area " + f.RegionID()
	}
	writeJSON(w, http.StatusOK, BuildChart(m.ChartSeries(), m.Kind(), title))
}

func (s *Server) handlePopup(w http.ResponseWriter, r *http.Request) {
	m, ok := s.session(w, r)
	if !ok {
		return
	}

	attrs, selected := m.Region()
	if !selected {
		writeError(w, http.StatusNotFound, "no region selected")
		return
	}

	popup, err := BuildPopup(attrs, m.MetricID())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, popup)
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	z, errZ := strconv.Atoi(chi.URLParam(r, "z"))
	x, errX := strconv.Atoi(chi.URLParam(r, "x"))
	y, errY := strconv.Atoi(chi.URLParam(r, "y"))
	if errZ != nil || errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "invalid tile path")
		return
	}

	data, ct, err := s.tiles.Fetch(r.Context(), z, x, y)
	if err != nil {
		zap.L().Error("basemap tile fetch failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "upstream fetch failed")
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}
