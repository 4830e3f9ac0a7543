// Package selection holds the dashboard's in-memory selection state: the
// region the user clicked, the metric being displayed, and the chart kind.
// State changes only through the named operations; there is no reset —
// selecting a new region overwrites the previous selection.
package selection

import (
	"fmt"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/metric"
)

// ChartKind selects the chart rendering for the current region.
type ChartKind string

// Supported chart kinds.
const (
	ChartBar   ChartKind = "bar"
	ChartRadar ChartKind = "radar"
)

// UnknownMetricError reports a selection request for an unregistered metric
// identifier. The selection is left unchanged.
type UnknownMetricError struct {
	ID string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("selection: unknown metric %q", e.ID)
}

// Point is one chart entry: a metric label and its value for the selected
// region.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Model is the selection state container. HTTP handlers run concurrently, so
// access is serialized internally.
type Model struct {
	mu       sync.Mutex
	attrs    map[string]any
	metricID string
	chart    ChartKind
}

// NewModel returns a model with no region selected, the overall resilience
// index as the active metric, and a bar chart.
func NewModel() *Model {
	return &Model{
		metricID: metric.DefaultID(),
		chart:    ChartBar,
	}
}

// SelectRegion replaces the current selection wholesale with the given
// feature attributes.
func (m *Model) SelectRegion(attrs map[string]any) {
	copied := make(map[string]any, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}

	m.mu.Lock()
	m.attrs = copied
	m.mu.Unlock()
}

// SelectMetric switches the active metric. The identifier must name a
// registered metric; otherwise the current selection is untouched and an
// UnknownMetricError is returned.
func (m *Model) SelectMetric(id string) error {
	if _, ok := metric.ByID(id); !ok {
		return &UnknownMetricError{ID: id}
	}

	m.mu.Lock()
	m.metricID = id
	m.mu.Unlock()
	return nil
}

// SetChartKind switches between the bar and radar charts.
func (m *Model) SetChartKind(k ChartKind) error {
	if k != ChartBar && k != ChartRadar {
		return eris.Errorf("selection: unknown chart kind %q", k)
	}

	m.mu.Lock()
	m.chart = k
	m.mu.Unlock()
	return nil
}

// MetricID returns the active metric identifier.
func (m *Model) MetricID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metricID
}

// Kind returns the active chart kind.
func (m *Model) Kind() ChartKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chart
}

// Region returns a copy of the selected region's attributes, or false when
// no region has been selected yet.
func (m *Model) Region() (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attrs == nil {
		return nil, false
	}
	out := make(map[string]any, len(m.attrs))
	for k, v := range m.attrs {
		out[k] = v
	}
	return out, true
}

// ChartSeries derives the (label, value) pairs for the current selection,
// one per registered metric in display order. A null or missing attribute
// contributes 0 — a deliberate lossy default, so a missing value and a true
// zero chart identically. Returns nil when no region is selected.
func (m *Model) ChartSeries() []Point {
	m.mu.Lock()
	attrs := m.attrs
	m.mu.Unlock()

	if attrs == nil {
		return nil
	}

	f := geojson.Feature{Properties: attrs}
	descriptors := metric.Registry()
	series := make([]Point, 0, len(descriptors))
	for _, d := range descriptors {
		v, ok := f.Number(d.ID)
		if !ok {
			v = 0
		}
		series = append(series, Point{Label: d.Label, Value: v})
	}
	return series
}
