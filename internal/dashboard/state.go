// Package dashboard exposes the resilience dashboard over HTTP: the
// transformed dataset, choropleth overlay styles, legend, selection
// sessions, chart payloads, and the basemap tile proxy.
package dashboard

import (
	"sync"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/dataset"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
)

// State is one phase of the one-time startup sequence.
type State string

// The dataset load walks uninitialized → loading → ready | failed and never
// moves again: the load is triggered exactly once.
const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// Gate is the readiness state machine guarding every data endpoint. There is
// no retry affordance: a failed load leaves the dashboard in its error state.
type Gate struct {
	mu        sync.RWMutex
	state     State
	ds        *geojson.Dataset
	bounds    dataset.BBox
	hasBounds bool
	errMsg    string
}

// NewGate returns a gate in the uninitialized state.
func NewGate() *Gate {
	return &Gate{state: StateUninitialized}
}

// StartLoading marks the load as in flight.
func (g *Gate) StartLoading() {
	g.mu.Lock()
	g.state = StateLoading
	g.mu.Unlock()
}

// Ready publishes the transformed dataset and computes its bounds.
func (g *Gate) Ready(ds *geojson.Dataset) {
	bounds, ok := dataset.Bounds(ds)

	g.mu.Lock()
	g.state = StateReady
	g.ds = ds
	g.bounds = bounds
	g.hasBounds = ok
	g.mu.Unlock()
}

// Fail records the single user-visible error message.
func (g *Gate) Fail(err error) {
	g.mu.Lock()
	g.state = StateFailed
	g.errMsg = err.Error()
	g.mu.Unlock()
}

// State returns the current phase.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Err returns the failure message, or "" when the gate has not failed.
func (g *Gate) Err() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.errMsg
}

// Dataset returns the published dataset, or false while the gate is not
// ready.
func (g *Gate) Dataset() (*geojson.Dataset, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state != StateReady {
		return nil, false
	}
	return g.ds, true
}

// Bounds returns the dataset bounding box, or false when unavailable.
func (g *Gate) Bounds() (dataset.BBox, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state != StateReady || !g.hasBounds {
		return dataset.BBox{}, false
	}
	return g.bounds, true
}
