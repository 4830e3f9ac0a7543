package dashboard

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/selection"
)

// Sessions tracks one selection model per connected client. Sessions live
// for the process lifetime only; nothing is persisted across restarts.
type Sessions struct {
	mu     sync.Mutex
	models map[string]*selection.Model
}

// NewSessions returns an empty session store.
func NewSessions() *Sessions {
	return &Sessions{models: make(map[string]*selection.Model)}
}

// Create registers a fresh selection model and returns its identifier.
func (s *Sessions) Create() string {
	id := uuid.NewString()

	s.mu.Lock()
	s.models[id] = selection.NewModel()
	s.mu.Unlock()
	return id
}

// Get looks up the model for a session id.
func (s *Sessions) Get(id string) (*selection.Model, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.models[id]
	return m, ok
}
