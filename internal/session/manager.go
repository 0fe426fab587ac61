package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"aicoach-go/internal/feedback"
)

// Manager holds the live controllers for currently running interviews,
// keyed by session id, so HTTP ingestion can reach the right one.
type Manager struct {
	log             *zap.Logger
	pipeline        *feedback.Pipeline
	publishInterval time.Duration

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewManager(log *zap.Logger, pipeline *feedback.Pipeline, publishInterval time.Duration) *Manager {
	return &Manager{
		log:             log,
		pipeline:        pipeline,
		publishInterval: publishInterval,
		controllers:     make(map[string]*Controller),
	}
}

// Acquire returns the live controller for the session, creating one in the
// setup state if none exists yet.
func (m *Manager) Acquire(sessionID, userID, userEmail string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.controllers[sessionID]; ok {
		return c
	}
	c := NewController(m.log, m.pipeline, sessionID, userID, userEmail, m.publishInterval)
	m.controllers[sessionID] = c
	return c
}

// Get returns the live controller for the session, if any.
func (m *Manager) Get(sessionID string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.controllers[sessionID]
	return c, ok
}

// Release drops the controller after the interview has ended. The ended
// controller itself keeps rejecting duplicate End requests; releasing only
// frees the map entry.
func (m *Manager) Release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.controllers, sessionID)
}
