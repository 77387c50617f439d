package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager hands out one Editor per subject, sharing a single saver so the
// per-key write serialization holds across all sessions.
type Manager struct {
	store Store
	saver *saver

	mu      sync.Mutex
	editors map[uuid.UUID]*Editor
}

// NewManager creates a manager writing through the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:   store,
		saver:   newSaver(store),
		editors: make(map[uuid.UUID]*Editor),
	}
}

// Editor returns the subject's editor, creating it on first use.
func (m *Manager) Editor(userID uuid.UUID) *Editor {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.editors[userID]
	if !ok {
		e = NewEditor(userID, m.store, m.saver)
		m.editors[userID] = e
	}
	return e
}

// Flush blocks until all in-flight saves have completed.
func (m *Manager) Flush() {
	m.saver.Wait()
}
