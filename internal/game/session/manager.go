package session

import (
	"fmt"
	"sync"

	"github.com/castellan/skirmish/internal/game/character"
)

// Manager tracks all open sessions by ID.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // session ID → session
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Open registers a new session for the given player.
//
// Precondition: id must be non-empty and player non-nil.
// Postcondition: Returns the created Session, or an error if the ID is
// already registered.
func (m *Manager) Open(id string, player *character.Player) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session: id is required")
	}
	if player == nil {
		return nil, fmt.Errorf("session: player is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; exists {
		return nil, fmt.Errorf("session %q already open", id)
	}

	sess := &Session{id: id, player: player}
	m.sessions[id] = sess
	return sess, nil
}

// Remove closes a session. A battle still held by the session is abandoned;
// unclaimed rewards are lost with it.
//
// Postcondition: The session is removed from tracking. Returns an error if
// not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return fmt.Errorf("session %q not found", id)
	}
	delete(m.sessions, id)
	return nil
}

// Get returns the session for the given ID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// GetByPlayer returns the session whose player has the given name.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) GetByPlayer(name string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sess := range m.sessions {
		if sess.player.Name() == name {
			return sess, true
		}
	}
	return nil, false
}

// InBattle returns the IDs of every session currently fighting an ongoing
// battle.
//
// Postcondition: Returns a slice of session IDs (may be empty).
func (m *Manager) InBattle() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id, sess := range m.sessions {
		if sess.InBattle() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Count returns the total number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
