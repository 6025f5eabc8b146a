// Package session tracks per-browser login state and chat transcripts.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/renovalabs/insightdocs/internal/models"
)

// maxIdle is how long a session may go without activity before a later
// Create is allowed to reap it. A reaped session behaves like an unknown
// cookie: the client gets a fresh logged-out session.
const maxIdle = time.Hour

type session struct {
	username   string
	loggedIn   bool
	transcript []models.Turn
	lastSeen   time.Time
}

// Manager holds all sessions in memory, keyed by an opaque cookie ID.
// A session starts logged out and only reaches the chat after Login.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	now      func() time.Time
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Create registers a new logged-out session and returns its ID. Sessions
// idle past maxIdle are reaped here so anonymous page views cannot grow
// the map without bound.
func (m *Manager) Create() string {
	id := uuid.New().String()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reapLocked()
	m.sessions[id] = &session{lastSeen: m.now()}
	return id
}

// reapLocked drops every session idle past maxIdle. Caller holds m.mu.
func (m *Manager) reapLocked() {
	cutoff := m.now().Add(-maxIdle)
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

// Login marks the session as authenticated for username.
// Unknown IDs are ignored.
func (m *Manager) Login(id, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.loggedIn = true
		s.username = username
		s.lastSeen = m.now()
	}
}

// Logout clears the login flag and discards the transcript. The next login
// starts a fresh conversation.
func (m *Manager) Logout(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.loggedIn = false
		s.username = ""
		s.transcript = nil
		s.lastSeen = m.now()
	}
}

// Exists reports whether the session ID is known.
func (m *Manager) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[id]
	return ok
}

// LoggedIn reports whether the session exists and is authenticated.
func (m *Manager) LoggedIn(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return ok && s.loggedIn
}

// Username returns the authenticated username of the session, if any.
func (m *Manager) Username(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s.username
	}
	return ""
}

// AppendTurn adds a turn to the session transcript.
func (m *Manager) AppendTurn(id string, turn models.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.transcript = append(s.transcript, turn)
		s.lastSeen = m.now()
	}
}

// Transcript returns a copy of the session transcript in order.
func (m *Manager) Transcript(id string) []models.Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok || len(s.transcript) == 0 {
		return nil
	}
	out := make([]models.Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}
