// Package session keeps the local, per-visitor state of the search page.
package session

import (
	"errors"
	"slices"
	"sync"

	"github.com/starford/hnquery/internal/apperr"
	"github.com/starford/hnquery/internal/models"
)

// Snapshot is a point-in-time copy of a session's state.
type Snapshot struct {
	Query    string       `json:"query"`
	Results  []models.Hit `json:"results"`
	Error    string       `json:"error,omitempty"`
	Searches []string     `json:"searches"`
	// Version grows with every change to the session.
	Version uint64 `json:"version"`
}

// Session is one visitor's state: the current query, the displayed
// results, the last error and the local search history.
type Session struct {
	ID string

	mu       sync.RWMutex
	query    string
	results  []models.Hit
	errMsg   string
	searches []string
	version  uint64
}

// SetQuery records the query currently typed by the visitor.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// AppendSearch adds q to the local history.
func (s *Session) AppendSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, q)
	s.version++
}

// SetResults replaces the displayed results wholesale.
func (s *Session) SetResults(hits []models.Hit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = slices.Clone(hits)
	s.version++
}

// SetError stores msg for display. Results are left as they are.
func (s *Session) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
	s.version++
}

// Snapshot returns a deep copy of the session state. Slices are never nil.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Query:    s.query,
		Results:  make([]models.Hit, len(s.results)),
		Error:    s.errMsg,
		Searches: make([]string, len(s.searches)),
		Version:  s.version,
	}
	copy(snap.Results, s.results)
	copy(snap.Searches, s.searches)
	return snap
}

// Manager maps visitor IDs to sessions. Sessions live as long as the process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for id, creating it on first use.
func (m *Manager) GetOrCreate(id string) (*Session, error) {
	if id == "" {
		return nil, apperr.ErrSessionMissing
	}
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s = &Session{ID: id}
	m.sessions[id] = s
	return s, nil
}

// Get returns the session for id or apperr.ErrNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return s, nil
}

// Snapshot returns the state of id without creating a session: an
// unknown visitor gets an empty snapshot.
func (m *Manager) Snapshot(id string) (Snapshot, error) {
	if id == "" {
		return Snapshot{}, apperr.ErrSessionMissing
	}
	s, err := m.Get(id)
	if errors.Is(err, apperr.ErrNotFound) {
		return Snapshot{Results: []models.Hit{}, Searches: []string{}}, nil
	}
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// Len reports the number of sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
