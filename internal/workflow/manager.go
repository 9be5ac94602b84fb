package workflow

import (
	"errors"
	"sync"
)

var (
	ErrSessionActive   = errors.New("an intake session is already active for this user")
	ErrNoActiveSession = errors.New("no active intake session for this user")
)

// SessionManager holds the single active intake session per user. It
// only guards the map; each session itself has one logical owner and is
// mutated from that owner's requests only.
type SessionManager struct {
	mu     sync.Mutex
	byUser map[string]*Session
}

// NewSessionManager creates an empty manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{byUser: make(map[string]*Session)}
}

// Start creates a session for the user. A second concurrent session is
// rejected; the caller must abandon or submit the first.
func (m *SessionManager) Start(userID, boardID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byUser[userID]; ok {
		return nil, ErrSessionActive
	}
	s := NewSession(userID, boardID)
	m.byUser[userID] = s
	return s, nil
}

// Get returns the user's active session.
func (m *SessionManager) Get(userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byUser[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s, nil
}

// Discard drops the user's session and returns it so the caller can
// clean up stored blobs.
func (m *SessionManager) Discard(userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byUser[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	delete(m.byUser, userID)
	return s, nil
}
