package domain

import (
	"sync"
	"time"
)

// SessionState tracks the lifecycle of one authenticated connection.
type SessionState int

const (
	// StateConnecting is the initial state before credential verification.
	StateConnecting SessionState = iota
	// StateActive means the connection is authenticated and registered
	// in the presence table.
	StateActive
	// StateClosed is terminal; a reconnect starts a fresh session.
	StateClosed
	// StateRejected is terminal; credential verification failed and no
	// presence entry was ever created.
	StateRejected
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

// Session holds per-connection state owned by the coordinator.
type Session struct {
	ID           string
	UserID       string
	Name         string
	ConnectedAt  time.Time
	LastActiveAt time.Time

	state SessionState
	mu    sync.RWMutex
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		ConnectedAt:  now,
		LastActiveAt: now,
		state:        StateConnecting,
	}
}

// Activate binds a verified identity to the session. It returns false
// if the session is not in the connecting state.
func (s *Session) Activate(userID, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnecting {
		return false
	}
	s.UserID = userID
	s.Name = name
	s.state = StateActive
	s.LastActiveAt = time.Now()
	return true
}

// Reject marks the session as refused at handshake. Terminal.
func (s *Session) Reject() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateConnecting {
		s.state = StateRejected
	}
}

// Close marks the session closed. Terminal; idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateActive || s.state == StateConnecting {
		s.state = StateClosed
	}
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) IsActive() bool {
	return s.State() == StateActive
}

func (s *Session) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActiveAt = time.Now()
}
