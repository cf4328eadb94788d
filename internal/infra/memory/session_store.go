package memory

import (
	"sync"

	"triviaworlds/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	session *app.Session
	holders int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entry),
	}
}

func (s *SessionStore) Acquire(playerID string, create func() (*app.Session, error)) (*app.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[playerID]; ok {
		e.holders++
		return e.session, false, nil
	}
	session, err := create()
	if err != nil {
		return nil, false, err
	}
	s.sessions[playerID] = &entry{session: session, holders: 1}
	return session, true, nil
}

func (s *SessionStore) Get(playerID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[playerID]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Touch is a no-op: the map already holds the live session.
func (s *SessionStore) Touch(*app.Session) {}

func (s *SessionStore) Release(playerID string) (*app.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[playerID]
	if !ok {
		return nil, false
	}
	e.holders--
	if e.holders > 0 {
		return nil, false
	}
	delete(s.sessions, playerID)
	return e.session, true
}

// Len returns the number of open sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
