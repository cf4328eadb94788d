package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"triviaworlds/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions stay in a local map; game state never leaves the process.
//   - Redis holds a liveness key per player whose value is the outcome
//     summary (e.g. "PPF-------"), so operators can see who is playing and how far they got.
//   - The key expires after ttl unless Touch refreshes it, and is removed with the last holder.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	session *app.Session
	holders int
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
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

func (s *SessionStore) Touch(session *app.Session) {
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), session.Summary(), s.ttl).Err()
}

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
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
	return e.session, true
}

func (s *SessionStore) key(playerID string) string {
	return keyPrefix + ":session:" + playerID
}
