// Package memory provides an in-memory session store for single-node
// development and tests. It honors the same contract as the Redis store.
package memory

import (
	"context"
	"sync"
	"time"

	redisstore "github.com/ecowaste/portal/internal/adapters/redis"
	domainauth "github.com/ecowaste/portal/internal/domain/auth"
)

// SessionStore keeps sessions in a map guarded by a mutex. The whole session
// value is swapped under the lock, so a concurrent reader sees either the
// previous record or the new one, never a mix.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, redisstore.ErrNotFound
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domainauth.Session{}, redisstore.ErrNotFound
	}

	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return domainauth.Session{}, redisstore.ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of live sessions. Test helper.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

type emptyIDError struct{}

func (emptyIDError) Error() string { return "session ID cannot be empty" }

var errEmptyID error = emptyIDError{}
