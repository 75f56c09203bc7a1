// Package memory holds per-process session state. Sessions live only
// as long as the process; nothing here touches external resources.
package memory

import (
	"sync"

	"github.com/arogyalabs/medassist/internal/models"
	"github.com/arogyalabs/medassist/internal/utils"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.Session),
	}
}

func (s *SessionStore) Create(sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.SessionID]; exists {
		return utils.E(utils.CodeInternal, "SessionStore.Create", "session already exists", nil)
	}

	s.sessions[sess.SessionID] = sess
	return nil
}

// Get returns a copy of the session; callers never see concurrent
// mutations mid-read.
func (s *SessionStore) Get(sessionID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return sess.Clone(), nil
}

// Mutate applies fn to the session under the write lock, so multi-step
// changes (clear history, reset a domain) are atomic to readers. If fn
// returns an error the session keeps whatever fn already did; callers
// relying on all-or-nothing must not partially mutate before failing.
func (s *SessionStore) Mutate(sessionID string, fn func(*models.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return utils.ErrNotFound
	}
	return fn(sess)
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
