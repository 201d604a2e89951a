// Package session holds the authenticated sessions of the process.
// A single Store is created at startup and shared by every connection worker;
// only the login and profile flows write to it.
package session

import (
	"consultoria-tcp/domain"
	"sync"
	"time"
)

type Session struct {
	Token     string
	Identity  domain.Identity
	ExpiresAt time.Time
}

func (s Session) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewStore returns an empty store. now may be nil, in which case time.Now is used.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{sessions: make(map[string]Session), now: now}
}

// ValidateSession resolves a token to the identity it was issued for.
// Unknown, empty and expired tokens all report false.
func (s *Store) ValidateSession(token string) (domain.Identity, bool) {
	if token == "" {
		return domain.Identity{}, false
	}
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return domain.Identity{}, false
	}
	if sess.expired(s.now()) {
		s.Invalidate(token)
		return domain.Identity{}, false
	}
	return sess.Identity, true
}

func (s *Store) Put(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
}

// Invalidate removes a token. It reports whether the token was present.
func (s *Store) Invalidate(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[token]
	delete(s.sessions, token)
	return ok
}

// Refresh replaces the identity of every session opened by identity.UserID and
// returns how many were touched.
func (s *Store) Refresh(identity domain.Identity) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	touched := 0
	for token, sess := range s.sessions {
		if sess.Identity.UserID == identity.UserID {
			sess.Identity = identity
			s.sessions[token] = sess
			touched++
		}
	}
	return touched
}

// Sweep drops every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, sess := range s.sessions {
		if sess.expired(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
