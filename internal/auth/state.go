package auth

import (
	"sync"
	"time"
)

// pendingLogin is what start remembers for the callback of one login.
type pendingLogin struct {
	verifier string
	expires  time.Time
}

// stateStore keeps OAuth state values until their callback or expiry.
// Logins are process-local; a callback landing on another instance fails
// and the user starts again.
type stateStore struct {
	mu    sync.Mutex
	items map[string]pendingLogin
	now   func() time.Time
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]pendingLogin), now: time.Now}
}

func (s *stateStore) put(state, verifier string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, p := range s.items {
		if now.After(p.expires) {
			delete(s.items, k)
		}
	}
	s.items[state] = pendingLogin{verifier: verifier, expires: now.Add(ttl)}
}

// consume removes state and returns its PKCE verifier if it had not expired.
func (s *stateStore) consume(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[state]
	if !ok {
		return "", false
	}
	delete(s.items, state)
	if s.now().After(p.expires) {
		return "", false
	}
	return p.verifier, true
}

func (s *stateStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
