package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const csrfTokenTTL = time.Hour

// csrfStore holds issued anti-forgery tokens in memory. Tokens are
// single-use and expire after csrfTokenTTL.
type csrfStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func newCSRFStore() *csrfStore {
	return &csrfStore{tokens: make(map[string]time.Time)}
}

// Issue mints a new token and records it.
func (s *csrfStore) Issue() string {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token] = time.Now().Add(csrfTokenTTL)
	s.prune()

	return token
}

// Consume validates a token and removes it. Returns false for unknown
// or expired tokens.
func (s *csrfStore) Consume(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	delete(s.tokens, token)

	return time.Now().Before(expiry)
}

// prune drops expired tokens. Caller must hold mu.
func (s *csrfStore) prune() {
	now := time.Now()
	for token, expiry := range s.tokens {
		if now.After(expiry) {
			delete(s.tokens, token)
		}
	}
}
