package auth

import (
	"sync"

	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

// TokenStore holds at most one auth token and is safe for concurrent use.
type TokenStore struct {
	mu    sync.RWMutex
	token vpnapi.AuthToken
	set   bool
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the cached token, if any.
func (s *TokenStore) Get() (vpnapi.AuthToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token, s.set
}

// Set replaces the cached token.
func (s *TokenStore) Set(token vpnapi.AuthToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.set = true
}

// Clear removes the cached token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = vpnapi.AuthToken{}
	s.set = false
}

// ClearIfEqual removes the cached token only if it equals token, so a token
// another goroutine has already replaced is kept. It reports whether the
// cache was cleared.
func (s *TokenStore) ClearIfEqual(token vpnapi.AuthToken) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set || s.token != token {
		return false
	}

	s.token = vpnapi.AuthToken{}
	s.set = false

	return true
}
