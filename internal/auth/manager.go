package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
	"golang.org/x/sync/semaphore"
)

// Static errors for err113 compliance.
var (
	ErrNoFetcher = errors.New("no token fetcher configured")
)

// Fetcher requests a fresh auth token from the server.
type Fetcher func(ctx context.Context) (vpnapi.AuthToken, error)

// TokenManager hands out the cached auth token and fetches a new one when the
// cache is empty. At most one fetch is in flight per manager.
type TokenManager struct {
	store     *TokenStore
	fetch     Fetcher
	sem       *semaphore.Weighted
	persister vpnapi.TokenPersister
	accountID string
	logger    vpnapi.Logger
}

// ManagerOption configures a TokenManager.
type ManagerOption func(*TokenManager)

// WithPersister notifies persister after every successful fetch.
func WithPersister(persister vpnapi.TokenPersister, accountID string) ManagerOption {
	return func(m *TokenManager) {
		m.persister = persister
		m.accountID = accountID
	}
}

// WithLogger sets the logger.
func WithLogger(logger vpnapi.Logger) ManagerOption {
	return func(m *TokenManager) {
		m.logger = logger
	}
}

// NewTokenManager creates a token manager backed by store.
func NewTokenManager(store *TokenStore, fetch Fetcher, opts ...ManagerOption) *TokenManager {
	if store == nil {
		store = NewTokenStore()
	}

	m := &TokenManager{
		store: store,
		fetch: fetch,
		sem:   semaphore.NewWeighted(1),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Store returns the underlying token store.
func (m *TokenManager) Store() *TokenStore {
	return m.store
}

// Acquire returns the cached token or fetches a new one. Concurrent callers
// that find the cache empty wait for a single fetch and share its result.
// Waiting is aborted when ctx is done.
func (m *TokenManager) Acquire(ctx context.Context) (vpnapi.AuthToken, error) {
	if token, ok := m.store.Get(); ok {
		return token, nil
	}

	err := m.sem.Acquire(ctx, 1)
	if err != nil {
		return vpnapi.AuthToken{}, vpnapi.NewRequestError(fmt.Errorf("waiting for auth token: %w", err))
	}
	defer m.sem.Release(1)

	// Another caller may have filled the cache while we waited.
	if token, ok := m.store.Get(); ok {
		return token, nil
	}

	if m.fetch == nil {
		return vpnapi.AuthToken{}, vpnapi.NewRequestError(ErrNoFetcher)
	}

	m.debug("Acquiring auth token", nil)

	token, err := m.fetch(ctx)
	if err != nil {
		return vpnapi.AuthToken{}, err
	}

	m.store.Set(token)
	m.persist(ctx, token)

	return token, nil
}

// Invalidate drops token from the cache if it is still the cached one.
func (m *TokenManager) Invalidate(token vpnapi.AuthToken) bool {
	cleared := m.store.ClearIfEqual(token)
	if cleared {
		m.debug("Invalidated rejected auth token", nil)
	}

	return cleared
}

// persist hands token to the persister. Failures are logged and do not fail
// the acquisition.
func (m *TokenManager) persist(ctx context.Context, token vpnapi.AuthToken) {
	if m.persister == nil {
		return
	}

	err := m.persister.PersistAuthToken(ctx, m.accountID, token)
	if err != nil && m.logger != nil {
		m.logger.Warn("Failed to persist auth token", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (m *TokenManager) debug(msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.Debug(msg, fields)
	}
}
