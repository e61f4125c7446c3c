// Package vpnclient provides the main entry point for creating VPN API clients
package vpnclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/vpnapi/internal/client"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

// Client executes commands against one API root for one account. It is safe
// for concurrent use; all goroutines share one auth token cache.
type Client struct {
	inner *client.Client
}

// NormalizeBaseURL adds "https://" when no scheme is present and ensures a
// trailing "/", so relative command paths resolve below it.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	lower := strings.ToLower(baseURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		baseURL = "https://" + baseURL
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return baseURL
}

// New creates a new VPN API client. config is not modified.
func New(config *vpnapi.Config) (*Client, error) {
	if config == nil {
		return nil, vpnapi.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, vpnapi.ErrBaseURLRequired
	}

	normalized := *config
	normalized.BaseURL = NormalizeBaseURL(config.BaseURL)

	inner, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return &Client{inner: inner}, nil
}

// NewWithAccount creates a client for baseURL that acquires tokens for accountID.
func NewWithAccount(baseURL, accountID string) (*Client, error) {
	return New(&vpnapi.Config{
		BaseURL:   baseURL,
		AccountID: accountID,
	})
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.inner.BaseURL().String()
}

// AcquireAuthToken returns the cached auth token, fetching one if needed.
// Concurrent callers share a single fetch.
func (c *Client) AcquireAuthToken(ctx context.Context) (vpnapi.AuthToken, error) {
	return c.inner.AcquireAuthToken(ctx)
}

// GetAuthToken returns the cached auth token without fetching.
func (c *Client) GetAuthToken() (vpnapi.AuthToken, bool) {
	return c.inner.GetAuthToken()
}

// SetAuthToken seeds or replaces the cached auth token.
func (c *Client) SetAuthToken(token vpnapi.AuthToken) {
	c.inner.SetAuthToken(token)
}

// ClearAuthToken empties the token cache.
func (c *Client) ClearAuthToken() {
	c.inner.ClearAuthToken()
}

// Check reports whether the caller's address belongs to the VPN. It needs no
// auth token.
func (c *Client) Check(ctx context.Context) (*vpnapi.CheckResult, error) {
	return c.inner.Check(ctx)
}
