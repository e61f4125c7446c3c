package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/vpnapi/internal/auth"
	"github.com/fivetwenty-io/vpnapi/internal/constants"
	vpnhttp "github.com/fivetwenty-io/vpnapi/internal/http"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

// Decoder classifies a response and stores the decoded result.
type Decoder func(resp *vpnhttp.Response) error

// Client authenticates and executes API commands.
type Client struct {
	httpClient *vpnhttp.Client
	tokens     *auth.TokenManager
	baseURL    *url.URL
	accountID  string
	logger     vpnapi.Logger
}

func createHTTPClientOptions(config *vpnapi.Config) []vpnhttp.Option {
	var httpOpts []vpnhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, vpnhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, vpnhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, vpnhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, vpnhttp.WithHTTPClient(config.HTTPClient))
	}

	httpOpts = append(httpOpts, vpnhttp.WithTimeouts(config.HTTPTimeout, config.ReadTimeout))

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, vpnhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a client. config.BaseURL must already be normalized to an
// absolute URL ending in "/".
func New(config *vpnapi.Config) (*Client, error) {
	if config == nil {
		return nil, vpnapi.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, vpnapi.ErrBaseURLRequired
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	client := &Client{
		httpClient: vpnhttp.NewClient(createHTTPClientOptions(config)...),
		baseURL:    baseURL,
		accountID:  config.AccountID,
		logger:     config.Logger,
	}

	managerOpts := []auth.ManagerOption{}
	if config.Logger != nil {
		managerOpts = append(managerOpts, auth.WithLogger(config.Logger))
	}

	if config.TokenPersister != nil {
		managerOpts = append(managerOpts, auth.WithPersister(config.TokenPersister, config.AccountID))
	}

	store := auth.NewTokenStore()
	if !config.AuthToken.IsZero() {
		store.Set(config.AuthToken)
	}

	client.tokens = auth.NewTokenManager(store, client.fetchAuthToken, managerOpts...)

	return client, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() *url.URL {
	return c.baseURL
}

// HTTPClient returns the transport shared by all requests of this client.
func (c *Client) HTTPClient() *vpnhttp.Client {
	return c.httpClient
}

// Execute runs one command. It attaches the current auth token, and when the
// server rejects that token it drops it from the cache and tries again with a
// fresh one, up to constants.MaxAuthAttempts times. Every other failure is
// returned as is.
func (c *Client) Execute(ctx context.Context, method, path string, body any, decode Decoder) error {
	for attempt := 1; attempt <= constants.MaxAuthAttempts; attempt++ {
		token, err := c.tokens.Acquire(ctx)
		if err != nil {
			return err
		}

		req, err := vpnhttp.BuildRequest(c.baseURL, method, path, body, &token)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(ctx, req)
		if err != nil {
			return vpnapi.NewRequestError(err)
		}

		err = decode(resp)
		if !vpnapi.IsMissingOrInvalidAuthToken(err) {
			return err
		}

		c.tokens.Invalidate(token)

		if c.logger != nil {
			c.logger.Debug("Auth token rejected", map[string]interface{}{
				"method":  method,
				"path":    path,
				"attempt": attempt,
			})
		}
	}

	return &vpnapi.RequestError{Err: vpnapi.ErrRepeatedInvalidToken}
}

// AcquireAuthToken returns the cached token, fetching one if the cache is empty.
func (c *Client) AcquireAuthToken(ctx context.Context) (vpnapi.AuthToken, error) {
	return c.tokens.Acquire(ctx)
}

// GetAuthToken returns the cached token without fetching.
func (c *Client) GetAuthToken() (vpnapi.AuthToken, bool) {
	return c.tokens.Store().Get()
}

// SetAuthToken replaces the cached token.
func (c *Client) SetAuthToken(token vpnapi.AuthToken) {
	c.tokens.Store().Set(token)
}

// ClearAuthToken empties the cache so the next command fetches a new token.
func (c *Client) ClearAuthToken() {
	c.tokens.Store().Clear()
}

// Check reports whether the caller's address belongs to the VPN. It does not
// authenticate.
func (c *Client) Check(ctx context.Context) (*vpnapi.CheckResult, error) {
	req, err := vpnhttp.BuildRequest(c.baseURL, http.MethodGet, vpnapi.CheckPath, nil, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, vpnapi.NewRequestError(err)
	}

	result, err := vpnhttp.ParseResponse[vpnapi.CheckResult](resp)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) fetchAuthToken(ctx context.Context) (vpnapi.AuthToken, error) {
	if c.accountID == "" {
		return vpnapi.AuthToken{}, vpnapi.NewRequestError(vpnapi.ErrAccountIDRequired)
	}

	req, err := vpnhttp.BuildRequest(c.baseURL, http.MethodPost, vpnapi.TokenPath,
		vpnapi.AcquireToken{AccountID: c.accountID}, nil)
	if err != nil {
		return vpnapi.AuthToken{}, err
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return vpnapi.AuthToken{}, vpnapi.NewRequestError(err)
	}

	return vpnhttp.ParseResponse[vpnapi.AuthToken](resp)
}
