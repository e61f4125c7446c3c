package vpnapi

import (
	"context"
	"net/http"
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenPersister is notified after the client acquires a new auth token, so
// callers can store it and seed later clients through Config.AuthToken.
type TokenPersister interface {
	PersistAuthToken(ctx context.Context, accountID string, token AuthToken) error
}

// Config represents client configuration for building a vpnclient.Client.
//
// # Authentication
//
// The client authenticates every command with a bearer token obtained from
// POST <base>/token using AccountID. The token is cached per client and is
// replaced only after the server rejects it. AuthToken seeds the cache, for
// example with a token persisted by a previous process.
//
// # Timeouts and retries
//
// HTTPTimeout bounds a whole request, ReadTimeout bounds the wait for response
// headers. Transport failures are returned to the caller unless RetryMax is
// positive, in which case connection errors (never HTTP responses) are retried
// with exponential backoff between RetryWaitMin and RetryWaitMax.
type Config struct {
	// Required fields
	// BaseURL: root of the API, e.g. "https://api.example.com/api". It is
	// normalized to end with "/" and gets "https://" if no scheme is present.
	BaseURL string
	// AccountID: account number used to acquire auth tokens.
	AccountID string

	// Optional configurations
	// AuthToken: initial token for the cache.
	AuthToken AuthToken
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// HTTPTimeout: total request timeout. Defaults to 60s.
	HTTPTimeout time.Duration
	// ReadTimeout: response header timeout. Defaults to 10s.
	ReadTimeout time.Duration
	// RetryMax: number of retries for connection errors. Defaults to 0.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
	// TokenPersister: optional hook called after each token acquisition.
	TokenPersister TokenPersister
	// HTTPClient: optional base client. Its Transport is reused; timeouts
	// from this config still apply.
	HTTPClient *http.Client
}
