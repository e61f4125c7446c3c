package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
	"github.com/hashicorp/go-retryablehttp"
)

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request is a fully built API request.
type Request struct {
	Method  string
	URL     *url.URL
	Headers http.Header
	// Body is nil for requests without a body.
	Body []byte
}

// Response is a received API response. The body is read in full; a failure
// while reading it is kept in BodyErr rather than returned from Do, so the
// response can still be classified.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	BodyErr    error
}

// Client sends requests over HTTP. It does not interpret responses.
type Client struct {
	httpClient   *retryablehttp.Client
	baseClient   *http.Client
	logger       Logger
	debug        bool
	userAgent    string
	httpTimeout  time.Duration
	readTimeout  time.Duration
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// Option configures the HTTP client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeouts sets the total request timeout and the response header timeout.
// Zero values keep the defaults.
func WithTimeouts(total, read time.Duration) Option {
	return func(c *Client) {
		if total > 0 {
			c.httpTimeout = total
		}

		if read > 0 {
			c.readTimeout = read
		}
	}
}

// WithRetryConfig enables retries of connection errors. HTTP responses are
// never retried.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = maxRetries
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithHTTPClient reuses the transport, cookie jar and redirect policy of base.
func WithHTTPClient(base *http.Client) Option {
	return func(c *Client) {
		c.baseClient = base
	}
}

// NewClient creates a new HTTP client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		userAgent:    constants.DefaultUserAgent,
		httpTimeout:  constants.DefaultHTTPTimeout,
		readTimeout:  constants.DefaultReadTimeout,
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = client.retryMax
	retryClient.RetryWaitMin = client.retryWaitMin
	retryClient.RetryWaitMax = client.retryWaitMax
	retryClient.CheckRetry = retryConnectionErrors
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient = client.buildHTTPClient(retryClient.HTTPClient)

	// retryablehttp logs to stderr unless told otherwise.
	retryClient.Logger = nil
	if client.logger != nil {
		retryClient.Logger = &leveledLogger{logger: client.logger}
	}

	client.httpClient = retryClient

	return client
}

func (c *Client) buildHTTPClient(pooled *http.Client) *http.Client {
	httpClient := &http.Client{
		Transport: pooled.Transport,
		Timeout:   c.httpTimeout,
	}

	if c.baseClient != nil {
		httpClient.Transport = c.baseClient.Transport
		httpClient.Jar = c.baseClient.Jar
		httpClient.CheckRedirect = c.baseClient.CheckRedirect
	}

	if transport, ok := httpClient.Transport.(*http.Transport); ok {
		transport = transport.Clone()
		transport.ResponseHeaderTimeout = c.readTimeout
		httpClient.Transport = transport
	}

	return httpClient
}

// retryConnectionErrors retries only when no response was received.
func retryConnectionErrors(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err == nil {
		return false, nil
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// Do sends req and reads the whole response body. The returned error is
// non-nil only when no response was received.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var body interface{}
	if req.Body != nil {
		body = req.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	if c.userAgent != "" {
		httpReq.Header.Set(constants.HeaderUserAgent, c.userAgent)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.String(),
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}

		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
	}

	var buf bytes.Buffer

	_, resp.BodyErr = io.Copy(&buf, httpResp.Body)
	resp.Body = buf.Bytes()

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
			"size":     len(resp.Body),
		})
	}

	return resp, nil
}

// leveledLogger adapts Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fieldsFromKeyValues(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fieldsFromKeyValues(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fieldsFromKeyValues(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fieldsFromKeyValues(keysAndValues))
}

func fieldsFromKeyValues(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}

		// Request objects would carry the Authorization header.
		switch value := keysAndValues[i+1].(type) {
		case *http.Request:
			fields[key] = value.Method + " " + value.URL.String()
		default:
			fields[key] = value
		}
	}

	return fields
}
