package vpnclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
	vpnhttp "github.com/fivetwenty-io/vpnapi/internal/http"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

// Static errors for err113 compliance.
var (
	ErrNoticesStatus     = errors.New("unexpected notices response status")
	ErrInvalidVersionReq = errors.New("invalid notice version requirement")
)

// NoticeType is the severity of a notice.
type NoticeType string

// Notice severities.
const (
	NoticeWarn  NoticeType = "Warn"
	NoticeError NoticeType = "Error"
)

// NoticeDisplay is a notice that applies to the running version now.
type NoticeDisplay struct {
	Type    NoticeType `json:"type"    yaml:"type"`
	Content string     `json:"content" yaml:"content"`
}

type noticesResponse struct {
	Notices []rawNotice `json:"notices"`
}

type rawNotice struct {
	Message    string  `json:"message"`
	VersionReq *string `json:"version_req"`
	WarnAt     *int64  `json:"warn_at"`
	ErrorAt    *int64  `json:"error_at"`
}

// NoticesClient fetches operator notices. Notices are public; no auth token
// is sent.
type NoticesClient struct {
	httpClient *vpnhttp.Client
	url        *url.URL
	now        func() time.Time
}

// NoticesOption configures a NoticesClient.
type NoticesOption func(*NoticesClient)

// WithClock overrides the time source used to decide which notices are due.
func WithClock(now func() time.Time) NoticesOption {
	return func(n *NoticesClient) {
		n.now = now
	}
}

// NewNoticesClient creates a notices client for the API root baseURL.
func NewNoticesClient(baseURL string, opts ...NoticesOption) (*NoticesClient, error) {
	base, err := url.Parse(NormalizeBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	httpClient := vpnhttp.NewClient(vpnhttp.WithTimeouts(constants.DefaultNoticesTimeout, 0))

	return newNoticesClient(base, httpClient, opts...), nil
}

// Notices returns a notices client sharing this client's API root and transport.
func (c *Client) Notices(opts ...NoticesOption) *NoticesClient {
	return newNoticesClient(c.inner.BaseURL(), c.inner.HTTPClient(), opts...)
}

func newNoticesClient(base *url.URL, httpClient *vpnhttp.Client, opts ...NoticesOption) *NoticesClient {
	n := &NoticesClient{
		httpClient: httpClient,
		url:        base.ResolveReference(&url.URL{Path: vpnapi.NoticesPath}),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// CurrentNotices returns the notices that apply to version at this moment.
// A notice is an error once its error time has passed, otherwise a warning
// once its warn time has passed. Notices restricted to other versions, or
// not yet due, are omitted. A 404 response means there are no notices.
func (n *NoticesClient) CurrentNotices(ctx context.Context, version *semver.Version) ([]NoticeDisplay, error) {
	resp, err := n.httpClient.Do(ctx, &vpnhttp.Request{Method: http.MethodGet, URL: n.url})
	if err != nil {
		return nil, fmt.Errorf("fetching notices: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return []NoticeDisplay{}, nil
	}

	if !vpnapi.IsSuccessStatus(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %d", ErrNoticesStatus, resp.StatusCode)
	}

	if resp.BodyErr != nil {
		return nil, fmt.Errorf("reading notices: %w", resp.BodyErr)
	}

	var body noticesResponse

	err = json.Unmarshal(resp.Body, &body)
	if err != nil {
		return nil, fmt.Errorf("decoding notices: %w", err)
	}

	now := n.now()
	displays := []NoticeDisplay{}

	for _, notice := range body.Notices {
		display, ok, err := notice.display(version, now)
		if err != nil {
			return nil, err
		}

		if ok {
			displays = append(displays, display)
		}
	}

	return displays, nil
}

func (r rawNotice) display(version *semver.Version, now time.Time) (NoticeDisplay, bool, error) {
	if r.VersionReq != nil {
		constraints, err := parseVersionReq(*r.VersionReq)
		if err != nil {
			return NoticeDisplay{}, false, err
		}

		if !constraints.Check(version) {
			return NoticeDisplay{}, false, nil
		}
	}

	if r.ErrorAt != nil && !time.Unix(*r.ErrorAt, 0).After(now) {
		return NoticeDisplay{Type: NoticeError, Content: r.Message}, true, nil
	}

	if r.WarnAt != nil && !time.Unix(*r.WarnAt, 0).After(now) {
		return NoticeDisplay{Type: NoticeWarn, Content: r.Message}, true, nil
	}

	return NoticeDisplay{}, false, nil
}

// parseVersionReq parses a comma separated list of comparators. A comparator
// without an operator is a caret requirement, so "1.2.0" allows any 1.x
// release from 1.2.0 on.
func parseVersionReq(req string) (*semver.Constraints, error) {
	comparators := strings.Split(req, ",")
	for i, comparator := range comparators {
		comparator = strings.TrimSpace(comparator)
		if isBareVersion(comparator) {
			comparator = "^" + comparator
		}

		comparators[i] = comparator
	}

	constraints, err := semver.NewConstraint(strings.Join(comparators, ", "))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidVersionReq, req, err)
	}

	return constraints, nil
}

// isBareVersion reports whether comparator is a plain version such as "1.2"
// rather than an operator or wildcard form.
func isBareVersion(comparator string) bool {
	if comparator == "" || comparator[0] < '0' || comparator[0] > '9' {
		return false
	}

	return !strings.ContainsAny(comparator, "*xX")
}
