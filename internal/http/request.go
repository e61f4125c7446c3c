package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

// BuildRequest resolves path against base and encodes body as JSON for every
// method except GET. When token is nil no Authorization header is set.
// Failures are returned as *vpnapi.RequestError.
func BuildRequest(base *url.URL, method, path string, body any, token *vpnapi.AuthToken) (*Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, vpnapi.NewRequestError(fmt.Errorf("invalid request path %q: %w", path, err))
	}

	req := &Request{
		Method:  method,
		URL:     base.ResolveReference(ref),
		Headers: make(http.Header),
	}

	req.Headers.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	if token != nil {
		req.Headers.Set(constants.HeaderAuthorization, constants.BearerPrefix+token.Reveal())
	}

	if method != http.MethodGet {
		req.Body, err = json.Marshal(body)
		if err != nil {
			return nil, vpnapi.NewRequestError(fmt.Errorf("encoding request body: %w", err))
		}
	}

	return req, nil
}
