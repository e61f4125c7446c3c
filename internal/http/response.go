package http

import (
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

// ParseResponse classifies resp and decodes a successful body into T.
//
// A response whose Content-Type is not exactly application/json is a
// *vpnapi.ProtocolError, as is a non-2xx JSON response that is not an error
// envelope. A well-formed error envelope is a *vpnapi.APIError. For
// T == vpnapi.Empty the success body is ignored; otherwise a body that does not
// decode into T is a *vpnapi.RequestError.
func ParseResponse[T any](resp *Response) (T, error) {
	var result T

	if resp.Headers.Get(constants.HeaderContentType) != constants.ContentTypeJSON {
		if resp.BodyErr != nil {
			return result, &vpnapi.ProtocolError{Status: resp.StatusCode, Err: resp.BodyErr}
		}

		return result, &vpnapi.ProtocolError{
			Status: resp.StatusCode,
			Raw:    string(resp.Body),
			Err:    fmt.Errorf("%w with status %d", vpnapi.ErrNonJSONResponse, resp.StatusCode),
		}
	}

	if !vpnapi.IsSuccessStatus(resp.StatusCode) {
		return result, parseAPIError(resp)
	}

	if _, empty := any(&result).(*vpnapi.Empty); empty {
		return result, nil
	}

	if resp.BodyErr != nil {
		return result, vpnapi.NewRequestError(fmt.Errorf("reading response body: %w", resp.BodyErr))
	}

	err := json.Unmarshal(resp.Body, &result)
	if err != nil {
		return result, vpnapi.NewRequestError(fmt.Errorf("decoding response body: %w", err))
	}

	return result, nil
}

func parseAPIError(resp *Response) error {
	if resp.BodyErr != nil {
		return &vpnapi.ProtocolError{Status: resp.StatusCode, Err: resp.BodyErr}
	}

	var body vpnapi.APIErrorBody

	err := json.Unmarshal(resp.Body, &body)
	if err != nil {
		return &vpnapi.ProtocolError{
			Status: resp.StatusCode,
			Raw:    string(resp.Body),
			Err:    fmt.Errorf("decoding error body: %w", err),
		}
	}

	return &vpnapi.APIError{Status: resp.StatusCode, Body: body}
}
