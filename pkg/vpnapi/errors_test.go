package vpnapi_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorBody_KnownKinds(t *testing.T) {
	t.Parallel()

	codes := []vpnapi.ErrorCode{
		vpnapi.ErrorCodeAccountExpired,
		vpnapi.ErrorCodeBadRequest,
		vpnapi.ErrorCodeInternalError,
		vpnapi.ErrorCodeMissingOrInvalidAuthToken,
		vpnapi.ErrorCodeNoAPIRoute,
		vpnapi.ErrorCodeNoMatchingExit,
		vpnapi.ErrorCodeRateLimitExceeded,
		vpnapi.ErrorCodeSignupLimitExceeded,
		vpnapi.ErrorCodeTunnelLimitExceeded,
	}

	for _, code := range codes {
		t.Run(string(code), func(t *testing.T) {
			t.Parallel()

			data := fmt.Sprintf(`{"error":{%q:{}},"msg":"something failed","detail":"trace"}`, code)
			body := assertRoundTrip[vpnapi.APIErrorBody](t, data)

			assert.False(t, body.Error.IsUnknown())
			assert.Equal(t, code, body.Error.Code)
			assert.Equal(t, "something failed", body.Msg)
		})
	}
}

func TestAPIErrorBody_UnknownKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind string
	}{
		{"new variant", `{"BrandNewError":{}}`},
		{"new variant with fields", `{"BrandNewError":{"retry_after":30}}`},
		{"bare string", `"AccountExpired"`},
		{"known code with null payload", `{"AccountExpired":null}`},
		{"known code with string payload", `{"AccountExpired":"now"}`},
		{"two tags", `{"AccountExpired":{},"BadRequest":{}}`},
		{"number", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := `{"error":` + tt.kind + `,"msg":"m"}`
			body := assertRoundTrip[vpnapi.APIErrorBody](t, data)

			assert.True(t, body.Error.IsUnknown())
			assert.Equal(t, vpnapi.ErrorCodeUnknown, body.Error.Code)
			assert.JSONEq(t, tt.kind, string(body.Error.Raw))
		})
	}
}

func TestAPIErrorBody_DetailOmittedWhenEmpty(t *testing.T) {
	t.Parallel()

	body := vpnapi.APIErrorBody{
		Error: vpnapi.KnownErrorKind(vpnapi.ErrorCodeBadRequest),
		Msg:   "bad request",
	}

	data, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":{"BadRequest":{}},"msg":"bad request"}`, string(data))
}

func TestAPIErrorBody_UnknownFieldsIgnored(t *testing.T) {
	t.Parallel()

	var body vpnapi.APIErrorBody

	err := json.Unmarshal([]byte(`{"error":{"RateLimitExceeded":{}},"msg":"slow down","request_id":"abc"}`), &body)
	require.NoError(t, err)
	assert.Equal(t, vpnapi.ErrorCodeRateLimitExceeded, body.Error.Code)
}

func TestAPIErrorKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NoMatchingExit", vpnapi.KnownErrorKind(vpnapi.ErrorCodeNoMatchingExit).String())
	assert.Equal(t, `{"X":{"a":1}}`, vpnapi.UnknownErrorKind(json.RawMessage(`{ "X": { "a": 1 } }`)).String())
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := &vpnapi.APIError{
		Status: 403,
		Body: vpnapi.APIErrorBody{
			Error:  vpnapi.KnownErrorKind(vpnapi.ErrorCodeAccountExpired),
			Msg:    "Your account has expired.",
			Detail: "internal detail",
		},
	}

	assert.Equal(t, "Your account has expired.", err.Error())
	assert.Equal(t, vpnapi.ErrorCodeAccountExpired, err.Code())
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		expected vpnapi.ErrorClass
	}{
		{"nil", nil, vpnapi.ErrorClassNone},
		{"api", &vpnapi.APIError{Status: 400}, vpnapi.ErrorClassAPI},
		{"wrapped api", fmt.Errorf("list tunnels: %w", &vpnapi.APIError{Status: 400}), vpnapi.ErrorClassAPI},
		{"protocol", &vpnapi.ProtocolError{Status: 502, Err: vpnapi.ErrNonJSONResponse}, vpnapi.ErrorClassProtocol},
		{"request", &vpnapi.RequestError{Err: cause}, vpnapi.ErrorClassOther},
		{"plain", cause, vpnapi.ErrorClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, vpnapi.ClassifyError(tt.err))
		})
	}
}

func TestNewRequestError(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: timeout")

	wrapped := vpnapi.NewRequestError(cause)

	reqErr := &vpnapi.RequestError{}
	require.ErrorAs(t, wrapped, &reqErr)
	require.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "request processing error: dial tcp: timeout", wrapped.Error())

	assert.Same(t, wrapped, vpnapi.NewRequestError(wrapped))

	apiErr := &vpnapi.APIError{Status: 429}
	assert.Same(t, apiErr, vpnapi.NewRequestError(apiErr))

	assert.NoError(t, vpnapi.NewRequestError(nil))
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	expired := &vpnapi.APIError{Body: vpnapi.APIErrorBody{Error: vpnapi.KnownErrorKind(vpnapi.ErrorCodeAccountExpired)}}
	invalid := &vpnapi.APIError{Body: vpnapi.APIErrorBody{Error: vpnapi.KnownErrorKind(vpnapi.ErrorCodeMissingOrInvalidAuthToken)}}
	limited := &vpnapi.APIError{Body: vpnapi.APIErrorBody{Error: vpnapi.KnownErrorKind(vpnapi.ErrorCodeRateLimitExceeded)}}
	protocol := &vpnapi.ProtocolError{Status: 502, Raw: "<html>", Err: vpnapi.ErrNonJSONResponse}

	assert.True(t, vpnapi.IsAccountExpired(expired))
	assert.False(t, vpnapi.IsAccountExpired(invalid))
	assert.True(t, vpnapi.IsMissingOrInvalidAuthToken(invalid))
	assert.True(t, vpnapi.IsRateLimited(limited))
	assert.True(t, vpnapi.IsProtocolError(protocol))
	assert.False(t, vpnapi.IsProtocolError(expired))
	require.ErrorIs(t, protocol, vpnapi.ErrNonJSONResponse)
	assert.Equal(t, "unexpected API response: non-JSON response", protocol.Error())
}

func TestIsSuccessStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, vpnapi.IsSuccessStatus(200))
	assert.True(t, vpnapi.IsSuccessStatus(204))
	assert.False(t, vpnapi.IsSuccessStatus(199))
	assert.False(t, vpnapi.IsSuccessStatus(300))
	assert.False(t, vpnapi.IsSuccessStatus(401))
}

func TestAPIErrorBody_RequiredFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"missing error", `{"msg":"m"}`},
		{"missing msg", `{"error":{"BadRequest":{}}}`},
		{"null msg", `{"error":{"BadRequest":{}},"msg":null}`},
		{"not an object", `"oops"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var body vpnapi.APIErrorBody

			err := json.Unmarshal([]byte(tt.data), &body)
			require.Error(t, err)
		})
	}

	var body vpnapi.APIErrorBody

	err := json.Unmarshal([]byte(`{"error":null,"msg":"m"}`), &body)
	require.NoError(t, err)
	assert.True(t, body.Error.IsUnknown())
}
