package vpnapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode names a kind of API error the client knows about.
type ErrorCode string

// Known error codes.
const (
	ErrorCodeAccountExpired            ErrorCode = "AccountExpired"
	ErrorCodeBadRequest                ErrorCode = "BadRequest"
	ErrorCodeInternalError             ErrorCode = "InternalError"
	ErrorCodeMissingOrInvalidAuthToken ErrorCode = "MissingOrInvalidAuthToken"
	ErrorCodeNoAPIRoute                ErrorCode = "NoApiRoute"
	ErrorCodeNoMatchingExit            ErrorCode = "NoMatchingExit"
	ErrorCodeRateLimitExceeded         ErrorCode = "RateLimitExceeded"
	ErrorCodeSignupLimitExceeded       ErrorCode = "SignupLimitExceeded"
	ErrorCodeTunnelLimitExceeded       ErrorCode = "TunnelLimitExceeded"

	// ErrorCodeUnknown marks an error kind this client does not recognise.
	ErrorCodeUnknown ErrorCode = ""
)

var knownErrorCodes = map[ErrorCode]struct{}{
	ErrorCodeAccountExpired:            {},
	ErrorCodeBadRequest:                {},
	ErrorCodeInternalError:             {},
	ErrorCodeMissingOrInvalidAuthToken: {},
	ErrorCodeNoAPIRoute:                {},
	ErrorCodeNoMatchingExit:            {},
	ErrorCodeRateLimitExceeded:         {},
	ErrorCodeSignupLimitExceeded:       {},
	ErrorCodeTunnelLimitExceeded:       {},
}

// Static errors for err113 compliance.
var (
	ErrRepeatedInvalidToken = errors.New("repeatedly acquired invalid auth token")
	ErrNonJSONResponse      = errors.New("non-JSON response")
	ErrAccountIDRequired    = errors.New("account ID is required")
	ErrBaseURLRequired      = errors.New("base URL is required")
	ErrConfigRequired       = errors.New("config is required")
	ErrInvalidErrorKind     = errors.New("invalid error kind")
	ErrMissingField         = errors.New("missing field")
)

// APIErrorKind is the discriminated kind of an API error.
//
// Kinds the client knows are encoded as {"<Code>":{}}. Anything else decodes
// into an unknown kind that keeps the raw JSON and re-encodes it unchanged.
type APIErrorKind struct {
	Code ErrorCode
	Raw  json.RawMessage
}

// KnownErrorKind returns the kind for a known error code.
func KnownErrorKind(code ErrorCode) APIErrorKind {
	return APIErrorKind{Code: code}
}

// UnknownErrorKind returns a kind holding an unrecognised raw value.
func UnknownErrorKind(raw json.RawMessage) APIErrorKind {
	return APIErrorKind{Code: ErrorCodeUnknown, Raw: raw}
}

// IsUnknown reports whether the kind was not recognised.
func (k APIErrorKind) IsUnknown() bool {
	return k.Code == ErrorCodeUnknown
}

// String returns the code, or the compact raw JSON for unknown kinds.
func (k APIErrorKind) String() string {
	if !k.IsUnknown() {
		return string(k.Code)
	}

	var buf bytes.Buffer
	if json.Compact(&buf, k.Raw) != nil {
		return string(k.Raw)
	}

	return buf.String()
}

// MarshalJSON implements json.Marshaler.
func (k APIErrorKind) MarshalJSON() ([]byte, error) {
	if k.IsUnknown() {
		if len(k.Raw) == 0 {
			return []byte("null"), nil
		}

		return k.Raw, nil
	}

	return json.Marshal(map[ErrorCode]struct{}{k.Code: {}})
}

// UnmarshalJSON implements json.Unmarshaler. It never fails on well-formed JSON.
func (k *APIErrorKind) UnmarshalJSON(data []byte) error {
	var tagged map[string]json.RawMessage

	err := json.Unmarshal(data, &tagged)
	if err == nil && len(tagged) == 1 {
		for name, payload := range tagged {
			var fields map[string]json.RawMessage

			_, known := knownErrorCodes[ErrorCode(name)]
			if known && json.Unmarshal(payload, &fields) == nil && fields != nil {
				*k = KnownErrorKind(ErrorCode(name))

				return nil
			}
		}
	}

	if !json.Valid(data) {
		return fmt.Errorf("%w: %s", ErrInvalidErrorKind, data)
	}

	*k = UnknownErrorKind(append(json.RawMessage(nil), data...))

	return nil
}

// APIErrorBody is the JSON envelope of a non-success API response.
type APIErrorBody struct {
	Error APIErrorKind `json:"error"`
	Msg   string       `json:"msg"`
	// Detail is debugging information, not intended for end users.
	Detail string `json:"detail,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. The error and msg fields are
// required; unknown fields are ignored.
func (b *APIErrorBody) UnmarshalJSON(data []byte) error {
	var wire struct {
		Error  json.RawMessage `json:"error"`
		Msg    *string         `json:"msg"`
		Detail *string         `json:"detail"`
	}

	err := json.Unmarshal(data, &wire)
	if err != nil {
		return fmt.Errorf("failed to unmarshal error body: %w", err)
	}

	if wire.Error == nil {
		return fmt.Errorf("%w: error", ErrMissingField)
	}

	if wire.Msg == nil {
		return fmt.Errorf("%w: msg", ErrMissingField)
	}

	var kind APIErrorKind

	err = kind.UnmarshalJSON(wire.Error)
	if err != nil {
		return err
	}

	*b = APIErrorBody{Error: kind, Msg: *wire.Msg}
	if wire.Detail != nil {
		b.Detail = *wire.Detail
	}

	return nil
}

// APIError is a structured failure reported by the API. Its message is safe to
// show to end users.
type APIError struct {
	Status int
	Body   APIErrorBody
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Body.Msg
}

// Code returns the error code, ErrorCodeUnknown for unrecognised kinds.
func (e *APIError) Code() ErrorCode {
	return e.Body.Error.Code
}

// ProtocolError means a response arrived but it was not the expected JSON
// envelope, most likely because a proxy or load balancer answered.
type ProtocolError struct {
	Status int
	Raw    string
	Err    error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected API response: %v", e.Err)
}

// Unwrap returns the underlying parse or read failure.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// RequestError is any local, transport or decoding failure: URL construction,
// body encoding, connection errors, undecodable success bodies and exhausted
// token retries.
type RequestError struct {
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request processing error: %v", e.Err)
}

// Unwrap returns the cause.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError wraps err as a RequestError unless it already is one of the
// client's typed errors.
func NewRequestError(err error) error {
	if err == nil {
		return nil
	}

	if ClassifyError(err) != ErrorClassOther {
		return err
	}

	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return err
	}

	return &RequestError{Err: err}
}

// ErrorClass is the category of an error returned by the client.
type ErrorClass int

// Error classes.
const (
	ErrorClassNone ErrorClass = iota
	ErrorClassAPI
	ErrorClassProtocol
	ErrorClassOther
)

// String implements fmt.Stringer.
func (c ErrorClass) String() string {
	switch c {
	case ErrorClassNone:
		return "none"
	case ErrorClassAPI:
		return "api"
	case ErrorClassProtocol:
		return "protocol"
	default:
		return "other"
	}
}

// ClassifyError reports which class err belongs to.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassNone
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return ErrorClassAPI
	}

	protoErr := &ProtocolError{}
	if errors.As(err, &protoErr) {
		return ErrorClassProtocol
	}

	return ErrorClassOther
}

// IsAPIErrorCode checks if err is an API error with the given code.
func IsAPIErrorCode(err error, code ErrorCode) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code() == code
	}

	return false
}

// IsMissingOrInvalidAuthToken checks if the API rejected the auth token.
func IsMissingOrInvalidAuthToken(err error) bool {
	return IsAPIErrorCode(err, ErrorCodeMissingOrInvalidAuthToken)
}

// IsAccountExpired checks if the account has no active subscription or credit.
func IsAccountExpired(err error) bool {
	return IsAPIErrorCode(err, ErrorCodeAccountExpired)
}

// IsRateLimited checks if the API rejected the request for rate limiting.
func IsRateLimited(err error) bool {
	return IsAPIErrorCode(err, ErrorCodeRateLimitExceeded)
}

// IsProtocolError checks if err is a protocol error.
func IsProtocolError(err error) bool {
	return ClassifyError(err) == ErrorClassProtocol
}

// IsSuccessStatus reports whether status is in the 2xx range.
func IsSuccessStatus(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
