package vpnapi

import (
	"encoding/json"
	"fmt"
)

const redactedToken = "AuthToken(_)"

// AuthToken is an opaque bearer credential. Every fmt verb renders it redacted;
// use Reveal to obtain the raw value for the Authorization header.
type AuthToken struct {
	value string
}

// NewAuthToken wraps a raw token string.
func NewAuthToken(value string) AuthToken {
	return AuthToken{value: value}
}

// Reveal returns the raw token value.
func (t AuthToken) Reveal() string {
	return t.value
}

// IsZero reports whether the token is empty.
func (t AuthToken) IsZero() bool {
	return t.value == ""
}

// String implements fmt.Stringer.
func (t AuthToken) String() string {
	return redactedToken
}

// GoString implements fmt.GoStringer.
func (t AuthToken) GoString() string {
	return redactedToken
}

// Format implements fmt.Formatter so that no verb, including %v with the + or
// # flags, prints the raw value.
func (t AuthToken) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(redactedToken))
}

// MarshalJSON encodes the raw token as a JSON string.
func (t AuthToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value)
}

// UnmarshalJSON decodes a bare JSON string token.
func (t *AuthToken) UnmarshalJSON(data []byte) error {
	var value string

	err := json.Unmarshal(data, &value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal auth token: %w", err)
	}

	t.value = value

	return nil
}

// AcquireToken is the body of the token acquisition request.
type AcquireToken struct {
	AccountID string `json:"account_id"`
}

// TokenPath is the token acquisition endpoint, relative to the base URL.
const TokenPath = "token"
