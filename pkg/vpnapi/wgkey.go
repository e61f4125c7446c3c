package vpnapi

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// WgPubkeyLength is the decoded size of a WireGuard public key.
const WgPubkeyLength = 32

// Static errors for err113 compliance.
var (
	ErrInvalidKeyLength = errors.New("invalid WireGuard key length")
	ErrKeyNotBase64     = errors.New("base64 decode error")
)

// KeyLengthError reports a decoded key with the wrong number of bytes.
type KeyLengthError struct {
	Expected int
	Actual   int
}

// Error implements the error interface.
func (e *KeyLengthError) Error() string {
	return fmt.Sprintf("expected %d bytes, found %d", e.Expected, e.Actual)
}

// Unwrap allows errors.Is(err, ErrInvalidKeyLength).
func (e *KeyLengthError) Unwrap() error {
	return ErrInvalidKeyLength
}

// WgPubkey is a WireGuard public key, encoded as standard base64 in JSON.
type WgPubkey [WgPubkeyLength]byte

// ParseWgPubkey decodes a standard base64 WireGuard public key.
func ParseWgPubkey(s string) (WgPubkey, error) {
	var key WgPubkey

	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return key, fmt.Errorf("%w: %w", ErrKeyNotBase64, err)
	}

	if len(decoded) != WgPubkeyLength {
		return key, &KeyLengthError{Expected: WgPubkeyLength, Actual: len(decoded)}
	}

	copy(key[:], decoded)

	return key, nil
}

// String returns the base64 encoding of the key.
func (k WgPubkey) String() string {
	return base64.StdEncoding.EncodeToString(k[:])
}

// GoString implements fmt.GoStringer.
func (k WgPubkey) GoString() string {
	return fmt.Sprintf("WgPubkey(%s)", k.String())
}

// MarshalText implements encoding.TextMarshaler.
func (k WgPubkey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *WgPubkey) UnmarshalText(text []byte) error {
	parsed, err := ParseWgPubkey(string(text))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}
