package constants

import "errors"

// Configuration errors.
var (
	ErrNoAccountID        = errors.New("no account number configured, use --account or set VPNAPI_ACCOUNT_ID")
	ErrAccountPromptNoTTY = errors.New("account number required and stdin is not a terminal")
	ErrNoTokenCached      = errors.New("no auth token cached, run any authenticated command first")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format, use table, json or yaml")
	ErrMonthsRequired      = errors.New("--months must be positive")
	ErrTunnelIDRequired    = errors.New("tunnel ID is required")
	ErrSessionIDRequired   = errors.New("--session-id is required")
)

// Operation errors.
var (
	ErrDeleteTunnelsFail = errors.New("failed to delete tunnels")
)
