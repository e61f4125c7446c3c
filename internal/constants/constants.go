package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout bounds a whole request including reading the body.
	DefaultHTTPTimeout = 60 * time.Second

	// DefaultReadTimeout bounds the wait for response headers.
	DefaultReadTimeout = 10 * time.Second

	// DefaultNoticesTimeout bounds the notices request.
	DefaultNoticesTimeout = 10 * time.Second
)

// Retry and concurrency limits.
const (
	// MaxAuthAttempts is the number of command attempts made while the server
	// keeps rejecting the auth token.
	MaxAuthAttempts = 3

	// DefaultRetryWaitMin is the minimum wait between connection retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between connection retries.
	DefaultRetryWaitMax = 30 * time.Second

	// DefaultConcurrencyLimit limits concurrent operations in the CLI.
	DefaultConcurrencyLimit = 3
)

// HTTP protocol constants.
const (
	// ContentTypeJSON is the only content type the API answers with.
	ContentTypeJSON = "application/json"

	// HeaderContentType is the Content-Type header name.
	HeaderContentType = "Content-Type"

	// HeaderAuthorization is the Authorization header name.
	HeaderAuthorization = "Authorization"

	// HeaderUserAgent is the User-Agent header name.
	HeaderUserAgent = "User-Agent"

	// BearerPrefix prefixes the token in the Authorization header.
	BearerPrefix = "Bearer "

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "vpnapi-go/1.0.0"
)

// CLI defaults.
const (
	// DefaultBaseURL is the production API root used by the CLI.
	DefaultBaseURL = "https://v1.api.prod.obscura.net/api"

	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".vpnapi"

	// ConfigFileName is the CLI config file name without extension.
	ConfigFileName = "config"

	// EnvPrefix prefixes environment variables read by the CLI.
	EnvPrefix = "VPNAPI"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)
