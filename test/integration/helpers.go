//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	BaseURL    string
	AccountID  string
	BinaryPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	baseURL := os.Getenv("VPNAPI_BASE_URL")
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	return &TestConfig{
		BaseURL:    baseURL,
		AccountID:  os.Getenv("VPNAPI_ACCOUNT_ID"),
		BinaryPath: getBinaryPath(),
		Verbose:    os.Getenv("VPNAPI_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the vpnapi binary
func getBinaryPath() string {
	if path := os.Getenv("VPNAPI_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../vpnapi",
		"./vpnapi",
		"../vpnapi",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "vpnapi"
}

// SkipIfMissingAccount skips the test unless an account is configured.
func (config *TestConfig) SkipIfMissingAccount(t *testing.T) {
	t.Helper()

	if config.AccountID == "" {
		t.Skip("VPNAPI_ACCOUNT_ID not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test unless the CLI binary exists.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := os.Stat(config.BinaryPath); os.IsNotExist(err) {
		t.Skipf("vpnapi binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the vpnapi binary against an isolated config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a vpnapi command and returns output
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	args = append([]string{
		"--config", runner.configFile,
		"--base-url", runner.config.BaseURL,
		"--account", runner.config.AccountID,
	}, args...)

	// #nosec G204
	cmd := exec.Command(runner.config.BinaryPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args[6:], " "))
	}

	err := cmd.Run()
	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// DecodeJSONOutput decodes stdout into a value of type T.
func DecodeJSONOutput[T any](t *testing.T, stdout string) T {
	t.Helper()

	var value T

	require.NoError(t, json.Unmarshal([]byte(stdout), &value), "output is not valid JSON: %s", stdout)

	return value
}
