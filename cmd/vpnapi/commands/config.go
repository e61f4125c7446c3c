package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
	"github.com/fivetwenty-io/vpnapi/internal/logging"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnclient"
)

// Config represents the CLI configuration file.
type Config struct {
	BaseURL   string `json:"base_url,omitempty"   yaml:"base_url,omitempty"`
	AccountID string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Output    string `json:"output,omitempty"     yaml:"output,omitempty"`

	// AuthToken was acquired for AuthTokenAccount and is only reused for it.
	AuthToken        string `json:"auth_token,omitempty"         yaml:"auth_token,omitempty"`
	AuthTokenAccount string `json:"auth_token_account,omitempty" yaml:"auth_token_account,omitempty"`
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+".yml"), nil
}

// readConfigFile reads the config file itself, without flag or environment
// overrides. A missing file is an empty config.
func readConfigFile(path string) (*Config, error) {
	config := &Config{}

	// path is the user's own config file
	// #nosec G304
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func saveConfigStruct(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func baseURL() string {
	if url := viper.GetString("base_url"); url != "" {
		return url
	}

	return constants.DefaultBaseURL
}

func resolveAccountID(cmd *cobra.Command) (string, error) {
	if accountID := viper.GetString("account_id"); accountID != "" {
		return accountID, nil
	}

	return promptAccountID(cmd.InOrStdin(), cmd.ErrOrStderr())
}

// promptAccountID reads the account number from the terminal without echo.
func promptAccountID(in io.Reader, out io.Writer) (string, error) {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return "", constants.ErrAccountPromptNoTTY
	}

	_, _ = fmt.Fprint(out, "Account number: ")

	input, err := term.ReadPassword(int(file.Fd()))
	_, _ = fmt.Fprintln(out)

	if err != nil {
		return "", fmt.Errorf("failed to read account number: %w", err)
	}

	if len(input) == 0 {
		return "", constants.ErrNoAccountID
	}

	return string(input), nil
}

func newLogger(cmd *cobra.Command) *logging.Adapter {
	level := "warn"
	if viper.GetBool("verbose") {
		level = "debug"
	}

	out := cmd.ErrOrStderr()
	color := false

	if file, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(file.Fd()))
	}

	return logging.NewAdapter(logging.New(logging.Options{
		Level: level,
		Color: color,
		Out:   out,
	}))
}

// createClient builds a client for the configured account, seeding the token
// cache from the config file and persisting newly acquired tokens to it.
func createClient(cmd *cobra.Command) (*vpnclient.Client, error) {
	accountID, err := resolveAccountID(cmd)
	if err != nil {
		return nil, err
	}

	path, err := configFilePath()
	if err != nil {
		return nil, err
	}

	stored, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	config := &vpnapi.Config{
		BaseURL:        baseURL(),
		AccountID:      accountID,
		Debug:          viper.GetBool("verbose"),
		Logger:         newLogger(cmd),
		TokenPersister: NewConfigPersister(path),
	}

	if stored.AuthToken != "" && stored.AuthTokenAccount == accountID {
		config.AuthToken = vpnapi.NewAuthToken(stored.AuthToken)
	}

	client, err := vpnclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
