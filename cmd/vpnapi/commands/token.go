package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
)

// NewTokenCommand creates the token command group
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the cached auth token",
		Long:  "Show, acquire or clear the auth token stored in the config file",
	}

	cmd.AddCommand(newTokenShowCommand())
	cmd.AddCommand(newTokenAcquireCommand())
	cmd.AddCommand(newTokenClearCommand())

	return cmd
}

type tokenStatus struct {
	Account string `json:"account" yaml:"account"`
	Token   string `json:"token"   yaml:"token"`
}

func newTokenShowCommand() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cached auth token",
		Long:  "Show the cached auth token and the account it belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			config, err := readConfigFile(path)
			if err != nil {
				return err
			}

			if config.AuthToken == "" {
				return constants.ErrNoTokenCached
			}

			status := tokenStatus{Account: config.AuthTokenAccount, Token: constants.MaskedSecret}
			if reveal {
				status.Token = config.AuthToken
			}

			return render(cmd, status, func(w io.Writer, status tokenStatus) error {
				return renderProperties(w, [][2]string{
					{"Account", status.Account},
					{"Token", status.Token},
				})
			})
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the token instead of masking it")

	return cmd
}

func newTokenAcquireCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "acquire",
		Short: "Acquire an auth token",
		Long:  "Acquire an auth token for the account and store it in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			client.ClearAuthToken()

			_, err = client.AcquireAuthToken(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to acquire auth token: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Auth token acquired")

			return nil
		},
	}
}

func newTokenClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the cached auth token",
		Long:  "Remove the cached auth token from the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			err = NewConfigPersister(path).ClearAuthToken()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Auth token cleared")

			return nil
		},
	}
}
