package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnclient"
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check whether traffic goes through the VPN",
		Long:  "Ask the API which network the request came from. No account is needed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := vpnclient.New(&vpnapi.Config{
				BaseURL: baseURL(),
				Logger:  newLogger(cmd),
			})
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			result, err := client.Check(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to check connection: %w", err)
			}

			return render(cmd, *result, renderCheckResult)
		},
	}
}

func renderCheckResult(w io.Writer, result vpnapi.CheckResult) error {
	return renderProperties(w, [][2]string{
		{"Safe", formatBool(result.IsSafe)},
		{"IP", result.IP},
		{"IP Type", string(result.IPType)},
	})
}
