package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnclient"
)

// NewAccountCommand creates the account command
func NewAccountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show account information",
		Long:  "Display the account status, prepaid credit and subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			info, err := vpnclient.Run(cmd.Context(), client, vpnapi.GetAccountInfo{})
			if err != nil {
				return fmt.Errorf("failed to get account info: %w", err)
			}

			return render(cmd, info, renderAccountInfo)
		},
	}
}

func renderAccountInfo(w io.Writer, info vpnapi.AccountInfo) error {
	rows := [][2]string{
		{"ID", info.ID},
		{"Active", formatBool(info.Active)},
	}

	if info.TopUp != nil {
		rows = append(rows, [2]string{"Credit Expires", formatUnix(info.TopUp.CreditExpiresAt)})
	} else {
		rows = append(rows, [2]string{"Credit Expires", constants.None})
	}

	if sub := info.Subscription; sub != nil {
		rows = append(rows,
			[2]string{"Subscription", sub.Status},
			[2]string{"Period Start", formatUnix(sub.CurrentPeriodStart)},
			[2]string{"Period End", formatUnix(sub.CurrentPeriodEnd)},
			[2]string{"Cancel At Period End", formatBool(sub.CancelAtPeriodEnd)},
		)
	} else {
		rows = append(rows, [2]string{"Subscription", constants.None})
	}

	return renderProperties(w, rows)
}
