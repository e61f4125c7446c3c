package commands

import (
	"fmt"
	"io"
	"net/netip"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnclient"
)

// NewExitsCommand creates the exits command
func NewExitsCommand() *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:     "exits",
		Aliases: []string{"exit"},
		Short:   "List exit servers",
		Long:    "List the exit servers tunnels can leave the network through",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			exits, err := vpnclient.Run(cmd.Context(), client, vpnapi.ListExits{})
			if err != nil {
				return fmt.Errorf("failed to list exits: %w", err)
			}

			return render(cmd, filterExits(exits, country), renderExits)
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "filter by country code")

	return cmd
}

func filterExits(exits []vpnapi.OneExit, country string) []vpnapi.OneExit {
	if country == "" {
		return exits
	}

	filtered := []vpnapi.OneExit{}

	for _, exit := range exits {
		if strings.EqualFold(exit.CountryCode, country) {
			filtered = append(filtered, exit)
		}
	}

	return filtered
}

func renderExits(w io.Writer, exits []vpnapi.OneExit) error {
	if len(exits) == 0 {
		_, _ = fmt.Fprintln(w, "No exits found")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Country", "City Code", "City")

	for _, exit := range exits {
		_ = table.Append(exit.ID, exit.CountryCode, exit.CityCode, exit.CityName)
	}

	return renderTable(table)
}

	return addr.String()
}

// NewRelaysCommand creates the relays command
func NewRelaysCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "relays",
		Aliases: []string{"relay"},
		Short:   "List relay servers",
		Long:    "List the relay servers tunnels enter the network through",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			relays, err := vpnclient.Run(cmd.Context(), client, vpnapi.ListRelays{})
			if err != nil {
				return fmt.Errorf("failed to list relays: %w", err)
			}

			return render(cmd, relays, renderRelays)
		},
	}
}

func renderRelays(w io.Writer, relays []vpnapi.OneRelay) error {
	if len(relays) == 0 {
		_, _ = fmt.Fprintln(w, "No relays found")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "IPv4", "IPv6", "Preferred Exits")

	for _, relay := range relays {
		exits := make([]string, 0, len(relay.PreferredExits))
		for _, exit := range relay.PreferredExits {
			exits = append(exits, exit.ID)
		}

		_ = table.Append(relay.ID, formatAddr(relay.IPv4), formatAddr(relay.IPv6), valueOrNone(strings.Join(exits, ", ")))
	}

	return renderTable(table)
}

func formatAddr(addr netip.Addr) string {
	if !addr.IsValid() {
		return constants.NotAvailable
	}

	return addr.String()
}
