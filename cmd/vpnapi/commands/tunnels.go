package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnclient"
	"github.com/fivetwenty-io/vpnapi/pkg/wgconf"
)

// CreatedTunnel is a new tunnel together with its client private key, which
// the server never sees.
type CreatedTunnel struct {
	PrivateKey string           `json:"private_key" yaml:"private_key"`
	Tunnel     vpnapi.OneTunnel `json:"tunnel"      yaml:"tunnel"`
}

// NewTunnelsCommand creates the tunnels command group
func NewTunnelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tunnels",
		Aliases: []string{"tunnel"},
		Short:   "Manage tunnels",
		Long:    "List, create and delete the account's tunnels",
	}

	cmd.AddCommand(newTunnelsListCommand())
	cmd.AddCommand(newTunnelsCreateObfuscatedCommand())
	cmd.AddCommand(newTunnelsCreateStaticCommand())
	cmd.AddCommand(newTunnelsDeleteCommand())
	cmd.AddCommand(newTunnelsDeleteAllCommand())

	return cmd
}

func newTunnelsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tunnels",
		Long:  "List all tunnels of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			tunnels, err := vpnclient.Run(cmd.Context(), client, vpnapi.ListTunnels{})
			if err != nil {
				return fmt.Errorf("failed to list tunnels: %w", err)
			}

			return render(cmd, tunnels, renderTunnels)
		},
	}
}

func renderTunnels(w io.Writer, tunnels []vpnapi.OneTunnel) error {
	if len(tunnels) == 0 {
		_, _ = fmt.Fprintln(w, "No tunnels found")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Type", "Status", "Since", "Relay", "Exit")

	for _, tunnel := range tunnels {
		_ = table.Append(
			tunnel.ID,
			string(tunnel.Config.Type),
			string(tunnel.Status.Type),
			formatUnix(tunnel.Status.When),
			tunnel.Relay.ID,
			exitLabel(tunnel.Exit),
		)
	}

	return renderTable(table)
}

func exitLabel(exit vpnapi.OneExit) string {
	if exit.CityName == "" {
		return exit.ID
	}

	return fmt.Sprintf("%s (%s, %s)", exit.ID, exit.CityName, strings.ToUpper(exit.CountryCode))
}

func renderCreatedTunnel(w io.Writer, created CreatedTunnel) error {
	tunnel := created.Tunnel

	return renderProperties(w, [][2]string{
		{"ID", tunnel.ID},
		{"Type", string(tunnel.Config.Type)},
		{"Status", string(tunnel.Status.Type)},
		{"Relay", tunnel.Relay.ID},
		{"Exit", exitLabel(tunnel.Exit)},
		{"Private Key", created.PrivateKey},
	})
}

// createTunnel generates a key pair and creates a tunnel of tunnelType for it.
func createTunnel(cmd *cobra.Command, tunnelType vpnapi.TunnelType, relay, exit string) (CreatedTunnel, error) {
	client, err := createClient(cmd)
	if err != nil {
		return CreatedTunnel{}, err
	}

	keys, err := wgconf.GenerateKeyPair()
	if err != nil {
		return CreatedTunnel{}, err
	}

	tunnel, err := vpnclient.Run(cmd.Context(), client, vpnapi.CreateTunnel{
		Type:     tunnelType,
		WgPubkey: keys.PublicKey,
		Relay:    vpnapi.StringPtr(relay),
		Exit:     vpnapi.StringPtr(exit),
	})
	if err != nil {
		return CreatedTunnel{}, fmt.Errorf("failed to create tunnel: %w", err)
	}

	return CreatedTunnel{PrivateKey: keys.PrivateKeyBase64(), Tunnel: tunnel}, nil
}

func newTunnelsCreateObfuscatedCommand() *cobra.Command {
	var relay, exit string

	cmd := &cobra.Command{
		Use:   "create-obfuscated",
		Short: "Create an obfuscated tunnel",
		Long:  "Generate a key pair and create an obfuscated tunnel for it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := createTunnel(cmd, vpnapi.TunnelTypeObfuscated, relay, exit)
			if err != nil {
				return err
			}

			return render(cmd, created, renderCreatedTunnel)
		},
	}

	cmd.Flags().StringVar(&relay, "relay", "", "use specific relay")
	cmd.Flags().StringVar(&exit, "exit", "", "use specific exit")

	return cmd
}

func newTunnelsCreateStaticCommand() *cobra.Command {
	var (
		relay, exit string
		wgConf      bool
	)

	cmd := &cobra.Command{
		Use:   "create-static",
		Short: "Create a udp_port tunnel",
		Long: `Generate a key pair and create a udp_port tunnel for it.

With --wg-conf a wg-quick configuration is printed to stdout and the tunnel
details to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := createTunnel(cmd, vpnapi.TunnelTypeUDPPort, relay, exit)
			if err != nil {
				return err
			}

			if !wgConf {
				return render(cmd, created, renderCreatedTunnel)
			}

			conf, err := wgconf.BuildForTunnel(created.Tunnel, created.PrivateKey)
			if err != nil {
				return fmt.Errorf("failed to build WireGuard config for tunnel %s: %w", created.Tunnel.ID, err)
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Created tunnel %s\n", created.Tunnel.ID)
			_, _ = fmt.Fprint(cmd.OutOrStdout(), conf)

			return nil
		},
	}

	cmd.Flags().BoolVar(&wgConf, "wg-conf", false, "print WireGuard configuration to stdout")
	cmd.Flags().StringVar(&relay, "relay", "", "use specific relay")
	cmd.Flags().StringVar(&exit, "exit", "", "use specific exit")

	return cmd
}

func newTunnelsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TUNNEL_ID",
		Short: "Delete a tunnel",
		Long:  "Delete a tunnel by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return constants.ErrTunnelIDRequired
			}

			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			_, err = vpnclient.Run(cmd.Context(), client, vpnapi.DeleteTunnel{ID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to delete tunnel %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted tunnel %s\n", args[0])

			return nil
		},
	}
}

func newTunnelsDeleteAllCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete all tunnels",
		Long:  "Delete every tunnel of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			tunnels, err := vpnclient.Run(cmd.Context(), client, vpnapi.ListTunnels{})
			if err != nil {
				return fmt.Errorf("failed to list tunnels: %w", err)
			}

			err = deleteTunnels(cmd.Context(), client, tunnels, concurrency)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d tunnels\n", len(tunnels))

			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "number of concurrent deletions")

	return cmd
}

// deleteTunnels deletes tunnels concurrently and stops at the first failure.
func deleteTunnels(ctx context.Context, client *vpnclient.Client, tunnels []vpnapi.OneTunnel, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for _, tunnel := range tunnels {
		id := tunnel.ID

		group.Go(func() error {
			_, err := vpnclient.Run(groupCtx, client, vpnapi.DeleteTunnel{ID: id})
			if err != nil {
				return fmt.Errorf("tunnel %s: %w", id, err)
			}

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return fmt.Errorf("%w: %w", constants.ErrDeleteTunnelsFail, err)
	}

	return nil
}
