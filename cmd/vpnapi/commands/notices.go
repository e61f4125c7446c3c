package commands

import (
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vpnapi/pkg/vpnclient"
)

// NewNoticesCommand creates the notices command. version is the running CLI
// version, used when --client-version is not given.
func NewNoticesCommand(version string) *cobra.Command {
	var clientVersion string

	cmd := &cobra.Command{
		Use:   "notices",
		Short: "Show operator notices",
		Long:  "Show the warnings and errors the operator currently publishes for this client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseClientVersion(clientVersion)
			if err != nil {
				return err
			}

			notices, err := vpnclient.NewNoticesClient(baseURL())
			if err != nil {
				return fmt.Errorf("failed to create notices client: %w", err)
			}

			current, err := notices.CurrentNotices(cmd.Context(), parsed)
			if err != nil {
				return fmt.Errorf("failed to get notices: %w", err)
			}

			return render(cmd, current, renderNotices)
		},
	}

	cmd.Flags().StringVar(&clientVersion, "client-version", version, "client version to match notices against")

	return cmd
}

// parseClientVersion accepts versions like "v1.2.3". Development builds match
// as 0.0.0.
func parseClientVersion(version string) (*semver.Version, error) {
	if version == "" || version == "dev" {
		return semver.New(0, 0, 0, "", ""), nil
	}

	parsed, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("invalid client version %q: %w", version, err)
	}

	return parsed, nil
}

func renderNotices(w io.Writer, notices []vpnclient.NoticeDisplay) error {
	if len(notices) == 0 {
		_, _ = fmt.Fprintln(w, "No notices")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Type", "Message")

	for _, notice := range notices {
		_ = table.Append(string(notice.Type), notice.Content)
	}

	return renderTable(table)
}
