package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

// NewGenIDCommand creates the gen-id command
func NewGenIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-id",
		Short: "Generate an account number",
		Long:  "Generate a random account number with a valid check digit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := vpnapi.GenerateAccountID()
			if err != nil {
				return fmt.Errorf("failed to generate account number: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)

			return nil
		},
	}
}

// NewValidateIDCommand creates the validate-id command
func NewValidateIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-id ACCOUNT_NUMBER",
		Short: "Validate an account number",
		Long:  "Check the length, digits and check digit of an account number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := vpnapi.ValidateAccountID(args[0])
			if err != nil {
				return fmt.Errorf("invalid account number: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Account number is valid")

			return nil
		},
	}
}
