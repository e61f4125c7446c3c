package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vpnapi/internal/constants"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnclient"
)

// NewPricesCommand creates the prices command
func NewPricesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Show prices",
		Long:  "Display subscription and top-up prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			prices, err := vpnclient.Run(cmd.Context(), client, vpnapi.ListPrices{})
			if err != nil {
				return fmt.Errorf("failed to get prices: %w", err)
			}

			return render(cmd, prices, renderPrices)
		},
	}
}

func renderPrices(w io.Writer, prices vpnapi.Prices) error {
	if prices.Sale != nil {
		_, _ = fmt.Fprintf(w, "%s: %s\n\n", prices.Sale.Title, prices.Sale.Summary)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Kind", "Months", "Price", "Regular Price", "Sale")

	appendPrices := func(kind string, list []vpnapi.Price) {
		for _, price := range list {
			sale := constants.None
			if price.Sale != nil {
				sale = price.Sale.Title
			}

			_ = table.Append(
				kind,
				strconv.Itoa(int(price.Months)),
				formatUSDCents(price.USDCents),
				formatUSDCents(price.RegularUSDCents),
				sale,
			)
		}
	}

	appendPrices("subscription", prices.Subscription)
	appendPrices("top-up", prices.TopUp)

	return renderTable(table)
}

// NewTopUpCommand creates the top-up command group
func NewTopUpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-up",
		Short: "Buy prepaid months",
		Long:  "Create a payment for prepaid account credit",
	}

	cmd.AddCommand(newTopUpLightningCommand())
	cmd.AddCommand(newTopUpStripeCommand())

	return cmd
}

func validateMonths(months uint16) error {
	if months == 0 {
		return constants.ErrMonthsRequired
	}

	return nil
}

func newTopUpLightningCommand() *cobra.Command {
	var months uint16

	cmd := &cobra.Command{
		Use:   "lightning",
		Short: "Create a lightning invoice",
		Long:  "Create a lightning invoice for prepaid months and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := validateMonths(months)
			if err != nil {
				return err
			}

			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			info, err := vpnclient.Run(cmd.Context(), client, vpnapi.CreateLightningTopUp{Months: months})
			if err != nil {
				return fmt.Errorf("failed to create lightning invoice: %w", err)
			}

			return render(cmd, info, func(w io.Writer, info vpnapi.LightningTopUpInfo) error {
				_, err := fmt.Fprintln(w, info.Invoice)

				return err
			})
		},
	}

	cmd.Flags().Uint16Var(&months, "months", 0, "number of months to buy")
	_ = cmd.MarkFlagRequired("months")

	return cmd
}

func newTopUpStripeCommand() *cobra.Command {
	var months uint16

	cmd := &cobra.Command{
		Use:   "stripe",
		Short: "Create a card payment",
		Long:  "Create a card payment intent for prepaid months and print its client secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := validateMonths(months)
			if err != nil {
				return err
			}

			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			info, err := vpnclient.Run(cmd.Context(), client, vpnapi.CreateStripeTopUp{Months: months})
			if err != nil {
				return fmt.Errorf("failed to create card payment: %w", err)
			}

			return render(cmd, info, func(w io.Writer, info vpnapi.StripeTopUpInfo) error {
				_, err := fmt.Fprintln(w, info.PaymentIntentClientSecret)

				return err
			})
		},
	}

	cmd.Flags().Uint16Var(&months, "months", 0, "number of months to buy")
	_ = cmd.MarkFlagRequired("months")

	return cmd
}

// NewSubscriptionCommand creates the subscription command group
func NewSubscriptionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"sub"},
		Short:   "Manage the subscription",
		Long:    "Start a subscription checkout or open the subscription portal",
	}

	cmd.AddCommand(newSubscriptionCheckoutCommand())
	cmd.AddCommand(newSubscriptionPortalCommand())

	return cmd
}

func newSubscriptionCheckoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Start a subscription checkout",
		Long:  "Create a hosted checkout session and print its URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			checkout, err := vpnclient.Run(cmd.Context(), client, vpnapi.CreateStripeSubscriptionCheckout{})
			if err != nil {
				return fmt.Errorf("failed to create checkout session: %w", err)
			}

			return render(cmd, checkout, func(w io.Writer, checkout vpnapi.StripeSubscriptionCheckout) error {
				_, err := fmt.Fprintln(w, checkout.CheckoutURL)

				return err
			})
		},
	}
}

func newSubscriptionPortalCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "portal",
		Short: "Open the subscription portal",
		Long:  "Create a customer portal session for a completed checkout and print its URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" {
				return constants.ErrSessionIDRequired
			}

			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			session, err := vpnclient.Run(cmd.Context(), client, vpnapi.CreateStripeManageSubscriptionSession{SessionID: sessionID})
			if err != nil {
				return fmt.Errorf("failed to create portal session: %w", err)
			}

			return render(cmd, session, func(w io.Writer, session vpnapi.StripeManageSubscriptionSession) error {
				_, err := fmt.Fprintln(w, session.PortalURL)

				return err
			})
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "checkout session ID")

	return cmd
}
