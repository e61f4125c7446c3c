package vpnapi

import "github.com/google/uuid"

// API paths, relative to the base URL.
const (
	AccountPath               = "account"
	ExitsPath                 = "exits"
	Exits2Path                = "exits2"
	RelaysPath                = "relays"
	TunnelsPath               = "tunnels"
	PricesPath                = "prices"
	LightningTopUpPath        = "lightning/top_up"
	StripeTopUpPath           = "stripe/top_up"
	StripeCheckoutSessionPath = "stripe/create_checkout_session"
	StripePortalSessionPath   = "stripe/create_portal_session"
	CheckPath                 = "check"
	NoticesPath               = "notices"
)

// GetAccountInfo fetches the authenticated account.
type GetAccountInfo struct {
	Get
	Returns[AccountInfo]
}

// Path implements Command.
func (GetAccountInfo) Path() string { return AccountPath }

// ListExits lists exit servers.
type ListExits struct {
	Get
	Returns[[]OneExit]
}

// Path implements Command.
func (ListExits) Path() string { return ExitsPath }

// ListExits2 lists exit servers wrapped in an object.
type ListExits2 struct {
	Get
	Returns[ExitList]
}

// Path implements Command.
func (ListExits2) Path() string { return Exits2Path }

// ListRelays lists relay servers.
type ListRelays struct {
	Get
	Returns[[]OneRelay]
}

// Path implements Command.
func (ListRelays) Path() string { return RelaysPath }

// ListTunnels lists the account's tunnels.
type ListTunnels struct {
	Get
	Returns[[]OneTunnel]
}

// Path implements Command.
func (ListTunnels) Path() string { return TunnelsPath }

// CreateTunnel creates a tunnel. ID, Relay and Exit are optional; the server
// picks when they are nil.
type CreateTunnel struct {
	Post
	Returns[OneTunnel]

	Type     TunnelType `json:"type"`
	ID       *uuid.UUID `json:"id"`
	WgPubkey WgPubkey   `json:"wg_pubkey"`
	Relay    *string    `json:"relay"`
	Exit     *string    `json:"exit"`
}

// Path implements Command.
func (CreateTunnel) Path() string { return TunnelsPath }

// DeleteTunnel deletes a tunnel. The success response has no body.
type DeleteTunnel struct {
	Delete
	Returns[Empty]

	ID string `json:"id"`
}

// Path implements Command.
func (DeleteTunnel) Path() string { return TunnelsPath }

// ListPrices fetches the price list.
type ListPrices struct {
	Get
	Returns[Prices]
}

// Path implements Command.
func (ListPrices) Path() string { return PricesPath }

// CreateLightningTopUp creates a lightning invoice for prepaid months.
type CreateLightningTopUp struct {
	Post
	Returns[LightningTopUpInfo]

	Months uint16 `json:"months"`
}

// Path implements Command.
func (CreateLightningTopUp) Path() string { return LightningTopUpPath }

// CreateStripeTopUp creates a card payment intent for prepaid months.
type CreateStripeTopUp struct {
	Post
	Returns[StripeTopUpInfo]

	Months uint16 `json:"months"`
}

// Path implements Command.
func (CreateStripeTopUp) Path() string { return StripeTopUpPath }

// CreateStripeSubscriptionCheckout starts a hosted subscription checkout.
type CreateStripeSubscriptionCheckout struct {
	Post
	Returns[StripeSubscriptionCheckout]
}

// Path implements Command.
func (CreateStripeSubscriptionCheckout) Path() string { return StripeCheckoutSessionPath }

// CreateStripeManageSubscriptionSession opens the subscription portal for a
// completed checkout session.
type CreateStripeManageSubscriptionSession struct {
	Post
	Returns[StripeManageSubscriptionSession]

	SessionID string `json:"session_id"`
}

// Path implements Command.
func (CreateStripeManageSubscriptionSession) Path() string { return StripePortalSessionPath }

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
