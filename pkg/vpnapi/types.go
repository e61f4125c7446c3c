package vpnapi

import (
	"net/netip"
	"time"
)

// AccountInfo represents the account response.
type AccountInfo struct {
	ID           string        `json:"id"           yaml:"id"`
	Active       bool          `json:"active"       yaml:"active"`
	TopUp        *TopUp        `json:"top_up"       yaml:"top_up"`
	Subscription *Subscription `json:"subscription" yaml:"subscription"`
}

// TopUp represents prepaid credit on an account.
type TopUp struct {
	// CreditExpiresAt is in seconds since the unix epoch.
	CreditExpiresAt int64 `json:"credit_expires_at" yaml:"credit_expires_at"`
}

// ExpiresAt returns CreditExpiresAt as a time.
func (t TopUp) ExpiresAt() time.Time {
	return time.Unix(t.CreditExpiresAt, 0)
}

// Subscription represents a recurring payment subscription.
type Subscription struct {
	// Status is the payment provider's subscription status, e.g. "active".
	Status string `json:"status" yaml:"status"`
	// CurrentPeriodStart is in seconds since the unix epoch.
	CurrentPeriodStart int64 `json:"current_period_start" yaml:"current_period_start"`
	// CurrentPeriodEnd is in seconds since the unix epoch.
	CurrentPeriodEnd int64 `json:"current_period_end" yaml:"current_period_end"`
	// CancelAtPeriodEnd is true when the subscription ends with this period.
	CancelAtPeriodEnd bool `json:"cancel_at_period_end" yaml:"cancel_at_period_end"`
}

// OneRelay represents a relay server.
type OneRelay struct {
	ID             string               `json:"id"              yaml:"id"`
	IPv4           netip.Addr           `json:"ip_v4"           yaml:"ip_v4"`
	IPv6           netip.Addr           `json:"ip_v6"           yaml:"ip_v6"`
	PreferredExits []RelayPreferredExit `json:"preferred_exits" yaml:"preferred_exits"`
}

// RelayPreferredExit references an exit a relay prefers.
type RelayPreferredExit struct {
	ID string `json:"id" yaml:"id"`
}

// OneExit represents an exit server.
type OneExit struct {
	ID          string `json:"id"           yaml:"id"`
	CountryCode string `json:"country_code" yaml:"country_code"`
	CityCode    string `json:"city_code"    yaml:"city_code"`
	CityName    string `json:"city_name"    yaml:"city_name"`
}

// ExitList is the response of ListExits2.
type ExitList struct {
	Exits []OneExit `json:"exits" yaml:"exits"`
}

// Prices represents the price list.
type Prices struct {
	Subscription []Price `json:"subscription" yaml:"subscription"`
	TopUp        []Price `json:"top_up"       yaml:"top_up"`
	// Sale is a global sale description. Individual prices may carry their own.
	Sale *Sale `json:"sale" yaml:"sale"`
}

// Price represents one purchasable period.
type Price struct {
	Months   uint16 `json:"months"    yaml:"months"`
	USDCents uint32 `json:"usd_cents" yaml:"usd_cents"`
	// RegularUSDCents is informational, to contrast discounts against.
	RegularUSDCents uint32 `json:"regular_usd_cents" yaml:"regular_usd_cents"`
	Sale            *Sale  `json:"sale"              yaml:"sale"`
}

// Sale describes a discount.
type Sale struct {
	Title   string `json:"title"   yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
}

// LightningTopUpInfo carries a lightning invoice.
type LightningTopUpInfo struct {
	Invoice string `json:"invoice" yaml:"invoice"`
}

// StripeTopUpInfo carries the client secret of a payment intent.
type StripeTopUpInfo struct {
	PaymentIntentClientSecret string `json:"payment_intent_client_secret" yaml:"payment_intent_client_secret"`
}

// StripeSubscriptionCheckout carries the hosted checkout page URL.
type StripeSubscriptionCheckout struct {
	CheckoutURL string `json:"checkout_url" yaml:"checkout_url"`
}

// StripeManageSubscriptionSession carries the customer portal URL.
type StripeManageSubscriptionSession struct {
	PortalURL string `json:"portal_url" yaml:"portal_url"`
}
