package vpnapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/netip"
)

// TunnelType selects how a tunnel is transported.
type TunnelType string

// Tunnel types.
const (
	TunnelTypeUDPPort    TunnelType = "udp_port"
	TunnelTypeObfuscated TunnelType = "obfuscated"
)

// TunnelStatusType is the state of a tunnel.
type TunnelStatusType string

// Tunnel states.
const (
	// TunnelStatusCreated means the tunnel was created but not used yet.
	TunnelStatusCreated      TunnelStatusType = "created"
	TunnelStatusConnected    TunnelStatusType = "connected"
	TunnelStatusDisconnected TunnelStatusType = "disconnected"
)

// Static errors for err113 compliance.
var (
	ErrUnknownTunnelType = errors.New("unknown tunnel type")
	ErrMissingTunnelBody = errors.New("tunnel config has no body for its type")
	ErrNotUDPPortTunnel  = errors.New("tunnel is not a udp_port tunnel")
)

// OneTunnel represents a tunnel.
type OneTunnel struct {
	ID     string       `json:"id"     yaml:"id"`
	Status TunnelStatus `json:"status" yaml:"status"`
	Config TunnelConfig `json:"config" yaml:"config"`
	Relay  OneRelay     `json:"relay"  yaml:"relay"`
	Exit   OneExit      `json:"exit"   yaml:"exit"`
}

// TunnelStatus is the last known state of a tunnel.
type TunnelStatus struct {
	Type TunnelStatusType `json:"type" yaml:"type"`
	// When is the unix time this status was last updated. For connected
	// tunnels it is not the time of the last connection.
	When int64 `json:"when" yaml:"when"`
}

// WgClientConfig is the client side of a udp_port tunnel.
type WgClientConfig struct {
	WgPubkey  WgPubkey    `json:"wg_pubkey" yaml:"wg_pubkey"`
	Addresses []IPNetwork `json:"addresses" yaml:"addresses"`
}

// WgServerConfig is the server side of a udp_port tunnel.
type WgServerConfig struct {
	WgPubkey  WgPubkey         `json:"wg_pubkey" yaml:"wg_pubkey"`
	Endpoints []netip.AddrPort `json:"endpoints" yaml:"endpoints"`
	DNSes     []netip.Addr     `json:"dnses"     yaml:"dnses"`
}

// IPNetwork is an address with a prefix length. It accepts a bare address as
// a single host network, so "10.0.0.1" reads as 10.0.0.1/32.
type IPNetwork struct {
	netip.Prefix
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *IPNetwork) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*n = IPNetwork{}

		return nil
	}

	prefix, err := netip.ParsePrefix(string(text))
	if err == nil {
		n.Prefix = prefix

		return nil
	}

	addr, addrErr := netip.ParseAddr(string(text))
	if addrErr != nil {
		return fmt.Errorf("invalid IP network %q: %w", text, err)
	}

	n.Prefix = netip.PrefixFrom(addr, addr.BitLen())

	return nil
}

// UDPPortTunnelConfig is the body of a udp_port tunnel config.
type UDPPortTunnelConfig struct {
	Client WgClientConfig `json:"client" yaml:"client"`
	Server WgServerConfig `json:"server" yaml:"server"`
}

// ObfuscatedTunnelConfig is the body of an obfuscated tunnel config.
type ObfuscatedTunnelConfig struct {
	ClientPubkey WgPubkey       `json:"client_pubkey" yaml:"client_pubkey"`
	ClientIPsV4  []IPNetwork    `json:"client_ips_v4" yaml:"client_ips_v4"`
	ClientIPsV6  []IPNetwork    `json:"client_ips_v6" yaml:"client_ips_v6"`
	DNS          []netip.Addr   `json:"dns"           yaml:"dns"`
	RelayAddrV4  netip.AddrPort `json:"relay_addr_v4" yaml:"relay_addr_v4"`
	RelayAddrV6  netip.AddrPort `json:"relay_addr_v6" yaml:"relay_addr_v6"`
	RelayCert    string         `json:"relay_cert"    yaml:"relay_cert"`
	ExitPubkey   WgPubkey       `json:"exit_pubkey"   yaml:"exit_pubkey"`
}

// TunnelConfig is a tagged union keyed by "type". Exactly one of UDPPort and
// Obfuscated is set, matching Type.
type TunnelConfig struct {
	Type       TunnelType              `yaml:"type"`
	UDPPort    *UDPPortTunnelConfig    `yaml:"udp_port,omitempty"`
	Obfuscated *ObfuscatedTunnelConfig `yaml:"obfuscated,omitempty"`
}

// NewUDPPortTunnelConfig returns a udp_port config.
func NewUDPPortTunnelConfig(client WgClientConfig, server WgServerConfig) TunnelConfig {
	return TunnelConfig{
		Type:    TunnelTypeUDPPort,
		UDPPort: &UDPPortTunnelConfig{Client: client, Server: server},
	}
}

// NewObfuscatedTunnelConfig returns an obfuscated config.
func NewObfuscatedTunnelConfig(config ObfuscatedTunnelConfig) TunnelConfig {
	return TunnelConfig{
		Type:       TunnelTypeObfuscated,
		Obfuscated: &config,
	}
}

// AsUDPPort returns the udp_port body or ErrNotUDPPortTunnel.
func (c TunnelConfig) AsUDPPort() (*UDPPortTunnelConfig, error) {
	if c.Type != TunnelTypeUDPPort || c.UDPPort == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotUDPPortTunnel, c.Type)
	}

	return c.UDPPort, nil
}

// MarshalJSON implements json.Marshaler.
func (c TunnelConfig) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case TunnelTypeUDPPort:
		if c.UDPPort == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingTunnelBody, c.Type)
		}

		return json.Marshal(struct {
			Type TunnelType `json:"type"`
			*UDPPortTunnelConfig
		}{c.Type, c.UDPPort})
	case TunnelTypeObfuscated:
		if c.Obfuscated == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingTunnelBody, c.Type)
		}

		return json.Marshal(struct {
			Type TunnelType `json:"type"`
			*ObfuscatedTunnelConfig
		}{c.Type, c.Obfuscated})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTunnelType, c.Type)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *TunnelConfig) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type TunnelType `json:"type"`
	}

	err := json.Unmarshal(data, &tag)
	if err != nil {
		return fmt.Errorf("failed to unmarshal tunnel config type: %w", err)
	}

	switch tag.Type {
	case TunnelTypeUDPPort:
		var body UDPPortTunnelConfig

		err = json.Unmarshal(data, &body)
		if err != nil {
			return fmt.Errorf("failed to unmarshal udp_port tunnel config: %w", err)
		}

		*c = TunnelConfig{Type: tag.Type, UDPPort: &body}
	case TunnelTypeObfuscated:
		var body ObfuscatedTunnelConfig

		err = json.Unmarshal(data, &body)
		if err != nil {
			return fmt.Errorf("failed to unmarshal obfuscated tunnel config: %w", err)
		}

		*c = TunnelConfig{Type: tag.Type, Obfuscated: &body}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTunnelType, tag.Type)
	}

	return nil
}
