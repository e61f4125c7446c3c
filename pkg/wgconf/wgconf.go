// Package wgconf renders wg-quick configuration files for udp_port tunnels.
package wgconf

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/curve25519"

	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

// AllowedIPs routes all IPv4 and IPv6 traffic through the tunnel.
const AllowedIPs = "0.0.0.0/0,::0/0"

// ErrNoServerEndpoint is returned when the server config lists no endpoint.
var ErrNoServerEndpoint = errors.New("server config has no endpoint")

// KeyPair is a WireGuard key pair.
type KeyPair struct {
	PrivateKey [curve25519.ScalarSize]byte
	PublicKey  vpnapi.WgPubkey
}

// PrivateKeyBase64 returns the private key in the encoding wg-quick expects.
func (k KeyPair) PrivateKeyBase64() string {
	return base64.StdEncoding.EncodeToString(k.PrivateKey[:])
}

// GenerateKeyPair creates a random, clamped Curve25519 key pair.
func GenerateKeyPair() (KeyPair, error) {
	var pair KeyPair

	_, err := rand.Read(pair.PrivateKey[:])
	if err != nil {
		return pair, fmt.Errorf("generating private key: %w", err)
	}

	pair.PrivateKey[0] &= 248
	pair.PrivateKey[31] &= 127
	pair.PrivateKey[31] |= 64

	public, err := curve25519.X25519(pair.PrivateKey[:], curve25519.Basepoint)
	if err != nil {
		return pair, fmt.Errorf("deriving public key: %w", err)
	}

	copy(pair.PublicKey[:], public)

	return pair, nil
}

// Build renders a wg-quick configuration. tunnelID is written as a comment
// when non-empty; the first server endpoint becomes the peer endpoint.
func Build(tunnelID, privateKeyBase64 string, client vpnapi.WgClientConfig, server vpnapi.WgServerConfig) (string, error) {
	if len(server.Endpoints) == 0 {
		return "", ErrNoServerEndpoint
	}

	addresses := make([]string, 0, len(client.Addresses))
	for _, prefix := range client.Addresses {
		addresses = append(addresses, prefix.String())
	}

	dnses := make([]string, 0, len(server.DNSes))
	for _, addr := range server.DNSes {
		dnses = append(dnses, addr.String())
	}

	var conf strings.Builder

	conf.WriteString("[Interface]\n")

	if tunnelID != "" {
		fmt.Fprintf(&conf, "# Obscura tunnel ID: %s\n", tunnelID)
	}

	fmt.Fprintf(&conf, "PrivateKey = %s\n", privateKeyBase64)
	fmt.Fprintf(&conf, "Address = %s\n", strings.Join(addresses, ","))
	fmt.Fprintf(&conf, "DNS = %s\n", strings.Join(dnses, ","))

	conf.WriteString("\n[Peer]\n")
	fmt.Fprintf(&conf, "PublicKey = %s\n", server.WgPubkey)
	fmt.Fprintf(&conf, "AllowedIPs = %s\n", AllowedIPs)
	fmt.Fprintf(&conf, "Endpoint = %s\n", server.Endpoints[0])

	return conf.String(), nil
}

// BuildForTunnel renders the configuration of a udp_port tunnel.
func BuildForTunnel(tunnel vpnapi.OneTunnel, privateKeyBase64 string) (string, error) {
	udp, err := tunnel.Config.AsUDPPort()
	if err != nil {
		return "", err
	}

	return Build(tunnel.ID, privateKeyBase64, udp.Client, udp.Server)
}
