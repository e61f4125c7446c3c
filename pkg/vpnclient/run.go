package vpnclient

import (
	"context"

	vpnhttp "github.com/fivetwenty-io/vpnapi/internal/http"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

// Run executes cmd and decodes the result.
//
// The returned error is a *vpnapi.APIError, *vpnapi.ProtocolError or
// *vpnapi.RequestError. A rejected auth token is replaced and the command
// retried transparently, at most three attempts in total.
//
//	tunnel, err := vpnclient.Run(ctx, cli, vpnapi.CreateTunnel{
//	  Type:     vpnapi.TunnelTypeUDPPort,
//	  WgPubkey: pubkey,
//	})
func Run[T any](ctx context.Context, c *Client, cmd vpnapi.Command[T]) (T, error) {
	var result T

	err := c.inner.Execute(ctx, cmd.Method(), cmd.Path(), cmd, func(resp *vpnhttp.Response) error {
		decoded, err := vpnhttp.ParseResponse[T](resp)
		if err != nil {
			return err
		}

		result = decoded

		return nil
	})

	return result, err
}
