// Package vpnapi provides the request and response types of the VPN account
// and tunnel API.
//
// # Overview
//
// Every API operation is a command value implementing Command[T], where T is
// the type its successful response decodes into. The command value is also
// the JSON request body. A concrete client that authenticates and executes
// commands is provided by the vpnclient package:
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
//	  "github.com/fivetwenty-io/vpnapi/pkg/vpnclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := vpnclient.New(&vpnapi.Config{
//	    BaseURL:   "https://api.example.com/api",
//	    AccountID: "12345678901234567895",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  tunnels, err := vpnclient.Run(ctx, cli, vpnapi.ListTunnels{})
//	  if err != nil { log.Fatal(err) }
//	  _ = tunnels
//	}
//
// # Errors
//
// Errors returned by the client are one of *APIError (the server answered
// with a structured error), *ProtocolError (the response was not the expected
// JSON) or *RequestError (everything else). ClassifyError and helpers such as
// IsAccountExpired branch on them. Error kinds added to the server after this
// client was built decode as unknown kinds rather than failing.
//
// # Auth tokens
//
// AuthToken never prints its value through fmt. Use Reveal where the raw
// value is required.
package vpnapi
