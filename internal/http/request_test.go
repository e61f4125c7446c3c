package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	vpnhttp "github.com/fivetwenty-io/vpnapi/internal/http"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	base := mustParseURL(t, "https://api.example.com/api/")
	token := vpnapi.NewAuthToken("tok")

	t.Run("get has no body", func(t *testing.T) {
		t.Parallel()

		req, err := vpnhttp.BuildRequest(base, http.MethodGet, "tunnels", vpnapi.ListTunnels{}, &token)
		require.NoError(t, err)

		assert.Equal(t, "https://api.example.com/api/tunnels", req.URL.String())
		assert.Equal(t, "Bearer tok", req.Headers.Get("Authorization"))
		assert.Equal(t, "application/json", req.Headers.Get("Content-Type"))
		assert.Nil(t, req.Body)
	})

	t.Run("non-get encodes the command", func(t *testing.T) {
		t.Parallel()

		cmd := vpnapi.DeleteTunnel{ID: "tunnel-1"}

		req, err := vpnhttp.BuildRequest(base, cmd.Method(), cmd.Path(), cmd, &token)
		require.NoError(t, err)

		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, "https://api.example.com/api/tunnels", req.URL.String())
		assert.JSONEq(t, `{"id":"tunnel-1"}`, string(req.Body))
	})

	t.Run("nested path", func(t *testing.T) {
		t.Parallel()

		req, err := vpnhttp.BuildRequest(base, http.MethodPost, "lightning/top_up", vpnapi.CreateLightningTopUp{Months: 1}, &token)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/api/lightning/top_up", req.URL.String())
	})

	t.Run("without token", func(t *testing.T) {
		t.Parallel()

		req, err := vpnhttp.BuildRequest(base, http.MethodPost, vpnapi.TokenPath, vpnapi.AcquireToken{AccountID: "1"}, nil)
		require.NoError(t, err)

		assert.Empty(t, req.Headers.Get("Authorization"))
		assert.JSONEq(t, `{"account_id":"1"}`, string(req.Body))
	})

	t.Run("bad path", func(t *testing.T) {
		t.Parallel()

		_, err := vpnhttp.BuildRequest(base, http.MethodGet, "%zz", nil, &token)
		require.Error(t, err)
		assert.Equal(t, vpnapi.ErrorClassOther, vpnapi.ClassifyError(err))
	})

	t.Run("unencodable body", func(t *testing.T) {
		t.Parallel()

		_, err := vpnhttp.BuildRequest(base, http.MethodPost, "tunnels", map[string]interface{}{"c": make(chan int)}, &token)

		reqErr := &vpnapi.RequestError{}
		require.ErrorAs(t, err, &reqErr)

		var unsupported *json.UnsupportedTypeError
		assert.ErrorAs(t, err, &unsupported)
	})
}
