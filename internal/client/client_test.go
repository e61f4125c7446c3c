package client_test

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	. "github.com/fivetwenty-io/vpnapi/internal/client"
	vpnhttp "github.com/fivetwenty-io/vpnapi/internal/http"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

func decodeInto[T any](out *T) Decoder {
	return func(resp *vpnhttp.Response) error {
		result, err := vpnhttp.ParseResponse[T](resp)
		*out = result

		return err
	}
}

func execute[T any](ctx context.Context, client *Client, cmd vpnapi.Command[T]) (T, error) {
	var result T

	err := client.Execute(ctx, cmd.Method(), cmd.Path(), cmd, decodeInto(&result))

	return result, err
}

const accountJSON = `{"id":"12345678901234567895","active":true,"top_up":null,"subscription":null}`

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil)
		require.ErrorIs(t, err, vpnapi.ErrConfigRequired)
	})

	t.Run("requires base URL", func(t *testing.T) {
		t.Parallel()

		_, err := New(&vpnapi.Config{AccountID: testAccountID})
		require.ErrorIs(t, err, vpnapi.ErrBaseURLRequired)
	})

	t.Run("seeds token cache", func(t *testing.T) {
		t.Parallel()

		client, err := New(&vpnapi.Config{
			BaseURL:   "https://api.example.com/api/",
			AccountID: testAccountID,
			AuthToken: vpnapi.NewAuthToken("seed"),
		})
		require.NoError(t, err)

		token, ok := client.GetAuthToken()
		require.True(t, ok)
		assert.Equal(t, "seed", token.Reveal())
		assert.Equal(t, "https://api.example.com/api/", client.BaseURL().String())
	})
}

func TestExecute_CachedTokenMakesOneCall(t *testing.T) {
	t.Parallel()

	api, server := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
		writeJSON(w, http.StatusOK, accountJSON)
	})

	client := newTestClient(t, server, "seeded")

	info, err := execute(context.Background(), client, vpnapi.GetAccountInfo{})
	require.NoError(t, err)
	assert.True(t, info.Active)

	assert.Equal(t, []string{"GET /account"}, api.Calls())
	assert.Equal(t, []string{"Bearer seeded"}, api.Auths())
}

func TestExecute_EmptyCacheAcquiresFirst(t *testing.T) {
	t.Parallel()

	api, server := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
		writeJSON(w, http.StatusOK, `[]`)
	})

	client := newTestClient(t, server, "")

	tunnels, err := execute(context.Background(), client, vpnapi.ListTunnels{})
	require.NoError(t, err)
	assert.Empty(t, tunnels)

	assert.Equal(t, []string{"POST /token", "GET /tunnels"}, api.Calls())
	assert.Equal(t, []string{"Bearer token-1"}, api.Auths())

	token, ok := client.GetAuthToken()
	require.True(t, ok)
	assert.Equal(t, "token-1", token.Reveal())
}

func TestExecute_InvalidTokenOnceRetries(t *testing.T) {
	t.Parallel()

	api, server := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request, call int) {
		if call == 1 {
			writeJSON(w, http.StatusUnauthorized, invalidTokenBody)

			return
		}

		writeJSON(w, http.StatusOK, accountJSON)
	})

	client := newTestClient(t, server, "stale")

	info, err := execute(context.Background(), client, vpnapi.GetAccountInfo{})
	require.NoError(t, err)
	assert.Equal(t, testAccountID, info.ID)

	assert.Equal(t, []string{"GET /account", "POST /token", "GET /account"}, api.Calls())
	assert.Equal(t, []string{"Bearer stale", "Bearer token-1"}, api.Auths())
}

func TestExecute_InvalidTokenOnceReturnsSecondOutcome(t *testing.T) {
	t.Parallel()

	api, server := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request, call int) {
		if call == 1 {
			writeJSON(w, http.StatusUnauthorized, invalidTokenBody)

			return
		}

		writeJSON(w, http.StatusForbidden, `{"error":{"AccountExpired":{}},"msg":"expired"}`)
	})

	client := newTestClient(t, server, "stale")

	_, err := execute(context.Background(), client, vpnapi.GetAccountInfo{})
	assert.True(t, vpnapi.IsAccountExpired(err))
	assert.Equal(t, []string{"GET /account", "POST /token", "GET /account"}, api.Calls())
}

func TestExecute_InvalidTokenThriceGivesUp(t *testing.T) {
	t.Parallel()

	api, server := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
		writeJSON(w, http.StatusUnauthorized, invalidTokenBody)
	})

	client := newTestClient(t, server, "")

	_, err := execute(context.Background(), client, vpnapi.ListExits{})

	reqErr := &vpnapi.RequestError{}
	require.ErrorAs(t, err, &reqErr)
	require.ErrorIs(t, err, vpnapi.ErrRepeatedInvalidToken)

	assert.Equal(t, []string{
		"POST /token", "GET /exits",
		"POST /token", "GET /exits",
		"POST /token", "GET /exits",
	}, api.Calls())
	assert.Equal(t, []string{"Bearer token-1", "Bearer token-2", "Bearer token-3"}, api.Auths())
}

func TestExecute_OtherFailuresAreNotRetried(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		respond func(w http.ResponseWriter)
		class   vpnapi.ErrorClass
	}{
		{
			name: "api error",
			respond: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusTooManyRequests, `{"error":{"RateLimitExceeded":{}},"msg":"slow down"}`)
			},
			class: vpnapi.ErrorClassAPI,
		},
		{
			name: "unknown api error",
			respond: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusConflict, `{"error":"SomethingNew","msg":"new"}`)
			},
			class: vpnapi.ErrorClassAPI,
		},
		{
			name: "html from a proxy",
			respond: func(w http.ResponseWriter) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("<html>captive portal</html>"))
			},
			class: vpnapi.ErrorClassProtocol,
		},
		{
			name: "undecodable success",
			respond: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusOK, `["not", "prices"]`)
			},
			class: vpnapi.ErrorClassOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api, server := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
				tt.respond(w)
			})

			client := newTestClient(t, server, "seeded")

			_, err := execute(context.Background(), client, vpnapi.ListPrices{})
			require.Error(t, err)
			assert.Equal(t, tt.class, vpnapi.ClassifyError(err))
			assert.Equal(t, []string{"GET /prices"}, api.Calls())

			token, ok := client.GetAuthToken()
			require.True(t, ok)
			assert.Equal(t, "seeded", token.Reveal())
		})
	}
}

func TestExecute_TokenAcquisitionFailure(t *testing.T) {
	t.Parallel()

	api, server := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
		t.Error("command must not be sent")
	})

	client, err := New(&vpnapi.Config{BaseURL: server.URL + "/api/", AccountID: "wrong"})
	require.NoError(t, err)

	_, err = execute(context.Background(), client, vpnapi.ListRelays{})

	apiErr := &vpnapi.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, vpnapi.ErrorCodeBadRequest, apiErr.Code())
	assert.Equal(t, []string{"POST /token"}, api.Calls())
}

func TestExecute_MissingAccountID(t *testing.T) {
	t.Parallel()

	client, err := New(&vpnapi.Config{BaseURL: "https://api.example.com/api/"})
	require.NoError(t, err)

	_, err = client.AcquireAuthToken(context.Background())
	require.ErrorIs(t, err, vpnapi.ErrAccountIDRequired)
	assert.Equal(t, vpnapi.ErrorClassOther, vpnapi.ClassifyError(err))
}

func TestExecute_TransportErrorIsRequestError(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	client, err := New(&vpnapi.Config{
		BaseURL:   "http://" + addr + "/api/",
		AccountID: testAccountID,
		AuthToken: vpnapi.NewAuthToken("seeded"),
	})
	require.NoError(t, err)

	_, err = execute(context.Background(), client, vpnapi.GetAccountInfo{})

	reqErr := &vpnapi.RequestError{}
	require.ErrorAs(t, err, &reqErr)
}

func TestExecute_DeleteReturnsEmpty(t *testing.T) {
	t.Parallel()

	api, server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request, _ int) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusOK, "")
	})

	client := newTestClient(t, server, "seeded")

	_, err := execute(context.Background(), client, vpnapi.DeleteTunnel{ID: "tunnel-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DELETE /tunnels"}, api.Calls())
}

func TestAcquireAuthToken_ConcurrentCallersShareOneFetch(t *testing.T) {
	t.Parallel()

	api, server := newFakeAPI(t, func(http.ResponseWriter, *http.Request, int) {})
	client := newTestClient(t, server, "")

	seen, release := api.holdTokens()
	t.Cleanup(release)

	const callers = 32

	var (
		mu     sync.Mutex
		tokens = make(map[string]int)
		group  errgroup.Group
	)

	for range callers {
		group.Go(func() error {
			token, err := client.AcquireAuthToken(context.Background())
			if err != nil {
				return err
			}

			mu.Lock()
			tokens[token.Reveal()]++
			mu.Unlock()

			return nil
		})
	}

	select {
	case <-seen:
	case <-time.After(5 * time.Second):
		t.Fatal("token endpoint was never called")
	}

	time.Sleep(20 * time.Millisecond)
	release()

	require.NoError(t, group.Wait())
	assert.Equal(t, map[string]int{"token-1": callers}, tokens)
	assert.Equal(t, []string{"POST /token"}, api.Calls())
}

func TestAuthTokenAccessors(t *testing.T) {
	t.Parallel()

	client, err := New(&vpnapi.Config{BaseURL: "https://api.example.com/api/", AccountID: testAccountID})
	require.NoError(t, err)

	_, ok := client.GetAuthToken()
	assert.False(t, ok)

	client.SetAuthToken(vpnapi.NewAuthToken("manual"))

	token, err := client.AcquireAuthToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual", token.Reveal())

	client.ClearAuthToken()

	_, ok = client.GetAuthToken()
	assert.False(t, ok)
}

type recordingPersister struct {
	mu     sync.Mutex
	tokens []string
}

func (p *recordingPersister) PersistAuthToken(_ context.Context, accountID string, token vpnapi.AuthToken) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tokens = append(p.tokens, accountID+"="+token.Reveal())

	return nil
}

func TestExecute_PersistsAcquiredToken(t *testing.T) {
	t.Parallel()

	_, server := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
		writeJSON(w, http.StatusOK, `[]`)
	})

	persister := &recordingPersister{}
	client, err := New(&vpnapi.Config{
		BaseURL:        server.URL + "/api/",
		AccountID:      testAccountID,
		TokenPersister: persister,
	})
	require.NoError(t, err)

	_, err = execute(context.Background(), client, vpnapi.ListRelays{})
	require.NoError(t, err)

	assert.Equal(t, []string{testAccountID + "=token-1"}, persister.tokens)
}

func TestCheck_IsUnauthenticated(t *testing.T) {
	t.Parallel()

	api, server := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
		writeJSON(w, http.StatusOK, `{"is_safe":false,"ip":"203.0.113.9","ip_type":"Unknown"}`)
	})

	client := newTestClient(t, server, "")

	result, err := client.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, vpnapi.IPTypeUnknown, result.IPType)
	assert.Equal(t, "203.0.113.9", result.IP)

	assert.Equal(t, []string{"GET /check"}, api.Calls())
	assert.Equal(t, []string{""}, api.Auths())
}
