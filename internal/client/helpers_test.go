package client_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/fivetwenty-io/vpnapi/internal/client"
	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
)

const testAccountID = "12345678901234567895"

const invalidTokenBody = `{"error":{"MissingOrInvalidAuthToken":{}},"msg":"Missing or invalid auth token."}`

// fakeAPI records every call in arrival order and answers token requests with
// sequential tokens.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	tokens    int
	auths     []string
	handler   func(w http.ResponseWriter, r *http.Request, call int)
	commandNo int

	// tokenGate, when set, holds every token response until it is closed.
	tokenGate chan struct{}
	// tokenSeen is closed when the first token request arrives.
	tokenSeen chan struct{}
}

func newFakeAPI(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, call int)) (*fakeAPI, *httptest.Server) {
	t.Helper()

	api := &fakeAPI{handler: handler}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	return api, server
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api"))

	if r.URL.Path == "/api/token" {
		f.tokens++
		token := fmt.Sprintf("token-%d", f.tokens)
		gate, seen := f.tokenGate, f.tokenSeen
		f.tokenSeen = nil
		f.mu.Unlock()

		if seen != nil {
			close(seen)
		}

		if gate != nil {
			<-gate
		}

		var body vpnapi.AcquireToken
		if json.NewDecoder(r.Body).Decode(&body) != nil || body.AccountID != testAccountID {
			writeJSON(w, http.StatusBadRequest, `{"error":{"BadRequest":{}},"msg":"bad account"}`)

			return
		}

		writeJSON(w, http.StatusOK, `"`+token+`"`)

		return
	}

	f.commandNo++
	call := f.commandNo
	f.auths = append(f.auths, r.Header.Get("Authorization"))
	f.mu.Unlock()

	f.handler(w, r, call)
}

// holdTokens makes token responses wait until the returned release func is
// called. The seen channel is closed once the first token request arrives.
func (f *fakeAPI) holdTokens() (seen <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tokenGate = make(chan struct{})
	f.tokenSeen = make(chan struct{})

	return f.tokenSeen, sync.OnceFunc(func() { close(f.tokenGate) })
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Auths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.auths...)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func newTestClient(t *testing.T, server *httptest.Server, seed string) *Client {
	t.Helper()

	config := &vpnapi.Config{
		BaseURL:   server.URL + "/api/",
		AccountID: testAccountID,
	}
	if seed != "" {
		config.AuthToken = vpnapi.NewAuthToken(seed)
	}

	client, err := New(config)
	require.NoError(t, err)

	return client
}
