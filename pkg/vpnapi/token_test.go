package vpnapi_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fivetwenty-io/vpnapi/pkg/vpnapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthToken_Redacted(t *testing.T) {
	t.Parallel()

	const secret = "s3cr3t-token-value"

	token := vpnapi.NewAuthToken(secret)

	formats := []string{"%v", "%+v", "%#v", "%s", "%q", "%x", "%X", "%d", "%10s"}
	for _, format := range formats {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			out := fmt.Sprintf(format, token)
			assert.NotContains(t, out, secret)
			assert.Contains(t, out, "AuthToken(_)")
		})
	}

	wrapper := struct{ Token vpnapi.AuthToken }{Token: token}
	assert.NotContains(t, fmt.Sprintf("%+v", wrapper), secret)
	assert.NotContains(t, fmt.Sprintf("%#v", &wrapper), secret)

	assert.Equal(t, secret, token.Reveal())
}

func TestAuthToken_Equality(t *testing.T) {
	t.Parallel()

	assert.Equal(t, vpnapi.NewAuthToken("a"), vpnapi.NewAuthToken("a"))
	assert.NotEqual(t, vpnapi.NewAuthToken("a"), vpnapi.NewAuthToken("b"))
	assert.True(t, vpnapi.AuthToken{}.IsZero())
	assert.False(t, vpnapi.NewAuthToken("a").IsZero())
}

func TestAuthToken_JSON(t *testing.T) {
	t.Parallel()

	var token vpnapi.AuthToken

	err := json.Unmarshal([]byte(`"abc123"`), &token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token.Reveal())

	data, err := json.Marshal(token)
	require.NoError(t, err)
	assert.JSONEq(t, `"abc123"`, string(data))

	err = json.Unmarshal([]byte(`{"token":"abc"}`), &token)
	require.Error(t, err)
}

func TestAcquireToken_JSON(t *testing.T) {
	t.Parallel()

	assertRoundTrip[vpnapi.AcquireToken](t, `{"account_id": "0000000000000000000"}`)
}
