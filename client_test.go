package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Transport Tests ---

func TestSessionTLS(t *testing.T) {
	ctx := context.Background()

	t.Run("Verification rejects self-signed cert", func(t *testing.T) {
		ts := startFakeRouter(t, newFakeRouter())
		cfg := testConfig(t, ts)
		cfg.VerifyTLS = true
		session := newFritzSession(ts.URL, cfg)

		_, err := session.get(ctx, session.urlLogin)
		require.ErrorIs(t, err, ErrConnection)
		// The failure must point the user at the override flag
		assert.Contains(t, err.Error(), "--ssl-no-verify")
	})
	t.Run("Insecure mode accepts self-signed cert", func(t *testing.T) {
		ts := startFakeRouter(t, newFakeRouter())
		session := newTestSession(t, ts)

		resp, err := session.get(ctx, session.urlLogin)
		require.NoError(t, err)
		assert.Contains(t, string(resp.body), "<Challenge>")
	})
}

func TestSessionTransportFailure(t *testing.T) {
	ctx := context.Background()

	ts := startFakeRouter(t, newFakeRouter())
	session := newTestSession(t, ts)
	ts.Close()

	_, err := session.get(ctx, session.urlLogin)
	require.ErrorIs(t, err, ErrConnection)
	assert.NotContains(t, err.Error(), "--ssl-no-verify",
		"plain connection refusal must not blame certificates")
}

func TestSessionContextCancellation(t *testing.T) {
	ts := startFakeRouter(t, newFakeRouter())
	session := newTestSession(t, ts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.get(ctx, session.urlLogin)
	assert.Error(t, err)
}

func TestRawResponseIsJSON(t *testing.T) {
	cases := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"text/html", false},
		{"", false},
	}
	for _, tc := range cases {
		resp := &rawResponse{contentType: tc.contentType}
		assert.Equal(t, tc.want, resp.isJSON(), tc.contentType)
	}
}
