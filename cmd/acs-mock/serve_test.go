package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/acsign"
	"github.com/sagarc03/acsign/config"
	"github.com/sagarc03/acsign/database"
	"github.com/sagarc03/acsign/keybackend"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)
	cfg.Auth.Keys = keybackend.KeysConfig{
		Inline: []keybackend.KeyPair{{AccessKeyID: "test-id", AccessKeySecret: "test-secret"}},
	}
	return cfg
}

func signedRequest(t *testing.T, nonce string) *http.Request {
	t.Helper()

	signer := acsign.NewSigner(acsign.WithNonceSource(func() string { return nonce }))
	signed, err := signer.Sign(acsign.Request{
		Method:  http.MethodGet,
		Host:    "example.com",
		Action:  "DescribeDomains",
		Version: "2015-01-09",
	}, acsign.Credentials{AccessKeyID: "test-id", AccessKeySecret: "test-secret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", http.NoBody)
	req.Header = signed.Header.Clone()
	return req
}

func TestNewVerifier_AuthDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Required = false

	verifier, cleanup, err := newVerifier(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, verifier)
	assert.Equal(t, "none", nonceStoreName(cfg))
}

func TestNewVerifier_WithoutNonceStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Nonce.Enabled = false

	verifier, cleanup, err := newVerifier(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, verifier)

	const nonce = "ABCDEFGHIJKLMNOPQRSTUVWXYZ012345"
	for range 2 {
		id, err := verifier.Verify(context.Background(), signedRequest(t, nonce))
		require.NoError(t, err, "replays pass without a nonce store")
		assert.Equal(t, "test-id", id)
	}
}

func TestNewVerifier_SQLiteNonceStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database = database.Config{
		Type:  database.TypeSQLite,
		DSN:   filepath.Join(t.TempDir(), "nonces.db"),
		Table: database.DefaultTable,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	verifier, cleanup, err := newVerifier(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, verifier)
	assert.Equal(t, database.TypeSQLite, nonceStoreName(cfg))

	const nonce = "ABCDEFGHIJKLMNOPQRSTUVWXYZ012345"
	_, err = verifier.Verify(ctx, signedRequest(t, nonce))
	require.NoError(t, err)

	_, err = verifier.Verify(ctx, signedRequest(t, nonce))
	assert.ErrorIs(t, err, acsign.ErrNonceReused)
}

func TestNewVerifier_Errors(t *testing.T) {
	t.Run("missing keys file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Auth.Keys.File = filepath.Join(t.TempDir(), "keys.json")

		_, cleanup, err := newVerifier(context.Background(), cfg)
		require.Error(t, err)
		cleanup()
	})

	t.Run("bad nonce store", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Database = database.Config{Type: database.TypeSQLite, DSN: "file:x.db", Table: "bad-name"}

		_, cleanup, err := newVerifier(context.Background(), cfg)
		require.Error(t, err)
		cleanup()
	})
}

func TestNewVerifier_MaxSkew(t *testing.T) {
	cfg := testConfig(t)
	cfg.Nonce.Enabled = false
	cfg.Auth.MaxSkew = time.Minute

	verifier, cleanup, err := newVerifier(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	req := signedRequest(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ012345")
	req.Header.Set(acsign.HeaderDate, time.Now().UTC().Add(-2*time.Minute).Format(acsign.DateTimeFormat))

	_, err = verifier.Verify(context.Background(), req)
	assert.ErrorIs(t, err, acsign.ErrUnauthorized)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}
