package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/getyourdepa/depa-cms/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes rootCmd with fresh flag state and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	slugZone = false
	configPath = ""
	tokenTTL = 12 * time.Hour

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSlugCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"accented title", []string{"slug", "Casa en Coyoacán"}, "casa-en-coyoacan"},
		{"words joined", []string{"slug", "Depto", "en", "Renta"}, "depto-en-renta"},
		{"zone path", []string{"slug", "--zone", "Roma Norte"}, "/zones/roma-norte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlugCommand_RequiresTitle(t *testing.T) {
	_, err := run(t, "slug")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("AUTH_PROVIDER", "hmac")
	t.Setenv("ADMIN_UID", "local-admin")
	t.Setenv("AUTH_HMAC_SECRET", "cmsctl-secret")
	path := writeConfig(t, `
database: {driver: sqlite, dsn: "file::memory:"}
storage: {driver: s3, bucket: depa-media}
auth: {provider: hmac, admin_uid: local-admin, hmac_secret: cmsctl-secret, hmac_issuer: depa-cms}
`)

	token, err := run(t, "token", "--config", path, "--ttl", "5m")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := identity.NewHMACVerifier("cmsctl-secret", "depa-cms").Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "local-admin", sub)

	_, err = identity.NewHMACVerifier("other-secret", "depa-cms").Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestTokenCommand_RejectsOtherProviders(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "jwks")
	t.Setenv("ADMIN_UID", "local-admin")
	t.Setenv("AUTH_JWKS_URL", "https://auth.test/.well-known/jwks.json")
	path := writeConfig(t, `
database: {driver: sqlite, dsn: "file::memory:"}
storage: {driver: s3, bucket: depa-media}
auth: {provider: jwks, admin_uid: local-admin, jwks: {url: "https://auth.test/.well-known/jwks.json"}}
`)

	out, err := run(t, "token", "-c", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.provider=hmac")
	assert.Empty(t, out)
}
