package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"endpoint_addr_grpc":        "www.example:9000",
		"database_dsn":              "postgres://db",
		"secret_key":                "my_secret_key",
		"bible_api_base_url":        "http://provider",
		"bible_api_username":        "user",
		"bible_api_password":        "password",
		"bible_api_timeout":         "7s",
		"credential_refresh_window": "45m",
		"warning_webhook_url":       "http://hook",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", full}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, "http://provider", cfg.BibleAPIBaseURL)
		assert.Equal(t, "user", cfg.BibleAPIUsername)
		assert.Equal(t, "password", cfg.BibleAPIPassword)
		assert.Equal(t, 7*time.Second, cfg.BibleAPITimeout)
		assert.Equal(t, 45*time.Minute, cfg.CredentialRefreshWindow)
		assert.Equal(t, "http://hook", cfg.WarningWebhookURL)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"bible_api_username": "svc",
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "svc", cfg.BibleAPIUsername)
		assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
		assert.Equal(t, 10*time.Second, cfg.BibleAPITimeout)
	})

	t.Run("no config flag, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{BibleAPIBaseURL: "http://keep", BibleAPITimeout: time.Second}
		parseJson(cfg)

		assert.Equal(t, "http://keep", cfg.BibleAPIBaseURL)
		assert.Equal(t, time.Second, cfg.BibleAPITimeout)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
