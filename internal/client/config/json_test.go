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
	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"provider_endpoint": "http://127.0.0.1:9099/identitytoolkit.googleapis.com",
		"token_endpoint":    "http://127.0.0.1:9099/securetoken.googleapis.com",
		"api_key":           "fake",
		"database_path":     "/tmp/x.db",
		"request_timeout":   "5s",
		"max_retries":       0,
		"log_level":         "debug",
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-config", full})

		assert.Equal(t, "http://127.0.0.1:9099/identitytoolkit.googleapis.com", cfg.ProviderEndpoint)
		assert.Equal(t, "http://127.0.0.1:9099/securetoken.googleapis.com", cfg.TokenEndpoint)
		assert.Equal(t, "fake", cfg.APIKey)
		assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.Equal(t, uint64(0), cfg.MaxRetries)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("absent keys keep values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"log_level": "warn"})
		cfg := &Config{APIKey: "keep", RequestTimeout: 42 * time.Second, MaxRetries: 7}
		parseJson(cfg, []string{"-c", partial})

		assert.Equal(t, "keep", cfg.APIKey)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
		assert.Equal(t, uint64(7), cfg.MaxRetries)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("no flag → no changes", func(t *testing.T) {
		cfg := &Config{DatabasePath: "defaults.db"}
		parseJson(cfg, []string{"-d", "other.db"})
		assert.Equal(t, "defaults.db", cfg.DatabasePath)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		require.Panics(t, func() { parseJson(&Config{}, []string{"-config", bad}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}) })
	})
}
