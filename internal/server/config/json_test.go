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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads from json", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"http_addr":        "www.example:9000",
			"database_dsn":     "contacts.db",
			"secret_key":       "my_secret_key",
			"session_validity": "24h",
			"production":       true,
			"allowed_origins":  []string{"https://app.example"},
			"max_upload_bytes": 1024,
			"log_backend":      "zap",
			"redis_url":        "redis://r:6379",
			"s3_access_key":    "user",
			"s3_secret_key":    "password",
			"s3_bucket":        "bucket",
			"s3_region":        "region",
			"s3_base_endpoint": "base_endpoint",
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "contacts.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 24*time.Hour, cfg.SessionValidity)
		assert.True(t, cfg.Production)
		assert.Equal(t, []string{"https://app.example"}, cfg.AllowedOrigins)
		assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
		assert.Equal(t, "zap", cfg.LogBackend)
		assert.Equal(t, "redis://r:6379", cfg.RedisURL)
		assert.Equal(t, "user", cfg.S3AccessKey)
		assert.Equal(t, "password", cfg.S3SecretKey)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"http_addr": ":7777"})
		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":7777", cfg.HTTPAddr)
		assert.Equal(t, DefaultSecretKey, cfg.SecretKey)
		assert.Equal(t, 7*24*time.Hour, cfg.SessionValidity)
	})

	t.Run("no flag, nothing loaded", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{HTTPAddr: ":1"}
		parseJson(cfg)

		assert.Equal(t, ":1", cfg.HTTPAddr)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "absent.json")}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid json panics", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", path}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}
