package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SESSION_VALIDITY", "48h")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("LOG_BACKEND", "zap")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("S3_BUCKET", "exports")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, ":9999", c.HTTPAddr)
	assert.Equal(t, "postgres://x", c.DatabaseDSN)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 48*time.Hour, c.SessionValidity)
	assert.True(t, c.Production)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, int64(2048), c.MaxUploadBytes)
	assert.Equal(t, "zap", c.LogBackend)
	assert.Equal(t, "redis://localhost:6379/0", c.RedisURL)
	assert.True(t, c.ExportLinksEnabled())
}

func TestParseEnv_IgnoresInvalidNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_VALIDITY", "a week")
	t.Setenv("MAX_UPLOAD_BYTES", "-5")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, 7*24*time.Hour, c.SessionValidity)
	assert.Equal(t, int64(10<<20), c.MaxUploadBytes)
}

func TestParseEnv_NonProductionAppEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "staging")

	c := &Config{Production: true}
	parseEnv(c)

	assert.False(t, c.Production)
}
