package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.HTTPAddr, os.Getenv("HTTP_ADDR"))
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_URL"))
	setString(&config.SecretKey, os.Getenv("JWT_SECRET"))

	if v := os.Getenv("SESSION_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionValidity = d
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		config.Production = strings.EqualFold(v, "production")
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		config.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			config.MaxUploadBytes = n
		}
	}

	setString(&config.LogBackend, os.Getenv("LOG_BACKEND"))
	setString(&config.RedisURL, os.Getenv("REDIS_URL"))
	setString(&config.S3AccessKey, os.Getenv("S3_ACCESS_KEY"))
	setString(&config.S3SecretKey, os.Getenv("S3_SECRET_KEY"))
	setString(&config.S3Bucket, os.Getenv("S3_BUCKET"))
	setString(&config.S3Region, os.Getenv("S3_REGION"))
	setString(&config.S3BaseEndpoint, os.Getenv("S3_BASE_ENDPOINT"))
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
