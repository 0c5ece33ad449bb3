package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/contactshare/internal/flagx"
	"github.com/dmitrijs2005/contactshare/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Pointer fields distinguish
// "absent" from zero values so a partial file only overrides what it names.
type JsonConfig struct {
	HTTPAddr        string          `json:"http_addr"`
	DatabaseDSN     string          `json:"database_dsn"`
	SecretKey       string          `json:"secret_key"`
	SessionValidity *timex.Duration `json:"session_validity"`
	Production      *bool           `json:"production"`
	AllowedOrigins  []string        `json:"allowed_origins"`
	MaxUploadBytes  int64           `json:"max_upload_bytes"`
	LogBackend      string          `json:"log_backend"`
	RedisURL        string          `json:"redis_url"`
	S3AccessKey     string          `json:"s3_access_key"`
	S3SecretKey     string          `json:"s3_secret_key"`
	S3Bucket        string          `json:"s3_bucket"`
	S3Region        string          `json:"s3_region"`
	S3BaseEndpoint  string          `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file named by -c/-config. Nothing is
// loaded when the flag is absent; an unreadable or invalid file panics, since
// the server cannot start with a config it was explicitly pointed at.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionValidity != nil {
		config.SessionValidity = c.SessionValidity.Duration
	}
	if c.Production != nil {
		config.Production = *c.Production
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
