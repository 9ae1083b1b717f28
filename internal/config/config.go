// Package config provides environment-driven configuration for traceops.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL           Secret
	Port                  string
	ListenHost            string
	CORSOrigins           []string
	LogLevel              string
	PublicBaseURL         string
	ActivityQueueSize     int
	ActivityRetentionDays int
	MaxAttachmentBytes    int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   Secret(envOrDefault("DATABASE_URL", "")),
		Port:          envOrDefault("PORT", "4040"),
		ListenHost:    envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		PublicBaseURL: envOrDefault("PUBLIC_BASE_URL", ""),
	}

	queueSize, err := strconv.Atoi(envOrDefault("ACTIVITY_QUEUE_SIZE", "1000"))
	if err != nil || queueSize < 1 {
		return nil, fmt.Errorf("ACTIVITY_QUEUE_SIZE must be a positive integer")
	}
	cfg.ActivityQueueSize = queueSize

	retention, err := strconv.Atoi(envOrDefault("ACTIVITY_RETENTION_DAYS", "365"))
	if err != nil || retention < 1 {
		return nil, fmt.Errorf("ACTIVITY_RETENTION_DAYS must be a positive integer")
	}
	cfg.ActivityRetentionDays = retention

	maxAttachMB, err := strconv.Atoi(envOrDefault("MAX_ATTACHMENT_MB", "25"))
	if err != nil || maxAttachMB < 1 || maxAttachMB > 200 {
		return nil, fmt.Errorf("MAX_ATTACHMENT_MB must be an integer between 1 and 200")
	}
	cfg.MaxAttachmentBytes = int64(maxAttachMB) << 20

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:5173")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func (c *Config) validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	return c.validateCORS()
}

func (c *Config) validateDatabase() error {
	if c.DatabaseURL.Value() == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL must use postgres:// or postgresql:// scheme")
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be an integer between 1 and 65535")
	}

	if c.PublicBaseURL != "" {
		u, err := url.Parse(c.PublicBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("PUBLIC_BASE_URL must be an http(s) URL")
		}
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain a wildcard origin")
		}

		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q", origin)
		}
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
