// Package config loads the catalog API's configuration from environment
// variables. There is no config file proper: every setting is sourced from
// the environment per the documented variable names, with defaults applied
// when a variable is unset or empty. A .env file in the working directory
// is merged into the environment first, unless DISABLE_DOTENV is set.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration for the catalog API daemon.
type Config struct {
	Database DatabaseConfig
	Provider ProviderConfig
	Backfill BackfillConfig
	Server   ServerConfig
	CORS     CORSConfig
	RateLimit RateLimitConfig
	Compression CompressionConfig
}

type DatabaseConfig struct {
	Path string
}

type ProviderConfig struct {
	APIKey string
	Proxy  string
	// RPS is the total outbound rate shared by the foreground and
	// background token buckets (§4.2).
	RPS int
	// ForegroundRPS is the requested foreground bucket rate; it is
	// clamped to RPS-1 at wiring time.
	ForegroundRPS int
}

type BackfillConfig struct {
	Workers     int
	QueueLimit  int
	TTL         time.Duration
}

type ServerConfig struct {
	BindAddr        string
	HTTPPort        int
	HTTPSPort       int
	TLSCert         string
	TLSKey          string
	ConnTimeout     time.Duration
	WriteTimeout    time.Duration
}

type CORSConfig struct {
	AllowHosts     map[string]bool
	AllowLocalhost bool
}

type RateLimitConfig struct {
	RPS   float64
	Burst float64
}

type CompressionConfig struct {
	ForceGzip      bool
	BrotliQuality  int
}

// Load reads configuration from the environment, applying defaults and
// returning an error (a *ConfigError) when a value is present but invalid.
func Load() (*Config, error) {
	if !getEnvBool("DISABLE_DOTENV") {
		// Missing .env is the common case (production deploys set the
		// environment directly) and isn't an error; godotenv.Load only
		// fails loudly on a malformed file.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, &ConfigError{Errors: []string{fmt.Sprintf(".env: %s", err)}}
		}
	}

	var errs []string

	cfg := &Config{
		Database: DatabaseConfig{
			Path: getEnvDefault("CATALOG_DB", "./catalog.db"),
		},
		Provider: ProviderConfig{
			APIKey:        os.Getenv("TMDB_API_KEY"),
			Proxy:         os.Getenv("TMDB_PROXY"),
			RPS:           getEnvInt("TMDB_RPS", 47, &errs),
			ForegroundRPS: getEnvInt("TMDB_RPS_FOREGROUND", 7, &errs),
		},
		Backfill: BackfillConfig{
			Workers:    getEnvInt("BACKFILL_WORKERS", 8, &errs),
			QueueLimit: getEnvInt("BACKFILL_QUEUE_LIMIT", 2000, &errs),
			TTL:        10 * time.Minute,
		},
		Server: ServerConfig{
			BindAddr:     getEnvDefault("BIND_ADDR", "0.0.0.0"),
			HTTPPort:     getEnvInt("HTTP_PORT", 8080, &errs),
			HTTPSPort:    getEnvInt("HTTPS_PORT", 0, &errs),
			TLSCert:      os.Getenv("TLS_CERT"),
			TLSKey:       os.Getenv("TLS_KEY"),
			ConnTimeout:  time.Duration(getEnvInt("CONN_TIMEOUT_S", 15, &errs)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT_S", 15, &errs)) * time.Second,
		},
		CORS: CORSConfig{
			AllowHosts:     parseHostSet(os.Getenv("CORS_ALLOW_HOSTS")),
			AllowLocalhost: getEnvBool("CORS_ALLOW_LOCALHOST"),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 3, &errs),
			Burst: getEnvFloat("RATE_LIMIT_BURST", 120, &errs),
		},
		Compression: CompressionConfig{
			ForceGzip:     getEnvBool("FORCE_GZIP"),
			BrotliQuality: clamp(getEnvInt("BROTLI_QUALITY", 5, &errs), 0, 11),
		},
	}

	if len(errs) > 0 {
		return nil, &ConfigError{Errors: errs}
	}
	if moreErrs := cfg.Validate(); len(moreErrs) > 0 {
		return nil, &ConfigError{Errors: moreErrs}
	}
	return cfg, nil
}

// HasProvider reports whether a Provider API key is configured.
func (c *Config) HasProvider() bool {
	return c.Provider.APIKey != ""
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes"
}

func getEnvInt(key string, def int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func getEnvFloat(key string, def float64, errs *[]string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid number %q", key, v))
		return def
	}
	return n
}

func parseHostSet(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, h := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			set[h] = true
		}
	}
	return set
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
