package config

import "fmt"

// Validate checks the configuration for errors. Returns a slice of error
// messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "CATALOG_DB: required")
	}

	if p := c.Server.HTTPPort; p != 0 && (p < 1 || p > 65535) {
		errs = append(errs, fmt.Sprintf("HTTP_PORT: must be between 1 and 65535, got %d", p))
	}
	if p := c.Server.HTTPSPort; p != 0 && (p < 1 || p > 65535) {
		errs = append(errs, fmt.Sprintf("HTTPS_PORT: must be between 1 and 65535, got %d", p))
	}
	if c.Server.HTTPSPort != 0 && (c.Server.TLSCert == "" || c.Server.TLSKey == "") {
		errs = append(errs, "TLS_CERT and TLS_KEY: required when HTTPS_PORT is set")
	}

	if c.Provider.RPS < 0 {
		errs = append(errs, "TMDB_RPS: must be non-negative")
	}
	if c.Provider.ForegroundRPS < 0 {
		errs = append(errs, "TMDB_RPS_FOREGROUND: must be non-negative")
	}

	if c.Backfill.Workers < 1 {
		errs = append(errs, "BACKFILL_WORKERS: must be at least 1")
	}
	if c.Backfill.QueueLimit < 1 {
		errs = append(errs, "BACKFILL_QUEUE_LIMIT: must be at least 1")
	}

	if c.RateLimit.RPS < 0 {
		errs = append(errs, "RATE_LIMIT_RPS: must be non-negative")
	}
	if c.RateLimit.Burst < 0 {
		errs = append(errs, "RATE_LIMIT_BURST: must be non-negative")
	}

	return errs
}
