package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CATALOG_DB", "TMDB_API_KEY", "TMDB_PROXY", "TMDB_RPS", "TMDB_RPS_FOREGROUND",
		"BACKFILL_WORKERS", "BACKFILL_QUEUE_LIMIT", "BIND_ADDR", "HTTP_PORT", "HTTPS_PORT",
		"TLS_CERT", "TLS_KEY", "CORS_ALLOW_HOSTS", "CORS_ALLOW_LOCALHOST",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CONN_TIMEOUT_S", "WRITE_TIMEOUT_S",
		"FORCE_GZIP", "BROTLI_QUALITY", "DISABLE_DOTENV",
	} {
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./catalog.db", cfg.Database.Path)
	assert.Equal(t, 47, cfg.Provider.RPS)
	assert.Equal(t, 7, cfg.Provider.ForegroundRPS)
	assert.Equal(t, 8, cfg.Backfill.Workers)
	assert.Equal(t, 2000, cfg.Backfill.QueueLimit)
	assert.False(t, cfg.HasProvider())
	assert.False(t, cfg.CORS.AllowLocalhost)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TMDB_API_KEY", "secret")
	t.Setenv("TMDB_RPS", "10")
	t.Setenv("CORS_ALLOW_HOSTS", "example.com, other.org")
	t.Setenv("CORS_ALLOW_LOCALHOST", "true")
	t.Setenv("BROTLI_QUALITY", "99")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.HasProvider())
	assert.Equal(t, 10, cfg.Provider.RPS)
	assert.True(t, cfg.CORS.AllowHosts["example.com"])
	assert.True(t, cfg.CORS.AllowHosts["other.org"])
	assert.True(t, cfg.CORS.AllowLocalhost)
	assert.Equal(t, 11, cfg.Compression.BrotliQuality, "brotli quality clamps to 11")
}

func TestLoadInvalidInteger(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.True(t, cerr.HasErrors())
}

func TestValidateHTTPSRequiresCert(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTPS_PORT", "8443")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadMergesDotenv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("CATALOG_DB=/from/dotenv.db\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv.db", cfg.Database.Path)
}

func TestLoadDisableDotenvSkipsFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("CATALOG_DB=/from/dotenv.db\n"), 0o644))
	t.Setenv("DISABLE_DOTENV", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./catalog.db", cfg.Database.Path)
}
