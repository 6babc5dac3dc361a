package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/epidemic-tally/internal/epidemic/sources"
	"github.com/i474232898/epidemic-tally/internal/store"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"UPSTREAM_BASE_URL", "CACHE_BACKEND", "CACHE_DIR", "HTTP_TIMEOUT", "PREFETCH_INTERVAL",
		"PREFETCH_DAYS", "PREFETCH_COUNTRIES", "BREAKER_TIMEOUT", "BREAKER_FAILURES", "PORT", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, sources.DefaultBaseURL, cfg.UpstreamBaseURL)
	require.Equal(t, store.BackendFile, cfg.CacheBackend)
	require.Equal(t, "cache", cfg.CacheDir)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 6*time.Hour, cfg.PrefetchInterval)
	require.Equal(t, 3, cfg.PrefetchDays)
	require.Equal(t, uint32(5), cfg.BreakerFailures)
	require.Equal(t, "8080", cfg.Port)
	require.False(t, cfg.LogJSON)
	require.Empty(t, cfg.PrefetchCountries)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "sqlite")
	t.Setenv("CACHE_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("SENTINEL_COUNTRY", "")
	t.Setenv("PREFETCH_COUNTRIES", "Singapore; Korea, South;;")
	t.Setenv("HTTP_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, store.Options{Backend: "sqlite", Dir: cfg.CacheDir, SQLitePath: "/tmp/x.db"}, cfg.StoreOptions())
	require.Equal(t, "", cfg.SentinelCountry)
	require.Equal(t, []string{"Singapore", "Korea, South"}, cfg.PrefetchCountries)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("CACHE_BACKEND", "redis")
	_, err = Load()
	require.Error(t, err)
}
