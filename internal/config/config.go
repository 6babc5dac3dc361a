package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/epidemic-tally/internal/common"
	"github.com/i474232898/epidemic-tally/internal/epidemic"
	"github.com/i474232898/epidemic-tally/internal/epidemic/sources"
	"github.com/i474232898/epidemic-tally/internal/store"
)

type AppConfig struct {
	// UpstreamBaseURL is the directory holding the <mm-dd-yyyy>.csv reports.
	UpstreamBaseURL string
	HTTPTimeout     time.Duration

	// Circuit breaker around the upstream.
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	// Report cache.
	CacheBackend    string
	CacheDir        string
	CacheSQLitePath string

	// SentinelCountry must appear in every aggregated report ("" disables the check).
	SentinelCountry string

	// Cache warm-up.
	PrefetchInterval time.Duration
	PrefetchDays     int
	// PrefetchCountries limits the warm-up log summary to these countries,
	// separated by ";" since upstream names may contain commas.
	PrefetchCountries []string

	LogJSON bool
	Port    string
}

// Load reads configuration from .env and the environment with sensible defaults.
func Load() (*AppConfig, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	cfg := &AppConfig{
		UpstreamBaseURL: getenvDefault("UPSTREAM_BASE_URL", sources.DefaultBaseURL),
		CacheBackend:    getenvDefault("CACHE_BACKEND", store.BackendFile),
		CacheDir:        getenvDefault("CACHE_DIR", "cache"),
		CacheSQLitePath: getenvDefault("CACHE_SQLITE_PATH", "cache/reports.db"),
		Port:            getenvDefault("PORT", "8080"),
		LogJSON:         getenvDefault("LOG_FORMAT", "console") == "json",
	}

	sentinel, ok := os.LookupEnv("SENTINEL_COUNTRY")
	if !ok {
		sentinel = epidemic.DefaultSentinel
	}
	cfg.SentinelCountry = sentinel

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.BreakerTimeout, err = getenvDuration("BREAKER_TIMEOUT", "2m"); err != nil {
		return nil, err
	}
	if cfg.PrefetchInterval, err = getenvDuration("PREFETCH_INTERVAL", "6h"); err != nil {
		return nil, err
	}

	cfg.BreakerFailures = uint32(getenvInt("BREAKER_FAILURES", 5))
	cfg.PrefetchDays = getenvInt("PREFETCH_DAYS", 3)
	if cfg.PrefetchDays < 0 {
		return nil, fmt.Errorf("invalid PREFETCH_DAYS: %d", cfg.PrefetchDays)
	}
	cfg.PrefetchCountries = common.SplitList(os.Getenv("PREFETCH_COUNTRIES"), ";")

	switch cfg.CacheBackend {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	default:
		return nil, fmt.Errorf("invalid CACHE_BACKEND: %q", cfg.CacheBackend)
	}

	return cfg, nil
}

// StoreOptions maps the cache settings onto store.Open.
func (c *AppConfig) StoreOptions() store.Options {
	return store.Options{
		Backend:    c.CacheBackend,
		Dir:        c.CacheDir,
		SQLitePath: c.CacheSQLitePath,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
