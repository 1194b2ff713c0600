package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryDriverDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SEED_CONTENT_TYPES", " Advert , ,Article")
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "MAGAZINE_DEFAULT_PAGES", "EVENTS_QUEUE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 32, cfg.DefaultPages)
	assert.Equal(t, []string{"Advert", "Article"}, cfg.SeedContentTypes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "bookings.ledger", cfg.Events.Queue)
}

func TestLoad_ReportsAllProblems(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("MAGAZINE_DEFAULT_PAGES", "0")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"JWT_SECRET", "DB_USER", "DB_HOST", "DB_NAME", "MAGAZINE_DEFAULT_PAGES"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("BOOKINGS_DOTENV_PROBE=from-file\n"), 0o600))
	t.Setenv("BOOKINGS_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("BOOKINGS_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("BOOKINGS_DOTENV_PROBE"))
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 10*time.Second, rl.TTL)
}

func TestEnvBool(t *testing.T) {
	for v, want := range map[string]bool{"1": true, "TRUE": true, "on": true, "off": false, "0": false, "junk": true} {
		t.Setenv("BOOKINGS_BOOL_PROBE", v)
		assert.Equal(t, want, envBool("BOOKINGS_BOOL_PROBE", true), v)
	}
}
