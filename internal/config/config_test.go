package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadFallsBackOnMalformedNumbers(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "soon")
	t.Setenv("STORE_SEED_DEFAULTS", "nope")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.True(t, cfg.Store.SeedDefaults)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
}
