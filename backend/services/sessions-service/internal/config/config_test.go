package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SESSIONS_STORAGE_DRIVER", "Memory")
	t.Setenv("SESSIONS_JWT_SECRET", "s3cret")
	t.Setenv("SESSIONS_REDIS_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, ":8082", cfg.HTTPAddress())
	assert.Equal(t, 5*time.Minute, cfg.Pricing.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Operation.Timeout)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SESSIONS_POSTGRES_DSN", "postgres://localhost/billiards")
	t.Setenv("SESSIONS_JWT_SECRET", "s3cret")
	t.Setenv("SESSIONS_HTTP_PORT", ":9090")
	t.Setenv("SESSIONS_OPERATION_TIMEOUT", "2s")
	t.Setenv("SESSIONS_REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSIONS_STORAGE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, 2*time.Second, cfg.Operation.Timeout)
	assert.True(t, cfg.RedisEnabled())
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SESSIONS_JWT_SECRET", "s3cret")
	t.Setenv("SESSIONS_STORAGE_DRIVER", "postgres")
	t.Setenv("SESSIONS_POSTGRES_DSN", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("SESSIONS_STORAGE_DRIVER", "sqlite")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("SESSIONS_STORAGE_DRIVER", "memory")
	t.Setenv("SESSIONS_JWT_SECRET", "")
	_, err = Load()
	require.Error(t, err)
}
