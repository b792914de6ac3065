package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_GATEWAY_JWT_SECRET", "s3cret")
	t.Setenv("API_GATEWAY_HTTP_TIMEOUT", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 5, cfg.Login.Burst)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_GATEWAY_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}
