package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CONSOLE_GATEWAY_URL", "http://gateway:8080/")
	t.Setenv("CONSOLE_HTTP_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://gateway:8080", cfg.Gateway.URL)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)

	t.Setenv("CONSOLE_GATEWAY_URL", "gateway")
	_, err = Load()
	require.Error(t, err)
}
