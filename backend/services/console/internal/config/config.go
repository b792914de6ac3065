package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	libconfig "github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/config"
)

// Config defines console configuration.
type Config struct {
	Gateway struct {
		URL string `yaml:"url" env:"CONSOLE_GATEWAY_URL"`
	} `yaml:"gateway"`
	HTTP struct {
		Timeout time.Duration `yaml:"timeout" env:"CONSOLE_HTTP_TIMEOUT"`
	} `yaml:"http"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.Gateway.URL = "http://localhost:8080"
	cfg.HTTP.Timeout = 10 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	cfg.Gateway.URL = strings.TrimRight(strings.TrimSpace(cfg.Gateway.URL), "/")
	u, err := url.Parse(cfg.Gateway.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("config: gateway url must be absolute")
	}
	if cfg.HTTP.Timeout <= 0 {
		return nil, errors.New("config: http timeout must be positive")
	}
	return cfg, nil
}
