package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/config"
)

// Config defines gateway configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"API_GATEWAY_HTTP_PORT"`
	} `yaml:"http"`
	JWT struct {
		Secret string `yaml:"secret" env:"API_GATEWAY_JWT_SECRET"`
	} `yaml:"jwt"`
	Services struct {
		AuthURL     string `yaml:"authUrl" env:"AUTH_SERVICE_URL"`
		SessionsURL string `yaml:"sessionsUrl" env:"SESSIONS_SERVICE_URL"`
	} `yaml:"services"`
	HTTPClient struct {
		Timeout time.Duration `yaml:"timeout" env:"API_GATEWAY_HTTP_TIMEOUT"`
	} `yaml:"httpClient"`
	Login struct {
		RatePerSecond float64 `yaml:"ratePerSecond" env:"API_GATEWAY_LOGIN_RATE"`
		Burst         int     `yaml:"burst" env:"API_GATEWAY_LOGIN_BURST"`
	} `yaml:"login"`
}

// Load configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Services.AuthURL = "http://localhost:8081"
	cfg.Services.SessionsURL = "http://localhost:8082"
	cfg.HTTPClient.Timeout = 5 * time.Second
	cfg.Login.RatePerSecond = 0.2
	cfg.Login.Burst = 5

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if cfg.Login.RatePerSecond <= 0 {
		return nil, errors.New("config: login rate must be positive")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// HTTPTimeout returns http client timeout.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPClient.Timeout <= 0 {
		return 5 * time.Second
	}
	return c.HTTPClient.Timeout
}
