package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/config"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config defines sessions service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"SESSIONS_HTTP_PORT"`
	} `yaml:"http"`
	Storage struct {
		Driver   string `yaml:"driver" env:"SESSIONS_STORAGE_DRIVER"`
		SeedFile string `yaml:"seedFile" env:"SESSIONS_SEED_FILE"`
	} `yaml:"storage"`
	Database struct {
		DSN string `yaml:"dsn" env:"SESSIONS_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"SESSIONS_REDIS_ADDR"`
		Password string `yaml:"password" env:"SESSIONS_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"SESSIONS_REDIS_DB"`
	} `yaml:"redis"`
	Pricing struct {
		CacheTTL time.Duration `yaml:"cacheTTL" env:"SESSIONS_PRICING_CACHE_TTL"`
	} `yaml:"pricing"`
	Operation struct {
		Timeout time.Duration `yaml:"timeout" env:"SESSIONS_OPERATION_TIMEOUT"`
	} `yaml:"operation"`
	Board struct {
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"SESSIONS_BOARD_WRITE_TIMEOUT"`
	} `yaml:"board"`
	JWT struct {
		Secret string `yaml:"secret" env:"SESSIONS_JWT_SECRET"`
	} `yaml:"jwt"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8082"
	cfg.Storage.Driver = DriverPostgres
	cfg.Pricing.CacheTTL = 5 * time.Minute
	cfg.Operation.Timeout = 5 * time.Second
	cfg.Board.WriteTimeout = 10 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch cfg.Storage.Driver {
	case DriverPostgres:
		if strings.TrimSpace(cfg.Database.DSN) == "" {
			return nil, errors.New("config: database dsn required")
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("config: unknown storage driver %q", cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if cfg.Operation.Timeout <= 0 {
		return nil, errors.New("config: operation timeout must be positive")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8082"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// RedisEnabled reports whether a redis address is configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}
