package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "github.com/Sathwik84/charge-ease-find/libs/config"
)

// Config defines the charge-ease service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"CHARGEEASE_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"CHARGEEASE_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"CHARGEEASE_REDIS_ADDR"`
		Password string `yaml:"password" env:"CHARGEEASE_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"CHARGEEASE_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"CHARGEEASE_REDIS_TTL"`
	} `yaml:"redis"`
	Directory struct {
		BaseURL        string `yaml:"baseUrl" env:"CHARGEEASE_DIRECTORY_URL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" env:"CHARGEEASE_DIRECTORY_TIMEOUT"`
	} `yaml:"directory"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret" env:"CHARGEEASE_JWT_SECRET"`
	} `yaml:"auth"`
	Booking struct {
		UnitsPerHour        float64 `yaml:"unitsPerHour" env:"CHARGEEASE_UNITS_PER_HOUR"`
		ConfirmCloseSeconds int     `yaml:"confirmCloseSeconds" env:"CHARGEEASE_CONFIRM_CLOSE_SECONDS"`
		GatewayDelayMillis  int     `yaml:"gatewayDelayMillis" env:"CHARGEEASE_GATEWAY_DELAY_MILLIS"`
	} `yaml:"booking"`
	Filter struct {
		MaxDistanceKm float64 `yaml:"maxDistanceKm" env:"CHARGEEASE_MAX_DISTANCE_KM"`
	} `yaml:"filter"`
}

// Load reads configuration via the shared helper and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = 3600
	cfg.Directory.TimeoutSeconds = 10
	cfg.Booking.UnitsPerHour = 25
	cfg.Booking.ConfirmCloseSeconds = 3
	cfg.Booking.GatewayDelayMillis = 1000
	cfg.Filter.MaxDistanceKm = 10

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if cfg.Booking.UnitsPerHour <= 0 {
		return nil, errors.New("config: units per hour must be positive")
	}
	if cfg.Filter.MaxDistanceKm <= 0 {
		return nil, errors.New("config: max distance must be positive")
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

// SessionTTL returns the redis mirror TTL as duration.
func (c *Config) SessionTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// DirectoryTimeout returns the directory request timeout as duration.
func (c *Config) DirectoryTimeout() time.Duration {
	if c.Directory.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Directory.TimeoutSeconds) * time.Second
}

// ConfirmCloseDelay returns how long a confirmed booking stays visible.
func (c *Config) ConfirmCloseDelay() time.Duration {
	if c.Booking.ConfirmCloseSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.Booking.ConfirmCloseSeconds) * time.Second
}

// GatewayDelay returns the stub gateway's simulated processing time.
func (c *Config) GatewayDelay() time.Duration {
	if c.Booking.GatewayDelayMillis < 0 {
		return 0
	}
	return time.Duration(c.Booking.GatewayDelayMillis) * time.Millisecond
}
