package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "github.com/aklilumengesha/Battery-Swap/libs/config"
)

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"SWAP_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"SWAP_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr" env:"SWAP_REDIS_ADDR"`
		Password string        `yaml:"password" env:"SWAP_REDIS_PASSWORD"`
		DB       int           `yaml:"db" env:"SWAP_REDIS_DB"`
		CacheTTL time.Duration `yaml:"cacheTTL" env:"SWAP_REDIS_CACHE_TTL"`
	} `yaml:"redis"`
	JWT struct {
		Secret                  string `yaml:"secret" env:"SWAP_JWT_SECRET"`
		AccessExpiresInMinutes  int    `yaml:"accessExpiresInMinutes" env:"SWAP_JWT_ACCESS_EXPIRES_MINUTES"`
		RefreshExpiresInMinutes int    `yaml:"refreshExpiresInMinutes" env:"SWAP_JWT_REFRESH_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8000"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.CacheTTL = 2 * time.Minute
	cfg.JWT.AccessExpiresInMinutes = 60
	cfg.JWT.RefreshExpiresInMinutes = 24 * 60

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.AccessExpiresInMinutes <= 0 {
		cfg.JWT.AccessExpiresInMinutes = 60
	}
	if cfg.JWT.RefreshExpiresInMinutes <= 0 {
		cfg.JWT.RefreshExpiresInMinutes = 24 * 60
	}
	if cfg.Redis.CacheTTL <= 0 {
		cfg.Redis.CacheTTL = 2 * time.Minute
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// AccessExpiration converts configured access token expiry to duration.
func (c *Config) AccessExpiration() time.Duration {
	if c.JWT.AccessExpiresInMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWT.AccessExpiresInMinutes) * time.Minute
}

// RefreshExpiration converts configured refresh token expiry to duration.
func (c *Config) RefreshExpiration() time.Duration {
	if c.JWT.RefreshExpiresInMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWT.RefreshExpiresInMinutes) * time.Minute
}
