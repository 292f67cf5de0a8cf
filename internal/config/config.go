package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all environment-sourced settings. Loaded once at startup
// and treated as immutable afterwards.
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8000"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	JWTSecretKey             string `env:"JWT_SECRET_KEY"`
	JWTAlgorithm             string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	RefreshTokenExpireDays   int    `env:"REFRESH_TOKEN_EXPIRE_DAYS" envDefault:"7"`

	// Empty disables Google login; requests to /auth/google return 503.
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	// Empty disables the profile cache.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DatabaseDSN == "" {
		return Config{}, errors.New("DATABASE_DSN is required")
	}
	if cfg.JWTSecretKey == "" {
		return Config{}, errors.New("JWT_SECRET_KEY is required")
	}
	if cfg.AccessTokenExpireMinutes <= 0 || cfg.RefreshTokenExpireDays <= 0 {
		return Config{}, errors.New("token lifetimes must be positive")
	}

	return cfg, nil
}

// AccessTokenTTL returns the configured access-token lifetime.
func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// RefreshTokenTTL returns the configured refresh-token lifetime.
func (c Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}
