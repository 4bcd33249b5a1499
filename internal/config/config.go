package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const DefaultJWTSecret = "dev-secret-change-me"

type R2Config struct {
	AccountID       string `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	Bucket          string `env:"R2_BUCKET"`
	PublicURL       string `env:"R2_PUBLIC_URL"`
}

// Enabled reports whether every value needed to reach the bucket is present.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" &&
		c.Bucket != "" && c.PublicURL != ""
}

type EmailConfig struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromAddress  string `env:"EMAIL_FROM_ADDRESS"`
	FromName     string `env:"EMAIL_FROM_NAME" envDefault:"City Events"`
}

func (c EmailConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.FromAddress != ""
}

type DatabaseConfig struct {
	URL                string        `env:"DATABASE_URL"`
	MaxOpenConns       int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns       int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MigrateMaxAttempts int           `env:"MIGRATE_MAX_ATTEMPTS" envDefault:"30"`
	MigrateRetryDelay  time.Duration `env:"MIGRATE_RETRY_INTERVAL" envDefault:"2s"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"12h"`
	AdminCode string        `env:"ADMIN_CODE"`
	// ListingFlagsRequireAdmin restricts includeUnpublished/includeBlocked to ADMIN callers.
	ListingFlagsRequireAdmin bool `env:"LISTING_FLAGS_REQUIRE_ADMIN" envDefault:"true"`
	RateLimitPerMinute       int  `env:"AUTH_RATE_LIMIT_PER_MINUTE" envDefault:"20"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type Config struct {
	Host        string `env:"HOST" envDefault:"0.0.0.0"`
	Port        int    `env:"PORT" envDefault:"3000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	CORSOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`

	Database DatabaseConfig
	Auth     AuthConfig
	Logging  LoggingConfig
	R2       R2Config
	Email    EmailConfig
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Auth.JWTExpiry <= 0 {
		return errors.New("JWT_EXPIRY must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UsesDefaultSecret is true when JWT_SECRET was left at its development value.
func (c *Config) UsesDefaultSecret() bool {
	return c.Auth.JWTSecret == DefaultJWTSecret
}
