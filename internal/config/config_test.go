package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/events")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 12*time.Hour, cfg.Auth.JWTExpiry)
	assert.True(t, cfg.Auth.ListingFlagsRequireAdmin)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.Equal(t, "0.0.0.0:3000", cfg.ServerAddr())
	assert.False(t, cfg.R2.Enabled())
	assert.False(t, cfg.Email.Enabled())
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := &Config{Port: 3000, Auth: AuthConfig{JWTSecret: "s", JWTExpiry: time.Hour}}
	assert.EqualError(t, cfg.Validate(), "DATABASE_URL is required")
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := &Config{
		Port:     70000,
		Database: DatabaseConfig{URL: "postgres://x"},
		Auth:     AuthConfig{JWTSecret: "s", JWTExpiry: time.Hour},
	}
	assert.Error(t, cfg.Validate())
}

func TestOverridesFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/events")
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("LISTING_FLAGS_REQUIRE_ADMIN", "false")
	t.Setenv("ADMIN_CODE", "letmein")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.JWTExpiry)
	assert.False(t, cfg.Auth.ListingFlagsRequireAdmin)
	assert.Equal(t, "letmein", cfg.Auth.AdminCode)
}

func TestNewLoggerFallsBackOnUnknownLevel(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "loud", Format: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(0))
	assert.False(t, logger.Core().Enabled(-1))
}
