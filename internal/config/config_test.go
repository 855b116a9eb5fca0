package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_BACKEND", "PASSWORD_HASHER", "BCRYPT_COST", "SHUTDOWN_TIMEOUT", "TRACING_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, HasherSHA256, cfg.PasswordHasher)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.TracingEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("PASSWORD_HASHER", "bcrypt")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_SAMPLE_RATE", "0.25")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("READINESS_DRAIN_DELAY", "2s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.StoreBackend)
	assert.Equal(t, HasherBcrypt, cfg.PasswordHasher)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.TracingEnabled)
	assert.InDelta(t, 0.25, cfg.TracingSampleRate, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2*time.Second, cfg.ReadinessDrainDelay)
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "lots")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:              "8000",
			StoreBackend:      StoreMemory,
			PasswordHasher:    HasherSHA256,
			BcryptCost:        10,
			TracingSampleRate: 1,
			ShutdownTimeout:   time.Second,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"unknown backend", func(c *Config) { c.StoreBackend = "postgres" }},
		{"unknown hasher", func(c *Config) { c.PasswordHasher = "md5" }},
		{"bcrypt cost too low", func(c *Config) { c.PasswordHasher = HasherBcrypt; c.BcryptCost = 1 }},
		{"sample rate above one", func(c *Config) { c.TracingSampleRate = 1.5 }},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, valid().Validate())
}
