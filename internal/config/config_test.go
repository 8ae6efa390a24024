package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_PORT", "ADMIN_USERNAME", "ADMIN_PASSWORD", "SESSION_TTL", "EVENTS_BACKEND", "EVENTS_BUFFER", "DEBUG"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8081", cfg.HTTPPort)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "memory", cfg.EventsBackend)
	assert.Equal(t, 64, cfg.EventsBuffer)
	assert.False(t, cfg.DebugLogging)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ADMIN_USERNAME", "registrar")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("EVENTS_BACKEND", "redis")
	t.Setenv("EVENTS_BUFFER", "8")
	t.Setenv("DEBUG", "1")

	cfg := Load()
	assert.True(t, cfg.Production())
	assert.Equal(t, "registrar", cfg.AdminUsername)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "redis", cfg.EventsBackend)
	assert.Equal(t, 8, cfg.EventsBuffer)
	assert.True(t, cfg.DebugLogging)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("EVENTS_BUFFER", "lots")
	t.Setenv("DEBUG", "maybe")

	cfg := Load()
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 64, cfg.EventsBuffer)
	assert.False(t, cfg.DebugLogging)
}
