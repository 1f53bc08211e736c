package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 300*time.Millisecond, cfg.MockLatencyMin)
	assert.Equal(t, 700*time.Millisecond, cfg.MockLatencyMax)
	assert.Equal(t, int64(0), cfg.SimSeed)
	assert.Empty(t, cfg.RedisURL)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("MOCK_LATENCY_MIN_MS", "5")
	t.Setenv("MOCK_LATENCY_MAX_MS", "10")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://dash.example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, int64(42), cfg.SimSeed)
	assert.Equal(t, 5*time.Millisecond, cfg.MockLatencyMin)
	assert.Equal(t, 10*time.Millisecond, cfg.MockLatencyMax)
	assert.Equal(t, []string{"http://localhost:3000", "https://dash.example.com"}, cfg.AllowedOrigins)
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SIM_SEED", "not-a-number")
	cfg := Load()
	assert.Equal(t, int64(0), cfg.SimSeed)
}
