package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	assert.Equal(t, 45, cfg.Engine.MinConnectionMinutes)
	assert.Equal(t, 24, cfg.Engine.MaxLayoverHours)
	assert.Equal(t, 8, cfg.Engine.PoolSize)
	assert.Equal(t, 5000, cfg.Engine.MaxItinerariesPerRoute)

	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "development", cfg.App.Env)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENGINE_MIN_CONNECTION_MINUTES", "60")
	t.Setenv("ENGINE_POOL_SIZE", "4")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_ADDR", "redis:6379")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Engine.MinConnectionMinutes)
	assert.Equal(t, time.Hour, cfg.Engine.MinConnection())
	assert.Equal(t, 4, cfg.Engine.PoolSize)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"negative min connection", "ENGINE_MIN_CONNECTION_MINUTES", "-1"},
		{"zero max layover", "ENGINE_MAX_LAYOVER_HOURS", "0"},
		{"zero pool size", "ENGINE_POOL_SIZE", "0"},
		{"zero itinerary ceiling", "ENGINE_MAX_ITINERARIES_PER_ROUTE", "0"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad env", "APP_ENV", "qa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MinConnectionMustBeBelowMaxLayover(t *testing.T) {
	t.Setenv("ENGINE_MIN_CONNECTION_MINUTES", "120")
	t.Setenv("ENGINE_MAX_LAYOVER_HOURS", "2")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_CacheEnabledRequiresAddr(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_ADDR", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestEngineConfig_Durations(t *testing.T) {
	e := EngineConfig{MinConnectionMinutes: 45, MaxLayoverHours: 24}
	assert.Equal(t, 45*time.Minute, e.MinConnection())
	assert.Equal(t, 24*time.Hour, e.MaxLayover())
}

func TestConfig_EnvPredicates(t *testing.T) {
	dev := &Config{App: AppConfig{Env: "development"}}
	prod := &Config{App: AppConfig{Env: "production"}}

	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())
	assert.True(t, prod.IsProduction())
	assert.False(t, prod.IsDevelopment())
}
