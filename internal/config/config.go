// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Engine  EngineConfig
	Cache   CacheConfig
	Logging LoggingConfig
	App     AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
}

// EngineConfig holds the itinerary construction tunables.
type EngineConfig struct {
	// MinConnectionMinutes is the minimum layover between consecutive flights.
	MinConnectionMinutes int `env:"ENGINE_MIN_CONNECTION_MINUTES" envDefault:"45"`

	// MaxLayoverHours is the maximum-layover ceiling between consecutive flights.
	MaxLayoverHours int `env:"ENGINE_MAX_LAYOVER_HOURS" envDefault:"24"`

	// PoolSize bounds the number of concurrent per-skeleton compositions.
	PoolSize int `env:"ENGINE_POOL_SIZE" envDefault:"8"`

	// MaxItinerariesPerRoute caps one skeleton's search before it
	// terminates early with partial results.
	MaxItinerariesPerRoute int `env:"ENGINE_MAX_ITINERARIES_PER_ROUTE" envDefault:"5000"`
}

// MinConnection returns the minimum connection time as a duration.
func (e EngineConfig) MinConnection() time.Duration {
	return time.Duration(e.MinConnectionMinutes) * time.Minute
}

// MaxLayover returns the maximum layover ceiling as a duration.
func (e EngineConfig) MaxLayover() time.Duration {
	return time.Duration(e.MaxLayoverHours) * time.Hour
}

// CacheConfig holds the build-result cache settings.
type CacheConfig struct {
	Enabled bool          `env:"CACHE_ENABLED" envDefault:"false"`
	Addr    string        `env:"CACHE_ADDR" envDefault:"localhost:6379"`
	TTL     time.Duration `env:"CACHE_TTL" envDefault:"15m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}

	if cfg.Engine.MinConnectionMinutes < 0 {
		return fmt.Errorf("ENGINE_MIN_CONNECTION_MINUTES must not be negative, got %d", cfg.Engine.MinConnectionMinutes)
	}
	if cfg.Engine.MaxLayoverHours < 1 {
		return fmt.Errorf("ENGINE_MAX_LAYOVER_HOURS must be at least 1, got %d", cfg.Engine.MaxLayoverHours)
	}
	if time.Duration(cfg.Engine.MinConnectionMinutes)*time.Minute >= cfg.Engine.MaxLayover() {
		return fmt.Errorf("ENGINE_MIN_CONNECTION_MINUTES (%dm) must be below ENGINE_MAX_LAYOVER_HOURS (%dh)",
			cfg.Engine.MinConnectionMinutes, cfg.Engine.MaxLayoverHours)
	}
	if cfg.Engine.PoolSize < 1 {
		return fmt.Errorf("ENGINE_POOL_SIZE must be at least 1, got %d", cfg.Engine.PoolSize)
	}
	if cfg.Engine.MaxItinerariesPerRoute < 1 {
		return fmt.Errorf("ENGINE_MAX_ITINERARIES_PER_ROUTE must be at least 1, got %d", cfg.Engine.MaxItinerariesPerRoute)
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.Addr == "" {
			return fmt.Errorf("CACHE_ADDR is required when CACHE_ENABLED is true")
		}
		if cfg.Cache.TTL <= 0 {
			return fmt.Errorf("CACHE_TTL must be positive when CACHE_ENABLED is true")
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
