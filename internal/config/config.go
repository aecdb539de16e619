// Package config loads grimoire configuration from a YAML file and
// GRIMOIRE_* environment variables. Environment values win over the file,
// and the file wins over the defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GRIMOIRE_"

// Config is the complete configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging" envPrefix:"LOGGING_"`
	Engine   EngineConfig   `mapstructure:"engine" envPrefix:"ENGINE_"`
	History  HistoryConfig  `mapstructure:"history" envPrefix:"HISTORY_"`
	Database DatabaseConfig `mapstructure:"database" envPrefix:"DATABASE_"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"LEVEL"`
	Format string `mapstructure:"format" env:"FORMAT"` // json or console
}

// EngineConfig bounds the status engine.
type EngineConfig struct {
	MaxResolutionDepth int `mapstructure:"max_resolution_depth" env:"MAX_RESOLUTION_DEPTH"`
	MaxCascadeDepth    int `mapstructure:"max_cascade_depth" env:"MAX_CASCADE_DEPTH"`
	InitialDeadVotes   int `mapstructure:"initial_dead_votes" env:"INITIAL_DEAD_VOTES"`
}

// HistoryConfig controls day-boundary snapshots.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" env:"ENABLED"`
	Dir     string `mapstructure:"dir" env:"DIR"`
}

// DatabaseConfig configures the optional snapshot store. An empty URL
// disables it.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" env:"URL"`
	MaxConns        int32         `mapstructure:"max_conns" env:"MAX_CONNS"`
	MinConns        int32         `mapstructure:"min_conns" env:"MIN_CONNS"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime" env:"MAX_CONN_LIFETIME"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" env:"CONNECT_TIMEOUT"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool { return c.URL != "" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("engine.max_resolution_depth", 32)
	v.SetDefault("engine.max_cascade_depth", 16)
	v.SetDefault("engine.initial_dead_votes", 1)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.dir", "history")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.connect_timeout", 5*time.Second)
}

// Load reads path (skipped when empty), overlays the environment and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var levels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks value ranges.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if !levels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging.format %q: want json or console", c.Logging.Format)
	}
	if c.Engine.MaxResolutionDepth < 1 {
		return fmt.Errorf("engine.max_resolution_depth must be positive, got %d", c.Engine.MaxResolutionDepth)
	}
	if c.Engine.MaxCascadeDepth < 1 {
		return fmt.Errorf("engine.max_cascade_depth must be positive, got %d", c.Engine.MaxCascadeDepth)
	}
	if c.Engine.InitialDeadVotes < 0 {
		return fmt.Errorf("engine.initial_dead_votes must not be negative, got %d", c.Engine.InitialDeadVotes)
	}
	if c.History.Enabled && c.History.Dir == "" {
		return fmt.Errorf("history.dir is required when history is enabled")
	}
	if c.Database.Enabled() && c.Database.MaxConns < 1 {
		return fmt.Errorf("database.max_conns must be positive, got %d", c.Database.MaxConns)
	}
	return nil
}
