package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. COILPLAN_ENGINE_CHANGEOVER_COST
const EnvPrefix = "COILPLAN"

type Config struct {
	Engine EngineConfig `mapstructure:"engine"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	State  StateConfig  `mapstructure:"state"`
	Events EventsConfig `mapstructure:"events"`
}

type EngineConfig struct {
	ChangeoverCost       float64 `mapstructure:"changeover_cost"`
	WidthTolerance       float64 `mapstructure:"width_tolerance"`
	FulfilmentThreshold  float64 `mapstructure:"fulfilment_threshold"`
	ForecastWidthMargin  float64 `mapstructure:"forecast_width_margin"`
	ForecastWeightBuffer float64 `mapstructure:"forecast_weight_buffer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type StateConfig struct {
	// File is the JSON snapshot the server loads at start and saves after
	// every change; empty keeps state in memory only
	File string `mapstructure:"file"`
}

type EventsConfig struct {
	// Retention is how many planning events are kept for GET /api/events
	Retention int `mapstructure:"retention"`
}

// Load reads coilplan.yaml from ./configs or the working directory when
// present, then applies COILPLAN_* environment overrides. A missing config
// file is not an error.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("coilplan")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFile reads the given config file, then applies environment overrides
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return unmarshal(v)
}

// Default returns the built-in configuration, ignoring config files and the
// environment
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.changeover_cost", 100.0)
	v.SetDefault("engine.width_tolerance", 10.0)
	v.SetDefault("engine.fulfilment_threshold", 0.99)
	v.SetDefault("engine.forecast_width_margin", 20.0)
	v.SetDefault("engine.forecast_weight_buffer", 1.1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("state.file", "")

	v.SetDefault("events.retention", 1000)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the engine tunables and log settings
func (c *Config) Validate() error {
	e := c.Engine
	if e.ChangeoverCost < 0 {
		return fmt.Errorf("engine.changeover_cost cannot be negative, got %g", e.ChangeoverCost)
	}
	if e.WidthTolerance < 0 {
		return fmt.Errorf("engine.width_tolerance cannot be negative, got %g", e.WidthTolerance)
	}
	if e.FulfilmentThreshold <= 0 || e.FulfilmentThreshold > 1 {
		return fmt.Errorf("engine.fulfilment_threshold must be in (0, 1], got %g", e.FulfilmentThreshold)
	}
	if e.ForecastWidthMargin < 0 {
		return fmt.Errorf("engine.forecast_width_margin cannot be negative, got %g", e.ForecastWidthMargin)
	}
	if e.ForecastWeightBuffer < 1 {
		return fmt.Errorf("engine.forecast_weight_buffer cannot be below 1, got %g", e.ForecastWeightBuffer)
	}

	if c.Events.Retention < 1 {
		return fmt.Errorf("events.retention must be at least 1, got %d", c.Events.Retention)
	}

	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format: %s (expected: console or json)", c.Log.Format)
	}
	return nil
}
