package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100.0, cfg.Engine.ChangeoverCost)
	assert.Equal(t, 10.0, cfg.Engine.WidthTolerance)
	assert.Equal(t, 0.99, cfg.Engine.FulfilmentThreshold)
	assert.Equal(t, 20.0, cfg.Engine.ForecastWidthMargin)
	assert.Equal(t, 1.1, cfg.Engine.ForecastWeightBuffer)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Empty(t, cfg.State.File)
	assert.Equal(t, 1000, cfg.Events.Retention)
}

func TestLoadFile_WithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coilplan.yaml")
	content := `
engine:
  changeover_cost: 250
  width_tolerance: 5
log:
  level: debug
  format: json
server:
  addr: ":9090"
state:
  file: state.json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("COILPLAN_ENGINE_WIDTH_TOLERANCE", "15")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 250.0, cfg.Engine.ChangeoverCost)
	assert.Equal(t, 15.0, cfg.Engine.WidthTolerance)
	assert.Equal(t, 0.99, cfg.Engine.FulfilmentThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "state.json", cfg.State.File)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Engine: EngineConfig{
				ChangeoverCost:       100,
				WidthTolerance:       10,
				FulfilmentThreshold:  0.99,
				ForecastWidthMargin:  20,
				ForecastWeightBuffer: 1.1,
			},
			Log:    LogConfig{Level: "info", Format: "console"},
			Events: EventsConfig{Retention: 1000},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"negative changeover", func(c *Config) { c.Engine.ChangeoverCost = -1 }, false},
		{"threshold above one", func(c *Config) { c.Engine.FulfilmentThreshold = 1.5 }, false},
		{"zero threshold", func(c *Config) { c.Engine.FulfilmentThreshold = 0 }, false},
		{"buffer below one", func(c *Config) { c.Engine.ForecastWeightBuffer = 0.9 }, false},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"zero event retention", func(c *Config) { c.Events.Retention = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDefault_IgnoresEnvironment(t *testing.T) {
	t.Setenv("COILPLAN_ENGINE_CHANGEOVER_COST", "999")

	cfg := Default()
	assert.Equal(t, 100.0, cfg.Engine.ChangeoverCost)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	require.NoError(t, cfg.Validate())
}
