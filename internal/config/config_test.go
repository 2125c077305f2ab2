package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 128, cfg.Threshold)
	assert.Equal(t, 1000, cfg.Feed)
	assert.Equal(t, 1.0, cfg.Scale)
	assert.Equal(t, "design.gcode", cfg.OutputPath)
	assert.NoError(t, cfg.Validate())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestLoad_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"threshold": 90, "invert": true}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Threshold)
	assert.True(t, cfg.Invert)
	assert.Equal(t, 1000, cfg.Feed, "unnamed fields keep their defaults")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read config")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"threshold":`), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"GCODE_MCP_LOG_LEVEL":     "debug",
		"GCODE_MCP_THRESHOLD":     "200",
		"GCODE_MCP_FEED":          "750",
		"GCODE_MCP_SCALE":         "2.5",
		"GCODE_MCP_MAX_PIXELS":    "1000",
		"GCODE_MCP_MAX_DIMENSION": "512",
		"GCODE_MCP_BLUR_RADIUS":   "1.5",
		"GCODE_MCP_INVERT":        "true",
		"GCODE_MCP_OUTPUT":        "out.nc",
	}))
	require.NoError(t, err)

	assert.Equal(t, Config{
		LogLevel:      "debug",
		Threshold:     200,
		Feed:          750,
		Scale:         2.5,
		MaxPixels:     1000,
		MaxDimension:  512,
		BlurRadius:    1.5,
		Invert:        true,
		PreviewWidth:  800,
		PreviewHeight: 600,
		OutputPath:    "out.nc",
	}, cfg)
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"GCODE_MCP_THRESHOLD":   "high",
		"GCODE_MCP_SCALE":       "x",
		"GCODE_MCP_BLUR_RADIUS": "-",
		"GCODE_MCP_INVERT":      "maybe",
	}

	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyEnv(envMap(map[string]string{name: value}))
			assert.ErrorContains(t, err, name)
		})
	}
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"threshold": 90, "feed": 300}`), 0644))

	cfg, err := Resolve(envMap(map[string]string{
		EnvConfigPath:         path,
		"GCODE_MCP_THRESHOLD": "100",
	}))
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Threshold, "environment overrides the file")
	assert.Equal(t, 300, cfg.Feed, "file overrides the default")
}

func TestResolve_Invalid(t *testing.T) {
	_, err := Resolve(envMap(map[string]string{"GCODE_MCP_THRESHOLD": "256"}))
	assert.ErrorContains(t, err, "out of range")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"threshold low", func(c *Config) { c.Threshold = -1 }},
		{"threshold high", func(c *Config) { c.Threshold = 256 }},
		{"feed", func(c *Config) { c.Feed = 0 }},
		{"scale", func(c *Config) { c.Scale = 0 }},
		{"max dimension", func(c *Config) { c.MaxDimension = -5 }},
		{"blur", func(c *Config) { c.BlurRadius = -1 }},
		{"preview", func(c *Config) { c.PreviewWidth = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
