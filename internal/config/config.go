// Package config holds conversion defaults and server settings.
//
// Values come from three layers, each overriding the previous one:
// built-in defaults, an optional JSON file, and GCODE_MCP_* environment
// variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EnvConfigPath names the environment variable holding the JSON config path.
const EnvConfigPath = "GCODE_MCP_CONFIG"

// Config is the resolved configuration.
type Config struct {
	LogLevel      string  `json:"log_level"`
	Threshold     int     `json:"threshold"`
	Feed          int     `json:"feed"`
	Scale         float64 `json:"scale"`
	MaxPixels     int     `json:"max_pixels"`
	MaxDimension  int     `json:"max_dimension"`
	BlurRadius    float64 `json:"blur_radius"`
	Invert        bool    `json:"invert"`
	PreviewWidth  int     `json:"preview_width"`
	PreviewHeight int     `json:"preview_height"`
	OutputPath    string  `json:"output_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:      "info",
		Threshold:     128,
		Feed:          1000,
		Scale:         1,
		MaxPixels:     4096 * 4096,
		PreviewWidth:  800,
		PreviewHeight: 600,
		OutputPath:    "design.gcode",
	}
}

// fileConfig mirrors Config with optional fields so a partial file only
// overrides what it names.
type fileConfig struct {
	LogLevel      *string  `json:"log_level,omitempty"`
	Threshold     *int     `json:"threshold,omitempty"`
	Feed          *int     `json:"feed,omitempty"`
	Scale         *float64 `json:"scale,omitempty"`
	MaxPixels     *int     `json:"max_pixels,omitempty"`
	MaxDimension  *int     `json:"max_dimension,omitempty"`
	BlurRadius    *float64 `json:"blur_radius,omitempty"`
	Invert        *bool    `json:"invert,omitempty"`
	PreviewWidth  *int     `json:"preview_width,omitempty"`
	PreviewHeight *int     `json:"preview_height,omitempty"`
	OutputPath    *string  `json:"output_path,omitempty"`
}

// Load reads a JSON file and applies it on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.merge(data); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) merge(data []byte) error {
	var f fileConfig
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.Threshold != nil {
		c.Threshold = *f.Threshold
	}
	if f.Feed != nil {
		c.Feed = *f.Feed
	}
	if f.Scale != nil {
		c.Scale = *f.Scale
	}
	if f.MaxPixels != nil {
		c.MaxPixels = *f.MaxPixels
	}
	if f.MaxDimension != nil {
		c.MaxDimension = *f.MaxDimension
	}
	if f.BlurRadius != nil {
		c.BlurRadius = *f.BlurRadius
	}
	if f.Invert != nil {
		c.Invert = *f.Invert
	}
	if f.PreviewWidth != nil {
		c.PreviewWidth = *f.PreviewWidth
	}
	if f.PreviewHeight != nil {
		c.PreviewHeight = *f.PreviewHeight
	}
	if f.OutputPath != nil {
		c.OutputPath = *f.OutputPath
	}
	return nil
}

// ApplyEnv overrides fields from GCODE_MCP_* variables read through getenv.
// Unset or empty variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) error {
		v := getenv(name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
		return nil
	}
	float := func(name string, dst *float64) error {
		v := getenv(name)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = f
		return nil
	}

	str("GCODE_MCP_LOG_LEVEL", &c.LogLevel)
	str("GCODE_MCP_OUTPUT", &c.OutputPath)
	for _, e := range []error{
		integer("GCODE_MCP_THRESHOLD", &c.Threshold),
		integer("GCODE_MCP_FEED", &c.Feed),
		float("GCODE_MCP_SCALE", &c.Scale),
		integer("GCODE_MCP_MAX_PIXELS", &c.MaxPixels),
		integer("GCODE_MCP_MAX_DIMENSION", &c.MaxDimension),
		float("GCODE_MCP_BLUR_RADIUS", &c.BlurRadius),
	} {
		if e != nil {
			return e
		}
	}
	if v := getenv("GCODE_MCP_INVERT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GCODE_MCP_INVERT: %w", err)
		}
		c.Invert = b
	}
	return nil
}

// Resolve builds the configuration the way the binary does: defaults, the
// file named by GCODE_MCP_CONFIG if set, then the environment.
func Resolve(getenv func(string) string) (Config, error) {
	cfg := Default()
	if path := getenv(EnvConfigPath); path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(c.LogLevel))
}

// Validate checks the defaults a caller would hand to the converter.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold %d out of range 0-255", c.Threshold)
	}
	if c.Feed <= 0 {
		return fmt.Errorf("feed must be positive, got %d", c.Feed)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %g", c.Scale)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("max_dimension must not be negative, got %d", c.MaxDimension)
	}
	if c.BlurRadius < 0 {
		return fmt.Errorf("blur_radius must not be negative, got %g", c.BlurRadius)
	}
	if c.PreviewWidth <= 0 || c.PreviewHeight <= 0 {
		return fmt.Errorf("invalid preview size %dx%d", c.PreviewWidth, c.PreviewHeight)
	}
	return nil
}
