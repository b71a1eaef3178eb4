// Package config loads bezsym settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/bezsym/intersect"
)

// Config holds all bezsym configuration.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Sample  SampleConfig  `yaml:"sample"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls how f and df are printed.
type OutputConfig struct {
	Form   string `yaml:"form"`   // default, expanded, collected
	Format string `yaml:"format"` // text, latex, json
}

// SampleConfig is the curve, circle and parameter values used by eval.
type SampleConfig struct {
	Params intersect.Params `yaml:"params"`
	T      []float64        `yaml:"t"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in settings. The sample is the curve
// (0,0) (1,2) (2,0) against the unit circle at (1,0), which meets the
// curve's apex at t=0.5.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Form:   intersect.FormDefault.String(),
			Format: intersect.FormatText.String(),
		},
		Sample: SampleConfig{
			Params: intersect.Params{
				X0: 0, Y0: 0,
				X1: 1, Y1: 2,
				X2: 2, Y2: 0,
				XC: 1, YC: 0,
				R: 1,
			},
			T: []float64{0, 0.25, 0.5, 0.75, 1},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BEZSYM_FORM"); v != "" {
		c.Output.Form = v
	}
	if v := os.Getenv("BEZSYM_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("BEZSYM_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate checks names and sample values.
func (c *Config) Validate() error {
	if _, err := intersect.ParseForm(c.Output.Form); err != nil {
		return err
	}
	if _, err := intersect.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}
	p := c.Sample.Params
	for _, v := range []float64{p.X0, p.Y0, p.X1, p.Y1, p.X2, p.Y2, p.XC, p.YC, p.R} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sample parameters must be finite, got %v", v)
		}
	}
	for _, t := range c.Sample.T {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("sample t must be finite, got %v", t)
		}
	}
	return nil
}

// Form returns the parsed output form. Call Validate first.
func (c *Config) Form() intersect.Form {
	f, _ := intersect.ParseForm(c.Output.Form)
	return f
}

// Format returns the parsed output format. Call Validate first.
func (c *Config) Format() intersect.Format {
	f, _ := intersect.ParseFormat(c.Output.Format)
	return f
}
