// Package config loads ccalc settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/ccalc"
	"github.com/njchilds90/ccalc/internal/logging"
)

// Config holds all ccalc settings.
type Config struct {
	Variable  string        `yaml:"variable"`
	Precision int           `yaml:"precision"`
	Newton    NewtonConfig  `yaml:"newton"`
	Console   ConsoleConfig `yaml:"console"`
	Logging   LoggingConfig `yaml:"logging"`
	Server    ServerConfig  `yaml:"server"`
}

// NewtonConfig configures the Newton-Raphson operation.
type NewtonConfig struct {
	Iterations int     `yaml:"iterations"`
	Tolerance  float64 `yaml:"tolerance"`
}

// ConsoleConfig configures the interactive console.
type ConsoleConfig struct {
	// Theme is auto, dark, light or notty.
	Theme string `yaml:"theme"`
}

// LoggingConfig configures the slog logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// Themes lists the accepted console themes.
var Themes = []string{"auto", "dark", "light", "notty"}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	opts := ccalc.DefaultOptions()
	return &Config{
		Variable:  opts.Variable,
		Precision: opts.Precision,
		Newton: NewtonConfig{
			Iterations: opts.Iterations,
			Tolerance:  opts.Tolerance,
		},
		Console: ConsoleConfig{Theme: "auto"},
		Logging: LoggingConfig{Level: "info"},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "5s",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates the result. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies the CCALC_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("CCALC_VARIABLE"); v != "" {
		c.Variable = v
	}
	if v := os.Getenv("CCALC_PRECISION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CCALC_PRECISION: %w", err)
		}
		c.Precision = n
	}
	if v := os.Getenv("CCALC_NEWTON_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CCALC_NEWTON_ITERATIONS: %w", err)
		}
		c.Newton.Iterations = n
	}
	if v := os.Getenv("CCALC_NEWTON_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CCALC_NEWTON_TOLERANCE: %w", err)
		}
		c.Newton.Tolerance = f
	}
	if v := os.Getenv("CCALC_THEME"); v != "" {
		c.Console.Theme = v
	}
	if v := os.Getenv("CCALC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CCALC_ADDR"); v != "" {
		c.Server.Addr = v
	}
	return nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if !isIdentifier(c.Variable) {
		return fmt.Errorf("variable %q is not a valid identifier", c.Variable)
	}
	if c.Precision < 1 || c.Precision > 17 {
		return fmt.Errorf("precision must be between 1 and 17, got %d", c.Precision)
	}
	if c.Newton.Iterations < 0 {
		return fmt.Errorf("newton.iterations must not be negative, got %d", c.Newton.Iterations)
	}
	if c.Newton.Tolerance < 0 {
		return fmt.Errorf("newton.tolerance must not be negative, got %v", c.Newton.Tolerance)
	}
	validTheme := false
	for _, t := range Themes {
		if c.Console.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid console theme: %s (valid: %v)", c.Console.Theme, Themes)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// GetShutdownTimeout returns the server shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// CalculatorOptions converts the settings into calculator options.
func (c *Config) CalculatorOptions() ccalc.Options {
	return ccalc.Options{
		Variable:   c.Variable,
		Precision:  c.Precision,
		Iterations: c.Newton.Iterations,
		Tolerance:  c.Newton.Tolerance,
	}
}
