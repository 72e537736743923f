package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CCALC_VARIABLE", "CCALC_PRECISION", "CCALC_NEWTON_ITERATIONS",
		"CCALC_NEWTON_TOLERANCE", "CCALC_THEME", "CCALC_LOG_LEVEL", "CCALC_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "x", cfg.Variable)
	assert.Equal(t, 12, cfg.Precision)
	assert.Equal(t, 6, cfg.Newton.Iterations)
	assert.Zero(t, cfg.Newton.Tolerance)
	assert.Equal(t, "auto", cfg.Console.Theme)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "ccalc.yaml")

	cfg := DefaultConfig()
	cfg.Variable = "t"
	cfg.Newton.Iterations = 10
	cfg.Newton.Tolerance = 1e-9
	cfg.Console.Theme = "light"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ccalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("precision: 8\nnewton:\n  iterations: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Precision)
	assert.Equal(t, 3, cfg.Newton.Iterations)
	assert.Equal(t, "x", cfg.Variable)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ccalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("precision: [\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CCALC_VARIABLE", "y")
	t.Setenv("CCALC_PRECISION", "6")
	t.Setenv("CCALC_NEWTON_ITERATIONS", "20")
	t.Setenv("CCALC_NEWTON_TOLERANCE", "1e-10")
	t.Setenv("CCALC_THEME", "dark")
	t.Setenv("CCALC_LOG_LEVEL", "debug")
	t.Setenv("CCALC_ADDR", "127.0.0.1:9000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "y", cfg.Variable)
	assert.Equal(t, 6, cfg.Precision)
	assert.Equal(t, 20, cfg.Newton.Iterations)
	assert.Equal(t, 1e-10, cfg.Newton.Tolerance)
	assert.Equal(t, "dark", cfg.Console.Theme)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestConfig_EnvOverrideBadNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("CCALC_PRECISION", "twelve")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CCALC_PRECISION")
}

func TestConfig_Validate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty variable":     func(c *Config) { c.Variable = "" },
		"numeric variable":   func(c *Config) { c.Variable = "2x" },
		"zero precision":     func(c *Config) { c.Precision = 0 },
		"huge precision":     func(c *Config) { c.Precision = 40 },
		"negative iteration": func(c *Config) { c.Newton.Iterations = -1 },
		"negative tolerance": func(c *Config) { c.Newton.Tolerance = -1 },
		"unknown theme":      func(c *Config) { c.Console.Theme = "neon" },
		"unknown level":      func(c *Config) { c.Logging.Level = "loud" },
		"empty addr":         func(c *Config) { c.Server.Addr = "" },
		"bad timeout":        func(c *Config) { c.Server.ShutdownTimeout = "soon" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Second, cfg.GetShutdownTimeout())

	cfg.Server.ShutdownTimeout = "bogus"
	assert.Equal(t, 5*time.Second, cfg.GetShutdownTimeout())

	opts := DefaultConfig().CalculatorOptions()
	assert.Equal(t, "x", opts.Variable)
	assert.Equal(t, 12, opts.Precision)
	assert.Equal(t, 6, opts.Iterations)
}
