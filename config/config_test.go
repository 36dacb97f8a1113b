package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/household-planner/funding"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, funding.PLN, cfg.Currency())
	assert.Equal(t, funding.DefaultHorizonMonths, cfg.Simulation.HorizonMonths)
}

func TestLoad_TOMLFile(t *testing.T) {
	// GIVEN: a config file overriding some settings
	path := filepath.Join(t.TempDir(), "planner.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9090

[log]
format = "json"

[simulation]
currency = "EUR"
horizon_months = 36
`), 0o600))

	// WHEN: loading it
	cfg, err := Load(path)
	require.NoError(t, err)

	// THEN: file values win, the rest stays default
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, funding.EUR, cfg.Currency())
	assert.Equal(t, 36, cfg.Simulation.HorizonMonths)
	assert.Equal(t, "./data/household.db", cfg.Database.Path)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9090\n"), 0o600))
	t.Setenv("PLANNER_PORT", "7070")
	t.Setenv("PLANNER_DB", "/tmp/test.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Run("missing file is fine", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := Load("")
		assert.NoError(t, err)
	})

	t.Run("values fill unset variables", func(t *testing.T) {
		// GIVEN: PLANNER_HORIZON unset and restored after the test
		t.Setenv("PLANNER_HORIZON", "")
		require.NoError(t, os.Unsetenv("PLANNER_HORIZON"))
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLANNER_HORIZON=48\n"), 0o600))
		t.Chdir(dir)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 48, cfg.Simulation.HorizonMonths)
	})

	t.Run("malformed file fails", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=1\n"), 0o600))
		t.Chdir(dir)

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".env")
	})
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.applyEnv(envMap(map[string]string{
		"PLANNER_LOG_LEVEL":    "debug",
		"PLANNER_LOG_FORMAT":   "json",
		"PLANNER_CURRENCY":     "usd",
		"PLANNER_HORIZON":      "12",
		"PLANNER_CORS_ORIGINS": "http://a.test, http://b.test,",
	}))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, funding.USD, cfg.Currency())
	assert.Equal(t, 12, cfg.Simulation.HorizonMonths)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestApplyEnv_RejectsNonNumeric(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.applyEnv(envMap(map[string]string{"PLANNER_PORT": "http"})))
	assert.Error(t, cfg.applyEnv(envMap(map[string]string{"PLANNER_HORIZON": "two years"})))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errorString string
	}{
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "invalid port 0"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid port 70000"},
		{"empty database", func(c *Config) { c.Database.Path = " " }, "database path cannot be empty"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "unknown log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"bad currency", func(c *Config) { c.Simulation.Currency = "GBP" }, "invalid currency"},
		{"negative horizon", func(c *Config) { c.Simulation.HorizonMonths = -1 }, "invalid horizon"},
		{"horizon past cap", func(c *Config) { c.Simulation.HorizonMonths = funding.MaxHorizonMonths + 1 }, "invalid horizon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "invalid log format")
}
