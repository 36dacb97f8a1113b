/*
Package config loads planner settings.

LAYERS (later wins):
  1. DefaultConfig()
  2. TOML file (planner.toml, or the path passed to Load)
  3. .env in the working directory (never overrides real environment)
  4. PLANNER_* environment variables
  5. Command-line flags, applied by the binaries after Load

EXAMPLE FILE:
  [server]
  port = 8080
  cors_origins = ["http://localhost:5173"]

  [database]
  path = "./data/household.db"

  [log]
  level = "debug"
  format = "json"

  [simulation]
  currency = "EUR"
  horizon_months = 36
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/logging"
)

// DefaultFile is read when Load is given no explicit path.
const DefaultFile = "planner.toml"

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Log        LogConfig        `toml:"log"`
	Simulation SimulationConfig `toml:"simulation"`
}

type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type SimulationConfig struct {
	Currency      string `toml:"currency"`
	HorizonMonths int    `toml:"horizon_months"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{Path: "./data/household.db"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Simulation: SimulationConfig{
			Currency:      string(funding.ReferenceCurrency),
			HorizonMonths: funding.DefaultHorizonMonths,
		},
	}
}

// Load applies the file, .env and environment layers over the defaults.
// A missing file is not an error unless path was given explicitly.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PLANNER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PLANNER_PORT %q: must be a number", v)
		}
		c.Server.Port = port
	}
	if v := getenv("PLANNER_DB"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("PLANNER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("PLANNER_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("PLANNER_CURRENCY"); v != "" {
		c.Simulation.Currency = v
	}
	if v := getenv("PLANNER_HORIZON"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PLANNER_HORIZON %q: must be a number", v)
		}
		c.Simulation.HorizonMonths = h
	}
	if v := getenv("PLANNER_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
	return nil
}

// Validate validates the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Server.Port))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		problems = append(problems, "database path cannot be empty")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be text or json", c.Log.Format))
	}
	if _, err := funding.ParseCurrency(c.Simulation.Currency); err != nil {
		problems = append(problems, fmt.Sprintf("invalid currency %q: must be one of %v", c.Simulation.Currency, funding.Currencies))
	}
	if c.Simulation.HorizonMonths < 0 || c.Simulation.HorizonMonths > funding.MaxHorizonMonths {
		problems = append(problems, fmt.Sprintf("invalid horizon %d: must be between 0 and %d", c.Simulation.HorizonMonths, funding.MaxHorizonMonths))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Currency returns the validated display currency.
func (c *Config) Currency() funding.Currency {
	cur, err := funding.ParseCurrency(c.Simulation.Currency)
	if err != nil {
		return funding.ReferenceCurrency
	}
	return cur
}

// Logger builds the logger described by the log section.
func (c *Config) Logger(component string) *logging.Logger {
	lc := logging.DefaultConfig()
	lc.Component = component
	lc.Format = c.Log.Format
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		lc.Level = level
	}
	return logging.New(lc)
}
