package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/warp/household-planner/config"
	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
	"github.com/warp/household-planner/logging"
	"github.com/warp/household-planner/store/sqlite"
)

var (
	flagConfig   string
	flagFile     string
	flagDB       string
	flagCurrency string
	flagHorizon  int
	flagAsOf     string
	flagJSON     bool
)

var rootCmd = &cobra.Command{
	Use:          "planner",
	Short:        "Household funding planner",
	Long:         "Simulate when upcoming payments get funded from a monthly allocation and seed savings.",
	SilenceUsage: true,
	RunE:         runSimulate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "TOML configuration file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Household document (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database to read when no --file is given")
	rootCmd.PersistentFlags().StringVarP(&flagCurrency, "currency", "c", "", "Display currency (PLN, USD, EUR)")
	rootCmd.PersistentFlags().IntVar(&flagHorizon, "horizon", -1, "Months of yearly recurrence expansion")
	rootCmd.PersistentFlags().StringVar(&flagAsOf, "as-of", "", "Reference date, yyyy-mm-dd (default today)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of tables")
}

// runOptions is the resolved form of the persistent flags.
type runOptions struct {
	cfg      config.Config
	logger   *logging.Logger
	currency funding.Currency
	horizon  int
	asOf     funding.Date
}

// resolveOptions layers the flags over the loaded configuration.
func resolveOptions() (runOptions, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return runOptions{}, err
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}
	if flagCurrency != "" {
		cfg.Simulation.Currency = flagCurrency
	}
	if flagHorizon >= 0 {
		cfg.Simulation.HorizonMonths = flagHorizon
	}
	if err := cfg.Validate(); err != nil {
		return runOptions{}, err
	}

	opts := runOptions{
		cfg:      cfg,
		logger:   cfg.Logger("cli"),
		currency: cfg.Currency(),
		horizon:  cfg.Simulation.HorizonMonths,
		asOf:     funding.Today(),
	}
	if flagAsOf != "" {
		d, err := funding.ParseDate(flagAsOf)
		if err != nil {
			return runOptions{}, err
		}
		opts.asOf = d
	}
	return opts, nil
}

// loadHousehold reads --file when set and the SQLite database otherwise.
func loadHousehold(ctx context.Context, opts runOptions) (*household.State, error) {
	if flagFile != "" {
		return readDocument(flagFile)
	}

	store, err := sqlite.New(opts.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer store.Close()
	return store.LoadState(ctx)
}

// readDocument decodes a household document of any known version. YAML is
// chosen by extension; everything else is parsed as JSON.
func readDocument(path string) (*household.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", household.ErrInvalidDocument, err)
		}
		return household.DecodeDocument(raw), nil
	}
	return household.ParseDocument(data)
}

// writeDocument exports st to path in the format its extension names.
func writeDocument(path string, st *household.State) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(household.Export(st))
	} else {
		data, err = household.MarshalDocument(st)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
