package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/warp/household-planner/api"
	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [file]",
	Short: "Show when each upcoming payment gets funded",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSimulate,
}

var flagMonths int

var timelineCmd = &cobra.Command{
	Use:   "timeline [file]",
	Short: "Required vs available money month by month",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTimeline,
}

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Monthly totals and savings in one currency",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSummary,
}

func init() {
	timelineCmd.Flags().IntVar(&flagMonths, "months", -1, "Curve length in months (default: a year past the last due month)")
	rootCmd.AddCommand(simulateCmd, timelineCmd, summaryCmd)
}

// simulation loads the household and runs the engine with the resolved
// options. A positional file argument takes the place of --file.
func simulation(cmd *cobra.Command, args []string) (*funding.SimulationResult, *household.State, runOptions, error) {
	if len(args) > 0 {
		flagFile = args[0]
	}
	opts, err := resolveOptions()
	if err != nil {
		return nil, nil, opts, err
	}
	st, err := loadHousehold(cmd.Context(), opts)
	if err != nil {
		return nil, nil, opts, err
	}
	engine := funding.NewEngine(funding.DefaultRates, opts.logger.WithComponent("engine").Logger)
	return engine.Run(st.Input(opts.currency, opts.horizon, opts.asOf)), st, opts, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	result, _, _, err := simulation(cmd, args)
	if err != nil {
		return err
	}
	return printSimulation(cmd.OutOrStdout(), result, flagJSON)
}

func printSimulation(w io.Writer, result *funding.SimulationResult, asJSON bool) error {
	if asJSON {
		return writeJSON(w, api.NewSimulationDTO(result))
	}
	_, err := fmt.Fprint(w, renderSimulation(result))
	return err
}

func runTimeline(cmd *cobra.Command, args []string) error {
	if flagMonths > funding.MaxHorizonMonths {
		return fmt.Errorf("--months must be at most %d", funding.MaxHorizonMonths)
	}
	result, _, _, err := simulation(cmd, args)
	if err != nil {
		return err
	}
	points := funding.Timeline(result, flagMonths)
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), api.NewTimelineDTO(result.DisplayCurrency, points))
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), renderTimeline(points))
	return err
}

func runSummary(cmd *cobra.Command, args []string) error {
	_, st, opts, err := simulation(cmd, args)
	if err != nil {
		return err
	}
	summary := st.Summary(opts.currency, funding.DefaultRates)
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), api.NewSummaryDTO(summary))
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
