package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/household-planner/household"
)

var demoCmd = &cobra.Command{
	Use:   "demo [file]",
	Short: "Print the demo household, or write it to a .json or .yaml document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}
		st := household.Demo(opts.asOf)
		if len(args) == 0 {
			return writeJSON(cmd.OutOrStdout(), household.Export(st))
		}
		if err := writeDocument(args[0], st); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  Wrote demo household to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
