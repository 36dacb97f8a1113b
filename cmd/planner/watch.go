package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/logging"
)

// Editors often save in several steps; wait for them to settle.
const debounceDelay = 150 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-run the simulation whenever the household document changes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		flagFile = args[0]
	}
	if flagFile == "" {
		return errors.New("watch needs a household document")
	}
	opts, err := resolveOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := funding.NewEngine(funding.DefaultRates, opts.logger.WithComponent("engine").Logger)
	rerun := func() {
		st, err := readDocument(flagFile)
		if err != nil {
			opts.logger.Error("reading household", "file", flagFile, logging.FieldError, err)
			return
		}
		result := engine.Run(st.Input(opts.currency, opts.horizon, opts.asOf))
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n  %s\n", time.Now().Format(time.TimeOnly))
		if err := printSimulation(out, result, flagJSON); err != nil {
			opts.logger.Error("printing simulation", logging.FieldError, err)
		}
	}

	rerun()
	return watchFile(ctx, flagFile, opts.logger, rerun)
}

// watchFile calls onChange after each burst of writes to path until ctx is
// done. onChange runs on the calling goroutine, one call at a time. The
// parent directory is watched so atomic saves that replace the file are
// seen too.
func watchFile(ctx context.Context, path string, logger *logging.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	logger.Info("watching", "file", target)

	// The timer only signals; onChange runs here so reruns never overlap.
	settled := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-settled:
			onChange()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				select {
				case settled <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", logging.FieldError, err)
		}
	}
}
