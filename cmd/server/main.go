/*
main.go - HTTP server entry point

PURPOSE:
  Initializes and starts the household planner API server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (planner.toml, .env, PLANNER_* variables)
  2. Apply command-line flags on top
  3. Initialize the SQLite store (migrations run on open)
  4. Create the funding engine and API handler
  5. Start the server; shut down gracefully on SIGINT/SIGTERM

COMMAND-LINE FLAGS:
  -config  TOML configuration file (default: planner.toml if present)
  -port    HTTP server port
  -db      SQLite database path; ":memory:" for an in-memory database
  -log-level, -log-format
  -demo    Load the demo household on startup

PRECEDENCE:
  flags > environment > config file > defaults

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection

EXAMPLES:
  ./server -db="./data/household.db"
  ./server -db=":memory:" -demo
  PLANNER_PORT=3000 ./server

SEE ALSO:
  - config/config.go: Configuration layers
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/warp/household-planner/api"
	"github.com/warp/household-planner/config"
	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
	"github.com/warp/household-planner/logging"
	"github.com/warp/household-planner/store/sqlite"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	configPath := flag.String("config", "", "TOML configuration file (default "+config.DefaultFile+" if present)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "", "log format: text or json")
	demo := flag.Bool("demo", false, "load the demo household on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Logger("server")
	logging.SetDefault(logger)

	// Initialize store
	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	if version, dirty, err := store.SchemaVersion(); err == nil {
		logger.Info("database ready", "path", cfg.Database.Path, "schema_version", version, "dirty", dirty)
	}

	// Initialize handler
	engine := funding.NewEngine(funding.DefaultRates, cfg.Logger("engine").Logger)
	handler := api.NewHandler(store, engine, cfg.Logger("api"))
	handler.DefaultCurrency = cfg.Currency()
	handler.DefaultHorizon = cfg.Simulation.HorizonMonths

	if *demo {
		if err := store.ReplaceState(context.Background(), household.Demo(funding.Today())); err != nil {
			return fmt.Errorf("load demo household: %w", err)
		}
		logger.Info("demo household loaded")
	}

	router := api.NewRouter(handler, api.RouterOptions{CORSOrigins: cfg.Server.CORSOrigins})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", fmt.Sprintf("http://localhost:%d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
