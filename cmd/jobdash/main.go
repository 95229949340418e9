// jobdash renders job spec and job run detail views, either in the terminal
// or over HTTP.
//
// Usage:
//
//	jobdash serve --config jobdash.yaml
//	jobdash show 42
//	jobdash run <jobRunID>
//	jobdash import fixture.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobdash/internal/config"
	"jobdash/internal/core"
	"jobdash/internal/logging"
	"jobdash/internal/store"
	"jobdash/internal/view"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jobdash",
	Short: "Job spec and job run detail views",
	Long: `jobdash shows job specs with their latest runs, and the details of
single job runs, from a memory or SQLite backed store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, showCmd, runCmd, importCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openBackend builds the configured backend and loads the fixture into it
// when one is configured.
func openBackend(ctx context.Context) (store.Backend, func(), error) {
	var (
		backend store.Backend
		closeFn = func() {}
	)
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		backend, closeFn = db, func() { db.Close() }
	default:
		backend = store.NewMemoryBackend()
	}

	if cfg.Store.Fixture != "" {
		if err := importFixture(ctx, backend, cfg.Store.Fixture); err != nil {
			closeFn()
			return nil, nil, err
		}
	}
	return backend, closeFn, nil
}

func importFixture(ctx context.Context, backend store.Backend, path string) error {
	fixture, err := core.LoadFixture(path)
	if err != nil {
		return fmt.Errorf("load fixture %s: %w", path, err)
	}
	if err := store.Import(ctx, backend, fixture); err != nil {
		return fmt.Errorf("import fixture %s: %w", path, err)
	}
	logger.Info("fixture imported",
		zap.String("path", path),
		zap.Int("nodes", len(fixture.Nodes)),
		zap.Int("job_specs", len(fixture.JobSpecs)),
		zap.Int("job_runs", len(fixture.JobRuns)))
	return nil
}

func newStore(backend store.Backend) *store.Store {
	return store.New(backend, store.Options{
		RunsPerSpec:  cfg.View.LatestRuns,
		FetchTimeout: cfg.Store.FetchTimeout,
	}, logger)
}

func viewOptions() view.Options {
	// validated by config.Load
	loc, _ := cfg.View.Location()
	return view.Options{ExplorerHost: cfg.View.ExplorerHost, Location: loc}
}
