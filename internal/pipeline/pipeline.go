// Package pipeline wires the stages together: shared setup for the stage
// binaries, and the end-to-end run order. Stages run strictly in sequence;
// each one reads only what the previous stages left in the database.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"olistdw/internal/cleaning"
	"olistdw/internal/cloudsync"
	"olistdw/internal/config"
	"olistdw/internal/logging"
	"olistdw/internal/metrics"
	"olistdw/internal/metrics/prompush"
	"olistdw/internal/schema"
	"olistdw/internal/storage/postgres"
	"olistdw/internal/warehouse"
)

// App carries the shared state of one stage binary.
type App struct {
	Cfg *config.Config
	Log *slog.Logger
	DB  *postgres.Repository

	closeDB func()
}

// Setup loads the configuration, installs the metrics backend, and opens the
// database pool. Callers must Close.
func Setup(ctx context.Context, verbose bool) (*App, error) {
	log := logging.New(verbose)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.Metrics.Backend == "pushgateway" {
		b, err := prompush.NewBackend(cfg.Metrics.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			return nil, err
		}
		metrics.SetBackend(b)
		log.Debug("metrics backend installed", "backend", "pushgateway", "url", cfg.Metrics.PushgatewayURL)
	}

	db, closeDB, err := postgres.Open(ctx, cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &App{Cfg: cfg, Log: log, DB: db, closeDB: closeDB}, nil
}

// Close releases the database pool and flushes metrics.
func (a *App) Close() {
	a.closeDB()
	if err := metrics.Flush(); err != nil {
		a.Log.Warn("metrics flush failed", "error", err)
	}
}

// runStage times fn and records the outcome under the stage name.
func runStage(stage string, log *slog.Logger, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	metrics.RecordStage(stage, err, d)
	if err != nil {
		log.Error("stage failed", "stage", stage, "duration", d, "error", err)
		return fmt.Errorf("%s: %w", stage, err)
	}
	log.Info("stage finished", "stage", stage, "duration", d)
	return nil
}

// InitDB creates the schemas and raw tables, then reports what exists.
func (a *App) InitDB(ctx context.Context) error {
	return runStage("bootstrap", a.Log, func() error {
		if err := schema.Bootstrap(ctx, a.DB, a.Log); err != nil {
			return err
		}
		rep, err := schema.Verify(ctx, a.DB)
		if err != nil {
			return err
		}
		a.Log.Info("bootstrap verified", "schemas", rep.Schemas, "raw_tables", rep.RawTables)
		return nil
	})
}

// Clean rebuilds the staging layer from raw.
func (a *App) Clean(ctx context.Context) error {
	return runStage("cleaning", a.Log, func() error {
		stats, err := cleaning.Run(ctx, a.DB, a.Log)
		if err != nil {
			return err
		}
		logStats(a.Log, "staging rows", stats)
		return nil
	})
}

// Transform rebuilds the dimensions and facts from staging.
func (a *App) Transform(ctx context.Context) error {
	return runStage("transform", a.Log, func() error {
		stats, err := warehouse.RunTransform(ctx, a.DB, a.Log)
		if err != nil {
			return err
		}
		logStats(a.Log, "warehouse rows", stats)
		return nil
	})
}

// Aggregate rebuilds the reporting tables from the warehouse.
func (a *App) Aggregate(ctx context.Context) error {
	return runStage("aggregate", a.Log, func() error {
		stats, err := warehouse.RunAggregation(ctx, a.DB, a.Log)
		if err != nil {
			return err
		}
		logStats(a.Log, "aggregate rows", stats)
		return nil
	})
}

// CloudSync replicates the fact and dimension tables to object storage and
// the analytical warehouse.
func (a *App) CloudSync(ctx context.Context) error {
	return runStage("cloudsync", a.Log, func() error {
		up, err := cloudsync.NewUploader(ctx, a.Cfg.S3, a.Log)
		if err != nil {
			return err
		}
		loader, err := cloudsync.NewLoader(ctx, a.Cfg.ClickHouse)
		if err != nil {
			return err
		}
		defer loader.Close()
		if err := loader.EnsureDatabase(ctx); err != nil {
			return err
		}

		workDir, err := os.MkdirTemp("", "olistdw-sync-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(workDir)

		stats, err := cloudsync.Run(ctx, a.DB, up, loader, workDir, a.Log)
		if err != nil {
			return err
		}
		logStats(a.Log, "synced rows", stats)
		return nil
	})
}

// RunAll executes every stage in order, stopping at the first stage-level
// failure. Individual table failures inside a stage do not stop the run.
func (a *App) RunAll(ctx context.Context) error {
	steps := []func(context.Context) error{
		a.InitDB,
		a.Clean,
		a.Transform,
		a.Aggregate,
		a.CloudSync,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func logStats(log *slog.Logger, msg string, stats map[string]int64) {
	for table, rows := range stats {
		log.Info(msg, "table", table, "rows", rows)
	}
}
