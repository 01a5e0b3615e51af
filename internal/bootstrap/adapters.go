package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/giftwell/lookalike-api/config"
	"github.com/giftwell/lookalike-api/internal/adapters/enrichrunner"
	"github.com/giftwell/lookalike-api/internal/adapters/reaper"
	"github.com/giftwell/lookalike-api/internal/adapters/vendor"
	"github.com/giftwell/lookalike-api/internal/observability/statsd"
)

// EnrichmentRunnerConfig contains configuration for the enrichment runner.
type EnrichmentRunnerConfig struct {
	DB          *sql.DB
	Logger      *slog.Logger
	Lease       time.Duration
	Concurrency int
	Vendors     *vendor.Registry
	Metrics     statsd.Sink
}

// RunEnrichmentRunner starts the enrichment runner service.
func RunEnrichmentRunner(ctx context.Context, cfg EnrichmentRunnerConfig) error {
	runner, err := enrichrunner.NewRunner(enrichrunner.RunnerOptions{
		DB:          cfg.DB,
		Logger:      cfg.Logger,
		Lease:       cfg.Lease,
		Concurrency: cfg.Concurrency,
		Vendors:     cfg.Vendors,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create enrichment runner: %w", err)
	}

	if runErr := runner.Run(ctx); runErr != nil {
		return fmt.Errorf("run enrichment runner: %w", runErr)
	}
	return nil
}

// ReaperRunConfig contains configuration for the reaper.
type ReaperRunConfig struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Config  config.ReaperConfig
	Metrics statsd.Sink
}

// RunReaper starts the reaper service.
func RunReaper(ctx context.Context, cfg ReaperRunConfig) error {
	runner, err := reaper.NewRunner(reaper.RunnerOptions{
		DB:      cfg.DB,
		Config:  cfg.Config,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create reaper runner: %w", err)
	}

	return runner.Run(ctx)
}
