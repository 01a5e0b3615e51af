package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeEnrichmentRunner runs the enrichment job runner.
	ServiceModeEnrichmentRunner ServiceMode = "enrichment-runner"
	// ServiceModeReaper runs the job reaper for queue supervision and cleanup.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeEnrichmentRunner,
		ServiceModeReaper,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeEnrichmentRunner, ServiceModeReaper:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, enrichment-runner, reaper)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// EnrichmentRunnerConfig contains enrichment runner service configuration.
type EnrichmentRunnerConfig struct {
	// Concurrency is the number of worker goroutines.
	Concurrency int `env:"ENRICHMENT_RUNNER_CONCURRENCY" envDefault:"2"`

	// JobLease is the duration to lease an enrichment job. Vendor calls
	// can be slow, so the lease is generous; workers heartbeat while a
	// job is running.
	JobLease time.Duration `env:"ENRICHMENT_RUNNER_JOB_LEASE" envDefault:"2m"`

	// MaxRetries is the default retry budget for enqueued jobs.
	MaxRetries int `env:"ENRICHMENT_RUNNER_MAX_RETRIES" envDefault:"3"`
}

// Sanitize applies guardrails to enrichment runner configuration values.
func (e *EnrichmentRunnerConfig) Sanitize() {
	if e.Concurrency < 1 {
		e.Concurrency = 1
	}
	if e.JobLease < 5*time.Second {
		e.JobLease = 5 * time.Second
	}
	if e.MaxRetries < 0 {
		e.MaxRetries = 0
	}
}

// ReaperConfig contains job reaper service configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"5m"`

	// PendingMaxAge is the maximum age for pending jobs before they are marked as failed.
	// Jobs stuck in pending status longer than this will be failed.
	PendingMaxAge time.Duration `env:"REAPER_PENDING_MAX_AGE" envDefault:"1h"`

	// CompletedMaxAge is the maximum age for completed jobs before deletion.
	CompletedMaxAge time.Duration `env:"REAPER_COMPLETED_MAX_AGE" envDefault:"168h"` // 7 days

	// FailedMaxAge is the maximum age for failed jobs before deletion.
	FailedMaxAge time.Duration `env:"REAPER_FAILED_MAX_AGE" envDefault:"168h"` // 7 days

	// JobResultsMaxAge is the maximum age for persisted job_results rows before deletion.
	// These records keep enrichment history after their corresponding jobs are reaped.
	JobResultsMaxAge time.Duration `env:"REAPER_JOB_RESULTS_MAX_AGE" envDefault:"2160h"` // 90 days

	// BatchSize is the maximum number of rows to process per cleanup operation.
	// Batching prevents long locks and I/O spikes on large tables.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"1000"`

	// RequeueBatchSize is the maximum number of expired leases to requeue per pass.
	RequeueBatchSize int `env:"REAPER_REQUEUE_BATCH_SIZE" envDefault:"100"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	// Enforce minimum intervals to prevent excessive database load
	if r.Interval < 1*time.Minute {
		r.Interval = 1 * time.Minute
	}
	if r.PendingMaxAge < 5*time.Minute {
		r.PendingMaxAge = 5 * time.Minute
	}
	if r.CompletedMaxAge < 1*time.Hour {
		r.CompletedMaxAge = 1 * time.Hour
	}
	if r.FailedMaxAge < 1*time.Hour {
		r.FailedMaxAge = 1 * time.Hour
	}
	if r.JobResultsMaxAge < 24*time.Hour {
		r.JobResultsMaxAge = 24 * time.Hour
	}

	// Enforce batch size bounds to prevent excessive locks or inefficiency
	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
	if r.BatchSize > 10000 {
		r.BatchSize = 10000
	}
	if r.RequeueBatchSize < 1 {
		r.RequeueBatchSize = 1
	}
	if r.RequeueBatchSize > 10000 {
		r.RequeueBatchSize = 10000
	}
}
