// Package enrichrunner provides the worker adapter that pulls enrichment
// jobs off the queue and executes them.
package enrichrunner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giftwell/lookalike-api/internal/adapters/vendor"
	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/data"
	"github.com/giftwell/lookalike-api/internal/domain/model"
	obserrors "github.com/giftwell/lookalike-api/internal/observability/errors"
	"github.com/giftwell/lookalike-api/internal/observability/metrics"
	"github.com/giftwell/lookalike-api/internal/observability/statsd"
	"github.com/giftwell/lookalike-api/internal/service"
)

// heartbeatDivisor sets how often workers extend a job's lease relative
// to the lease itself. Three beats per lease keeps a healthy worker well
// clear of the reaper.
const heartbeatDivisor = 3

// RunnerOptions configures the enrichment runner adapter.
type RunnerOptions struct {
	DB     *sql.DB
	Logger *slog.Logger

	// Job processing settings
	Lease       time.Duration   // per-job lease duration; defaults to 2m
	Concurrency int             // worker goroutines per job type; defaults to 1
	JobTypes    []model.JobType // job types to process; defaults to lookalike and import

	Vendors *vendor.Registry // Required unless Enrichment is injected

	// Optional dependency injections (useful for tests/decoupling)
	JobsRepo       core.JobRepository
	ListRepo       core.ListRepository
	RecipientRepo  core.RecipientRepository
	CampaignRepo   core.CampaignRepository
	JobResultRepo  core.JobResultRepository
	Jobs           *service.JobService
	Enrichment     *service.EnrichmentService
	Metrics        statsd.Sink
}

// Runner pulls enrichment jobs and executes them, heartbeating the lease
// while a job runs so slow vendor calls do not get reaped mid-flight.
type Runner struct {
	jobs       *service.JobService
	enrichment *service.EnrichmentService
	logger     *slog.Logger
	lease      time.Duration
	jobTypes   []model.JobType
	workers    int
	metrics    statsd.Sink
}

// NewRunner wires repositories/services and constructs an enrichment runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.DB == nil && (opts.Jobs == nil || opts.Enrichment == nil) {
		return nil, errors.New("either DB or injected services must be provided")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lease := opts.Lease
	if lease <= 0 {
		lease = 2 * time.Minute
	}
	workers := opts.Concurrency
	if workers <= 0 {
		workers = 1
	}
	jobTypes := opts.JobTypes
	if len(jobTypes) == 0 {
		jobTypes = []model.JobType{model.JobTypeLookalike, model.JobTypeImport}
	}
	for _, jt := range jobTypes {
		if !jt.Valid() {
			return nil, fmt.Errorf("invalid job type: %q", jt)
		}
	}

	jobSvc := opts.Jobs
	if jobSvc == nil {
		jobsRepo := opts.JobsRepo
		if jobsRepo == nil {
			jobsRepo = data.NewJobRepo(opts.DB, data.RepoConfig{Logger: logger})
		}
		var err error
		jobSvc, err = service.NewJobService(service.JobServiceOptions{
			Repo:         jobsRepo,
			DefaultLease: lease,
			Logger:       logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create job service: %w", err)
		}
	}

	enrichSvc := opts.Enrichment
	if enrichSvc == nil {
		listRepo := opts.ListRepo
		if listRepo == nil {
			listRepo = data.NewListRepo(opts.DB)
		}
		recipientRepo := opts.RecipientRepo
		if recipientRepo == nil {
			recipientRepo = data.NewRecipientRepo(opts.DB)
		}
		campaignRepo := opts.CampaignRepo
		if campaignRepo == nil {
			campaignRepo = data.NewCampaignRepo(opts.DB)
		}
		resultRepo := opts.JobResultRepo
		if resultRepo == nil {
			resultRepo = data.NewJobResultRepo(opts.DB)
		}
		var err error
		enrichSvc, err = service.NewEnrichmentService(service.EnrichmentServiceOptions{
			Jobs:       jobSvc,
			Lists:      listRepo,
			Recipients: recipientRepo,
			Campaigns:  campaignRepo,
			Results:    resultRepo,
			Vendors:    opts.Vendors,
			Logger:     logger,
			Metrics:    opts.Metrics,
		})
		if err != nil {
			return nil, fmt.Errorf("create enrichment service: %w", err)
		}
	}

	return &Runner{
		jobs:       jobSvc,
		enrichment: enrichSvc,
		logger:     logger,
		lease:      lease,
		jobTypes:   jobTypes,
		workers:    workers,
		metrics:    opts.Metrics,
	}, nil
}

// Run starts worker goroutines for each job type and processes jobs
// until the context is cancelled. The first fatal worker error cancels
// the rest.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting enrichment runner",
		"types", r.jobTypes, "workers", r.workers, "lease", r.lease)

	g, ctx := errgroup.WithContext(ctx)

	for _, jobType := range r.jobTypes {
		unsub, notify := r.jobs.Subscribe(jobType)
		defer unsub()

		for range r.workers {
			g.Go(func() error {
				return r.workerLoop(ctx, jobType, notify)
			})
		}
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}

func (r *Runner) workerLoop(ctx context.Context, jobType model.JobType, notify <-chan struct{}) error {
	for ctx.Err() == nil {
		job, err := r.jobs.ReserveNext(ctx, jobType, r.lease)
		switch {
		case err == nil:
			if job != nil {
				r.processJob(ctx, job)
			}
		case errors.Is(err, model.ErrNoJobsAvailable):
			if !r.waitForNotify(ctx, notify) {
				return nil
			}
		default:
			return fmt.Errorf("reserve next: %w", err)
		}
	}
	return ctx.Err()
}

func (r *Runner) waitForNotify(ctx context.Context, notify <-chan struct{}) bool {
	select {
	case <-ctx.Done():
		return false
	case <-notify:
		return true
	}
}

func (r *Runner) processJob(ctx context.Context, job *model.Job) {
	start := time.Now()
	emit := func(transition, result string, err error) {
		metrics.EmitJobLifecycle(r.metrics, metrics.JobMetric{
			JobType:    string(job.Type),
			Vendor:     string(job.Vendor),
			Transition: transition,
			Result:     result,
			Duration:   time.Since(start),
			Err:        err,
		})
	}

	stopHeartbeat := r.startHeartbeat(ctx, job.ID)
	count, err := r.enrichment.Process(ctx, job)
	stopHeartbeat()

	if err != nil {
		r.handleFailure(ctx, job, err)
		emit("failed", metrics.ResultError, err)
		return
	}

	if completed, cerr := r.jobs.Complete(ctx, job.ID, count); cerr != nil {
		r.logger.ErrorContext(ctx, "complete job error", "job_id", job.ID, "error", cerr)
		emit("completed", metrics.ResultError, cerr)
	} else {
		result := metrics.ResultNoop
		if completed {
			result = metrics.ResultSuccess
		}
		emit("completed", result, nil)
	}
}

// handleFailure records the attempt failure and, once retries are
// exhausted, runs terminal cleanup so the list and campaign do not stay
// stuck in building.
func (r *Runner) handleFailure(ctx context.Context, job *model.Job, procErr error) {
	status, ferr := r.jobs.Fail(ctx, job.ID, procErr.Error())
	if ferr != nil {
		r.logger.ErrorContext(ctx, "fail job error",
			"job_id", job.ID, "error", ferr, "original_error", procErr)
		return
	}

	r.logger.WarnContext(ctx, "enrichment job attempt failed",
		"job_id", job.ID,
		"type", job.Type,
		"status", status,
		"error", procErr,
		"error_class", obserrors.Classify(procErr),
	)

	if status == model.JobStatusFailed {
		r.enrichment.OnTerminalFailure(ctx, job)
	}
}

// startHeartbeat extends the job's lease on a ticker until the returned
// stop function is called.
func (r *Runner) startHeartbeat(ctx context.Context, jobID string) func() {
	interval := r.lease / heartbeatDivisor
	if interval <= 0 {
		interval = time.Second
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ok, err := r.jobs.Heartbeat(ctx, jobID, r.lease); err != nil {
					r.logger.WarnContext(ctx, "heartbeat failed", "job_id", jobID, "error", err)
				} else if !ok {
					// Lease already lost; the job will be requeued.
					r.logger.WarnContext(ctx, "heartbeat found no active lease", "job_id", jobID)
					return
				}
			}
		}
	}()

	return func() { close(done) }
}
