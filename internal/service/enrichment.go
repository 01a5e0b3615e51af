package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/giftwell/lookalike-api/internal/adapters/vendor"
	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/domain/model"
	obserrors "github.com/giftwell/lookalike-api/internal/observability/errors"
	"github.com/giftwell/lookalike-api/internal/observability/statsd"
)

// Bounds on how many lookalike candidates one job may request.
const (
	MinTargetCount = 1
	MaxTargetCount = 1000
)

// EnrichmentServiceOptions groups dependencies for EnrichmentService.
type EnrichmentServiceOptions struct {
	Jobs       *JobService              // Required: enqueue and lifecycle
	Lists      core.ListRepository      // Required
	Recipients core.RecipientRepository // Required
	Campaigns  core.CampaignRepository  // Required
	Results    core.JobResultRepository // Optional: per-candidate audit trail
	Vendors    *vendor.Registry         // Required for lookalike jobs
	Logger     *slog.Logger             // Optional: structured logger
	Metrics    statsd.Sink              // Optional: candidate-level counters
}

// EnrichmentService owns the lookalike enrichment pipeline: accepting
// enrichment requests as durable jobs, and processing reserved jobs into
// recipients, list membership, and campaign aggregates.
type EnrichmentService struct {
	jobs       *JobService
	lists      core.ListRepository
	recipients core.RecipientRepository
	campaigns  core.CampaignRepository
	results    core.JobResultRepository
	vendors    *vendor.Registry
	logger     *slog.Logger
	metrics    statsd.Sink
}

// NewEnrichmentService constructs a new EnrichmentService.
func NewEnrichmentService(opts EnrichmentServiceOptions) (*EnrichmentService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("JobService is required")
	}
	if opts.Lists == nil {
		return nil, errors.New("ListRepository is required")
	}
	if opts.Recipients == nil {
		return nil, errors.New("RecipientRepository is required")
	}
	if opts.Campaigns == nil {
		return nil, errors.New("CampaignRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "enrichment_service")
	}

	return &EnrichmentService{
		jobs:       opts.Jobs,
		lists:      opts.Lists,
		recipients: opts.Recipients,
		campaigns:  opts.Campaigns,
		results:    opts.Results,
		vendors:    opts.Vendors,
		logger:     logger,
		metrics:    opts.Metrics,
	}, nil
}

// MustNewEnrichmentService constructs a new EnrichmentService and panics on error.
func MustNewEnrichmentService(opts EnrichmentServiceOptions) *EnrichmentService {
	svc, err := NewEnrichmentService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create EnrichmentService: %v", err))
	}
	return svc
}

// EnqueueLookalikeParams describes a lookalike enrichment request.
type EnqueueLookalikeParams struct {
	ListID      string
	CampaignID  *string
	Vendor      model.VendorKind
	SeedURLs    []string
	TargetCount int
	OnComplete  *model.OnComplete
	MaxRetries  int
}

// EnqueueLookalike validates a lookalike request and enqueues a durable
// job for it. The list and campaign must exist before work is accepted;
// processing happens asynchronously.
func (s *EnrichmentService) EnqueueLookalike(
	ctx context.Context,
	params EnqueueLookalikeParams,
) (*model.Job, error) {
	if len(params.SeedURLs) == 0 {
		return nil, errors.New("at least one seed URL is required")
	}
	if params.TargetCount < MinTargetCount || params.TargetCount > MaxTargetCount {
		return nil, fmt.Errorf("target count must be between %d and %d", MinTargetCount, MaxTargetCount)
	}
	kind := params.Vendor
	if kind == "" {
		kind = model.DefaultVendor
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid vendor: %q", kind)
	}
	if err := validateOnComplete(params.OnComplete); err != nil {
		return nil, err
	}
	if err := s.checkTargets(ctx, params.ListID, params.CampaignID); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(model.LookalikePayload{
		SeedURLs:    params.SeedURLs,
		TargetCount: params.TargetCount,
		OnComplete:  params.OnComplete,
	})
	if err != nil {
		return nil, fmt.Errorf("encode lookalike payload: %w", err)
	}

	return s.jobs.Create(ctx, &model.CreateJobRequest{
		Type:       model.JobTypeLookalike,
		ListID:     params.ListID,
		CampaignID: params.CampaignID,
		Vendor:     kind,
		Payload:    payload,
		MaxRetries: params.MaxRetries,
	})
}

// EnqueueImportParams describes a contact import request.
type EnqueueImportParams struct {
	ListID     string
	CampaignID *string
	Contacts   []model.ContactRow
	OnComplete *model.OnComplete
	MaxRetries int
}

// EnqueueImport validates an import request and enqueues a durable job
// carrying the uploaded contact rows.
func (s *EnrichmentService) EnqueueImport(
	ctx context.Context,
	params EnqueueImportParams,
) (*model.Job, error) {
	if len(params.Contacts) == 0 {
		return nil, errors.New("at least one contact is required")
	}
	if err := validateOnComplete(params.OnComplete); err != nil {
		return nil, err
	}
	if err := s.checkTargets(ctx, params.ListID, params.CampaignID); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(model.ImportPayload{
		Contacts:   params.Contacts,
		OnComplete: params.OnComplete,
	})
	if err != nil {
		return nil, fmt.Errorf("encode import payload: %w", err)
	}

	return s.jobs.Create(ctx, &model.CreateJobRequest{
		Type:       model.JobTypeImport,
		ListID:     params.ListID,
		CampaignID: params.CampaignID,
		Payload:    payload,
		MaxRetries: params.MaxRetries,
	})
}

// validateOnComplete rejects an on-complete override naming a status the
// campaign enum does not know; HTTP decoding catches this for JSON
// callers, programmatic callers hit it here.
func validateOnComplete(oc *model.OnComplete) error {
	if oc != nil && !oc.Status.Valid() {
		return fmt.Errorf("invalid campaign status: %q", oc.Status)
	}
	return nil
}

// checkTargets verifies the list and (optional) campaign exist so bad
// requests are rejected at intake instead of failing in the worker.
func (s *EnrichmentService) checkTargets(ctx context.Context, listID string, campaignID *string) error {
	if _, err := s.lists.GetByID(ctx, listID); err != nil {
		return fmt.Errorf("list %s: %w", listID, err)
	}
	if campaignID != nil {
		if _, err := s.campaigns.GetByID(ctx, *campaignID); err != nil {
			return fmt.Errorf("campaign %s: %w", *campaignID, err)
		}
	}
	return nil
}

// Process runs one reserved enrichment job end to end and returns how
// many recipients were appended to the list.
//
// Candidate failures are isolated: one bad profile or contact is logged
// and skipped while the rest of the batch proceeds. An error return means
// the whole run failed and the job should be retried or failed by the
// caller.
func (s *EnrichmentService) Process(ctx context.Context, job *model.Job) (int, error) {
	if err := s.markBuilding(ctx, job.ListID); err != nil {
		return 0, err
	}

	candidates, onComplete, err := s.resolveCandidates(ctx, job)
	if err != nil {
		return 0, err
	}

	appended := 0
	for i, req := range candidates {
		if err := s.appendCandidate(ctx, job, req); err != nil {
			s.countCandidate(job, "error")
			if s.logger != nil {
				s.logger.WarnContext(ctx, "candidate skipped",
					"job_id", job.ID,
					"index", i,
					"error", err,
					"error_class", obserrors.Classify(err),
				)
			}
			continue
		}
		s.countCandidate(job, "success")
		appended++
	}
	if len(candidates) > 0 && appended == 0 {
		return 0, fmt.Errorf("all %d candidates failed", len(candidates))
	}

	// Re-derive the denormalized counter so redeliveries and racing
	// appends cannot leave it drifted.
	total, err := s.lists.RefreshCount(ctx, job.ListID)
	if err != nil {
		return 0, fmt.Errorf("refresh list count: %w", err)
	}

	// The campaign aggregate only moves when this run actually produced
	// recipients; a vendor returning zero candidates leaves the campaign
	// untouched.
	if job.CampaignID != nil && appended > 0 {
		if err := s.finalizeCampaign(ctx, job, onComplete, total); err != nil {
			return 0, err
		}
	}

	if _, err := s.lists.SetStatus(ctx, job.ListID, model.ListStatusActive); err != nil {
		return 0, fmt.Errorf("activate list %s: %w", job.ListID, err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "enrichment run finished",
			"job_id", job.ID,
			"type", job.Type,
			"list_id", job.ListID,
			"appended", appended,
			"list_total", total,
		)
	}
	return appended, nil
}

// markBuilding moves the list into building. A redelivered job whose
// first attempt crashed mid-run finds the list already building; that is
// not an error.
func (s *EnrichmentService) markBuilding(ctx context.Context, listID string) error {
	moved, err := s.lists.SetStatus(ctx, listID, model.ListStatusBuilding)
	if err != nil {
		return fmt.Errorf("mark list %s building: %w", listID, err)
	}
	if moved {
		return nil
	}
	current, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return fmt.Errorf("load list %s: %w", listID, err)
	}
	if current.Status != model.ListStatusBuilding {
		return fmt.Errorf("list %s is %s and cannot enter building", listID, current.Status)
	}
	return nil
}

// resolveCandidates produces the recipient creation requests for a job,
// calling the similarity vendor for lookalike jobs and unpacking rows for
// imports.
func (s *EnrichmentService) resolveCandidates(
	ctx context.Context,
	job *model.Job,
) ([]model.CreateRecipientRequest, *model.OnComplete, error) {
	switch job.Type {
	case model.JobTypeLookalike:
		var payload model.LookalikePayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return nil, nil, fmt.Errorf("decode lookalike payload: %w", err)
		}
		if s.vendors == nil {
			return nil, nil, errors.New("no vendor registry configured")
		}
		finder, err := s.vendors.Lookup(job.Vendor)
		if err != nil {
			return nil, nil, err
		}
		profiles, err := finder.FindSimilar(ctx, payload.SeedURLs, payload.TargetCount)
		if err != nil {
			return nil, nil, fmt.Errorf("vendor %s: %w", job.Vendor, err)
		}
		candidates := make([]model.CreateRecipientRequest, 0, len(profiles))
		for _, p := range profiles {
			candidates = append(candidates, model.RecipientFromProfile(p, job.CampaignID))
		}
		return candidates, payload.OnComplete, nil

	case model.JobTypeImport:
		var payload model.ImportPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return nil, nil, fmt.Errorf("decode import payload: %w", err)
		}
		candidates := make([]model.CreateRecipientRequest, 0, len(payload.Contacts))
		for _, c := range payload.Contacts {
			candidates = append(candidates, model.RecipientFromContact(c, job.CampaignID))
		}
		return candidates, payload.OnComplete, nil

	default:
		return nil, nil, fmt.Errorf("no handler for job type %s", job.Type)
	}
}

// appendCandidate creates one recipient, links it to the list, and
// records the result row for auditing.
func (s *EnrichmentService) appendCandidate(
	ctx context.Context,
	job *model.Job,
	req model.CreateRecipientRequest,
) error {
	if err := req.Validate(); err != nil {
		return err
	}
	rec, err := s.recipients.Create(ctx, &req)
	if err != nil {
		return fmt.Errorf("create recipient: %w", err)
	}
	if _, err := s.lists.AppendRecipient(ctx, core.AppendRecipientParams{
		ListID:      job.ListID,
		RecipientID: rec.ID,
	}); err != nil {
		return fmt.Errorf("append recipient %s: %w", rec.ID, err)
	}

	if s.results != nil {
		payload, err := json.Marshal(rec)
		if err == nil {
			_, err = s.results.Append(ctx, core.AppendJobResultParams{
				JobID:       job.ID,
				RecipientID: &rec.ID,
				Payload:     payload,
			})
		}
		// The audit row is best-effort; losing it must not fail the candidate.
		if err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "persist job result failed",
				"job_id", job.ID, "recipient_id", rec.ID, "error", err)
		}
	}
	return nil
}

// finalizeCampaign applies the end-of-run aggregate update. For a boost
// campaign the parent's status advances too, but only the child's
// recipient total is recalculated.
func (s *EnrichmentService) finalizeCampaign(
	ctx context.Context,
	job *model.Job,
	onComplete *model.OnComplete,
	total int,
) error {
	if _, err := s.recipients.BackfillCampaign(ctx, core.BackfillCampaignParams{
		ListID:     job.ListID,
		CampaignID: *job.CampaignID,
	}); err != nil {
		return fmt.Errorf("backfill campaign %s: %w", *job.CampaignID, err)
	}

	status := model.ResolveOnCompleteStatus(onComplete)
	if _, err := s.campaigns.Finalize(ctx, core.FinalizeCampaignParams{
		CampaignID:     *job.CampaignID,
		Status:         status,
		RecipientTotal: total,
	}); err != nil {
		return fmt.Errorf("finalize campaign %s: %w", *job.CampaignID, err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "campaign finalized",
			"campaign_id", *job.CampaignID,
			"status", status,
			"recipient_total", total,
		)
	}
	return nil
}

// OnTerminalFailure runs cleanup once a job has exhausted its retries:
// the list and, when present, the campaign are marked failed so the UI
// never shows a build that will not finish.
func (s *EnrichmentService) OnTerminalFailure(ctx context.Context, job *model.Job) {
	if _, err := s.lists.SetStatus(ctx, job.ListID, model.ListStatusFailed); err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "mark list failed", "list_id", job.ListID, "error", err)
		}
	}
	if job.CampaignID == nil {
		return
	}
	status := model.CampaignStatusFailed
	if _, err := s.campaigns.Update(ctx, *job.CampaignID, model.UpdateCampaignRequest{
		Status: &status,
	}); err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "mark campaign failed",
				"campaign_id", *job.CampaignID, "error", err)
		}
	}
}

func (s *EnrichmentService) countCandidate(job *model.Job, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count("enrichment.candidate", 1, map[string]string{
		"job_type": string(job.Type),
		"vendor":   string(job.Vendor),
		"result":   result,
	})
}
