package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/giftwell/lookalike-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	ReserveNext(ctx context.Context, jobType model.JobType, leaseSeconds int) (*model.Job, error)
	WaitForNotification(ctx context.Context, jobType model.JobType) error
	Heartbeat(ctx context.Context, jobID string, leaseSeconds int) (bool, error)
	Complete(ctx context.Context, id string, resultCount int) (bool, error)
	// Fail records errMsg against the job and either requeues it (returning
	// pending) or, when retries are exhausted, marks it failed. The returned
	// status tells the caller which of the two happened.
	Fail(ctx context.Context, id, errMsg string) (model.JobStatus, error)
	Stats(ctx context.Context, jobType model.JobType) (*model.JobStats, error)
	List(ctx context.Context, opts *model.JobListOptions) ([]*model.Job, error)
	Delete(ctx context.Context, id string) error
}

// JobRepositoryTx defines optional transactional job creation support.
type JobRepositoryTx interface {
	CreateInTx(ctx context.Context, tx *sql.Tx, req *model.CreateJobRequest) (*model.Job, error)
}

// AppendJobResultParams groups parameters for JobResultRepository.Append.
type AppendJobResultParams struct {
	JobID       string
	RecipientID *string
	Payload     []byte
}

// JobResultRepository defines the interface for persisted job result data.
type JobResultRepository interface {
	Append(ctx context.Context, params AppendJobResultParams) (*model.JobResult, error)
	ListByJobID(ctx context.Context, jobID string) ([]*model.JobResult, error)
	CountByJobID(ctx context.Context, jobID string) (int, error)
}

// AppendRecipientParams groups parameters for ListRepository.AppendRecipient.
type AppendRecipientParams struct {
	ListID      string
	RecipientID string
}

// ListRepository defines the interface for recipient list data operations.
type ListRepository interface {
	Create(ctx context.Context, req *model.CreateListRequest) (*model.List, error)
	GetByID(ctx context.Context, id string) (*model.List, error)
	List(ctx context.Context, limit, offset int) ([]*model.List, error)
	// SetStatus advances the list lifecycle. Illegal transitions return false
	// with no update, so concurrent builders cannot clobber each other.
	SetStatus(ctx context.Context, id string, status model.ListStatus) (bool, error)
	// AppendRecipient inserts the membership row and bumps the denormalized
	// counter in one statement. Returns the new counter value.
	AppendRecipient(ctx context.Context, params AppendRecipientParams) (int, error)
	// RefreshCount re-derives the counter from actual membership and returns it.
	RefreshCount(ctx context.Context, listID string) (int, error)
	ListRecipients(ctx context.Context, listID string, limit, offset int) ([]*model.Recipient, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// BackfillCampaignParams groups parameters for RecipientRepository.BackfillCampaign.
type BackfillCampaignParams struct {
	ListID     string
	CampaignID string
}

// RecipientRepository defines the interface for recipient data operations.
type RecipientRepository interface {
	Create(ctx context.Context, req *model.CreateRecipientRequest) (*model.Recipient, error)
	GetByID(ctx context.Context, id string) (*model.Recipient, error)
	// BackfillCampaign stamps the campaign onto every recipient in the list
	// whose campaign differs. Idempotent; returns rows changed.
	BackfillCampaign(ctx context.Context, params BackfillCampaignParams) (int64, error)
}

// FinalizeCampaignParams groups parameters for CampaignRepository.Finalize.
type FinalizeCampaignParams struct {
	CampaignID     string
	Status         model.CampaignStatus
	RecipientTotal int
}

// CampaignRepository defines the interface for campaign data operations.
type CampaignRepository interface {
	Create(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	List(ctx context.Context, limit, offset int) ([]*model.Campaign, error)
	Update(ctx context.Context, id string, req model.UpdateCampaignRequest) (*model.Campaign, error)
	// Finalize applies the end-of-enrichment aggregate update in a single
	// transaction: the campaign's status and recipient total, plus the parent
	// campaign's status when the campaign is a boost. The parent's recipient
	// total is never touched.
	Finalize(ctx context.Context, params FinalizeCampaignParams) (*model.Campaign, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// DeleteOldJobsParams groups parameters for DeleteOldJobs to keep param count ≤3.
type DeleteOldJobsParams struct {
	Status    model.JobStatus
	MaxAge    time.Duration
	BatchSize int
}

// DeleteOldJobResultsParams groups parameters for DeleteOldJobResults.
type DeleteOldJobResultsParams struct {
	MaxAge    time.Duration
	BatchSize int
}

// ReaperRepository defines the interface for queue supervision and cleanup.
type ReaperRepository interface {
	// RequeueExpiredLeases returns in-progress jobs whose lease has lapsed to
	// the pending state, or fails them when retries are exhausted. Returns the
	// number of jobs touched.
	RequeueExpiredLeases(ctx context.Context, batchSize int) (int64, error)

	// FailStalePendingJobs marks pending jobs older than maxAge as failed.
	// Processes up to batchSize jobs per call to prevent long locks.
	// Returns the number of jobs marked as failed.
	FailStalePendingJobs(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error)

	// DeleteOldJobs deletes jobs with the given status older than maxAge.
	// Processes up to batchSize jobs per call to prevent long locks.
	// Returns the number of jobs deleted.
	DeleteOldJobs(ctx context.Context, params DeleteOldJobsParams) (int64, error)

	// DeleteOldJobResults deletes persisted job_results rows older than maxAge.
	// Processes up to batchSize rows per call.
	DeleteOldJobResults(ctx context.Context, params DeleteOldJobResultsParams) (int64, error)
}
