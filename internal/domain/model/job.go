// Package model defines the core data types used throughout the lookalike enrichment system.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobType represents the kind of enrichment work a job carries.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobType string

// JobStatus represents the current lifecycle state of a job.
type JobStatus string

const (
	// JobTypeLookalike represents a vendor-backed lookalike enrichment job.
	JobTypeLookalike JobType = "lookalike"
	// JobTypeImport represents a contact import (CSV/manual rows) job.
	JobTypeImport JobType = "import"

	// JobStatusPending indicates a job is waiting to be picked up.
	JobStatusPending JobStatus = "pending"
	// JobStatusInProgress indicates a job is currently being processed under a lease.
	JobStatusInProgress JobStatus = "in-progress"
	// JobStatusCompleted indicates a job finished successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates a job exhausted its retries or failed terminally.
	JobStatusFailed JobStatus = "failed"
)

// ErrNoJobsAvailable is returned when no jobs are available for reservation.
var ErrNoJobsAvailable = errors.New("no jobs available")

// UnmarshalText implements encoding.TextUnmarshaler for JobType to allow env parsing.
func (t *JobType) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	jt := JobType(v)
	if jt.Valid() {
		*t = jt
		return nil
	}
	return fmt.Errorf("invalid JobType: %q", v)
}

// Valid returns true if the JobType is valid.
func (t JobType) Valid() bool {
	return t == JobTypeLookalike || t == JobTypeImport
}

// Valid returns true if the JobStatus is valid.
func (s JobStatus) Valid() bool {
	return s == JobStatusPending || s == JobStatusInProgress ||
		s == JobStatusCompleted || s == JobStatusFailed
}

// Terminal returns true once a job can no longer change state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// transition. The requeue edge (in-progress -> pending) exists so expired
// leases and retryable failures can put a job back on the queue.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusInProgress || next == JobStatusFailed
	case JobStatusInProgress:
		return next == JobStatusCompleted || next == JobStatusFailed || next == JobStatusPending
	case JobStatusCompleted, JobStatusFailed:
		return false
	default:
		return false
	}
}

// Job represents one durable enrichment request and its lifecycle.
type Job struct {
	ID             string          `json:"id"                         db:"id"`
	Type           JobType         `json:"type"                       db:"type"`
	Status         JobStatus       `json:"status"                     db:"status"`
	ListID         string          `json:"list_id"                    db:"list_id"`
	CampaignID     *string         `json:"campaign_id,omitempty"      db:"campaign_id"`
	Vendor         VendorKind      `json:"vendor"                     db:"vendor"`
	Payload        json.RawMessage `json:"payload"                    db:"payload"`
	ResultCount    int             `json:"result_count"               db:"result_count"`
	ScheduledAt    time.Time       `json:"scheduled_at"               db:"scheduled_at"`
	StartedAt      *time.Time      `json:"started_at,omitempty"       db:"started_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"     db:"completed_at"`
	RetryCount     int             `json:"retry_count"                db:"retry_count"`
	MaxRetries     int             `json:"max_retries"                db:"max_retries"`
	LastError      *string         `json:"last_error,omitempty"       db:"last_error"`
	LeaseExpiresAt *time.Time      `json:"lease_expires_at,omitempty" db:"lease_expires_at"`
	CreatedAt      time.Time       `json:"created_at"                 db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"                 db:"updated_at"`
}

// FinalAttempt reports whether the next failure would exhaust the job's retries.
func (j *Job) FinalAttempt() bool {
	return j.RetryCount+1 >= j.MaxRetries
}

// OnComplete is an optional directive applied to the owning campaign
// when an enrichment job finishes successfully.
type OnComplete struct {
	Status CampaignStatus `json:"status"`
}

// LookalikePayload is the persisted payload of a lookalike job.
type LookalikePayload struct {
	SeedURLs    []string    `json:"seed_urls"`
	TargetCount int         `json:"target_count"`
	OnComplete  *OnComplete `json:"on_complete,omitempty"`
}

// ImportPayload is the persisted payload of a contact import job.
type ImportPayload struct {
	Contacts   []ContactRow `json:"contacts"`
	OnComplete *OnComplete  `json:"on_complete,omitempty"`
}

// ContactRow is a single uploaded contact prior to recipient creation.
type ContactRow struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Company     string `json:"company,omitempty"`
	Title       string `json:"title,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

// CreateJobRequest represents a request to enqueue a new job.
type CreateJobRequest struct {
	Type        JobType         `json:"type"`
	ListID      string          `json:"list_id"`
	CampaignID  *string         `json:"campaign_id,omitempty"`
	Vendor      VendorKind      `json:"vendor,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	MaxRetries  int             `json:"max_retries"`
}

// Validate validates the CreateJobRequest fields.
func (r *CreateJobRequest) Validate() error {
	if !r.Type.Valid() {
		return errors.New("invalid job type")
	}
	if _, err := uuid.Parse(r.ListID); err != nil {
		return errors.New("list id must be a valid UUID")
	}
	if r.CampaignID != nil {
		if _, err := uuid.Parse(*r.CampaignID); err != nil {
			return errors.New("campaign id must be a valid UUID")
		}
	}
	if r.Type == JobTypeLookalike && !r.Vendor.Valid() {
		return errors.New("invalid vendor")
	}
	if len(r.Payload) == 0 {
		return errors.New("payload is required")
	}
	if r.MaxRetries < 0 {
		return errors.New("max retries must be >= 0")
	}
	return nil
}

// JobStats represents counts of jobs in each lifecycle state.
type JobStats struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// JobStatusResponse is the out-of-band polling view of a job.
type JobStatusResponse struct {
	Status      JobStatus  `json:"status"`
	ResultCount int        `json:"result_count"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	LastError   *string    `json:"last_error,omitempty"`
}
