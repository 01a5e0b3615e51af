package model

import (
	"encoding/json"
	"time"
)

// JobResult is one accepted candidate recorded while processing a job. Rows
// are kept for auditability even after the recipient itself is created.
type JobResult struct {
	ID          string          `json:"id"                     db:"id"`
	JobID       string          `json:"job_id"                 db:"job_id"`
	RecipientID *string         `json:"recipient_id,omitempty" db:"recipient_id"`
	Payload     json.RawMessage `json:"payload"                db:"payload"`
	CreatedAt   time.Time       `json:"created_at"             db:"created_at"`
}

// JobListOptions controls filtering and pagination for job listings.
type JobListOptions struct {
	Type   *JobType   `json:"type,omitempty"`
	Status *JobStatus `json:"status,omitempty"`
	ListID *string    `json:"list_id,omitempty"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}
