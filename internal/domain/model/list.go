package model

import (
	"errors"
	"strings"
	"time"
)

// ListStatus represents the lifecycle state of a recipient list.
//
// The legacy free-text lifecycle strings ("List building..",
// "processing-lookalikes") are collapsed into closed tokens here; callers
// match these values, not prose.
type ListStatus string

const (
	// ListStatusPending indicates a list exists but no build has started.
	ListStatusPending ListStatus = "pending"
	// ListStatusBuilding indicates an enrichment or import job is filling the list.
	ListStatusBuilding ListStatus = "building"
	// ListStatusActive indicates the list is built and usable by campaigns.
	ListStatusActive ListStatus = "active"
	// ListStatusFailed indicates the most recent build failed.
	ListStatusFailed ListStatus = "failed"
)

// Valid returns true if the ListStatus is valid.
func (s ListStatus) Valid() bool {
	return s == ListStatusPending || s == ListStatusBuilding ||
		s == ListStatusActive || s == ListStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
// A failed list may be rebuilt, so failed -> building is allowed.
func (s ListStatus) CanTransitionTo(next ListStatus) bool {
	switch s {
	case ListStatusPending:
		return next == ListStatusBuilding || next == ListStatusFailed
	case ListStatusBuilding:
		return next == ListStatusActive || next == ListStatusFailed
	case ListStatusActive, ListStatusFailed:
		return next == ListStatusBuilding
	default:
		return false
	}
}

// List is a named collection of recipients being built up.
//
// RecipientCount is denormalized: it is incremented atomically with each
// membership insert and re-derived from actual membership when a build
// completes, so drift self-heals.
type List struct {
	ID             string     `json:"id"              db:"id"`
	Name           string     `json:"name"            db:"name"`
	Status         ListStatus `json:"status"          db:"status"`
	RecipientCount int        `json:"recipient_count" db:"recipient_count"`
	CreatedAt      time.Time  `json:"created_at"      db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"      db:"updated_at"`
}

// ListMembership is one recipient reference on a list.
type ListMembership struct {
	ListID      string    `json:"list_id"      db:"list_id"`
	RecipientID string    `json:"recipient_id" db:"recipient_id"`
	AddedAt     time.Time `json:"added_at"     db:"added_at"`
}

// CreateListRequest represents a request to create a new list.
type CreateListRequest struct {
	Name string `json:"name"`
}

// Validate validates the CreateListRequest fields.
func (r *CreateListRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	if len(r.Name) > 255 {
		return errors.New("name cannot exceed 255 characters")
	}
	return nil
}
