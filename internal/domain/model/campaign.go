package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CampaignStatus represents the lifecycle state of a campaign.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type CampaignStatus string

const (
	// CampaignStatusDraft indicates a campaign is being assembled.
	CampaignStatusDraft CampaignStatus = "draft"
	// CampaignStatusReadyToLaunch indicates enrichment finished and the
	// campaign can be launched. This is the default on-complete status.
	CampaignStatusReadyToLaunch CampaignStatus = "ready to launch"
	// CampaignStatusLive indicates a campaign is actively sending.
	CampaignStatusLive CampaignStatus = "live"
	// CampaignStatusCompleted indicates a campaign finished its run.
	CampaignStatusCompleted CampaignStatus = "completed"
	// CampaignStatusFailed indicates enrichment for the campaign failed.
	CampaignStatusFailed CampaignStatus = "failed"
)

// Valid returns true if the CampaignStatus is valid.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusReadyToLaunch, CampaignStatusLive,
		CampaignStatusCompleted, CampaignStatusFailed:
		return true
	default:
		return false
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for CampaignStatus.
func (s *CampaignStatus) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	cs := CampaignStatus(v)
	if !cs.Valid() {
		return fmt.Errorf("invalid campaign status: %q", v)
	}
	*s = cs
	return nil
}

// ResolveOnCompleteStatus returns the campaign status to apply when an
// enrichment job finishes: the job's on-complete override if present,
// otherwise "ready to launch".
func ResolveOnCompleteStatus(oc *OnComplete) CampaignStatus {
	if oc != nil && oc.Status.Valid() {
		return oc.Status
	}
	return CampaignStatusReadyToLaunch
}

// Campaign is an outbound gifting initiative. A campaign may have a parent
// ("boost" relationship); the hierarchy is at most two levels deep.
type Campaign struct {
	ID               string         `json:"id"                           db:"id"`
	Name             string         `json:"name"                         db:"name"`
	ParentCampaignID *string        `json:"parent_campaign_id,omitempty" db:"parent_campaign_id"`
	Status           CampaignStatus `json:"status"                       db:"status"`
	TotalRecipients  int            `json:"total_recipients"             db:"total_recipients"`
	BudgetCents      int64          `json:"budget_cents"                 db:"budget_cents"`
	CreatedAt        time.Time      `json:"created_at"                   db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"                   db:"updated_at"`
}

// IsBoost reports whether the campaign is a child in a boost hierarchy.
func (c *Campaign) IsBoost() bool {
	return c.ParentCampaignID != nil && *c.ParentCampaignID != ""
}

// CreateCampaignRequest represents a request to create a campaign.
type CreateCampaignRequest struct {
	Name             string  `json:"name"`
	ParentCampaignID *string `json:"parent_campaign_id,omitempty"`
	BudgetCents      int64   `json:"budget_cents,omitempty"`
}

// Validate validates the CreateCampaignRequest fields.
func (r *CreateCampaignRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	if len(r.Name) > 255 {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.BudgetCents < 0 {
		return errors.New("budget must be non-negative")
	}
	return nil
}

// UpdateCampaignRequest represents a partial update to a campaign.
type UpdateCampaignRequest struct {
	Name        *string         `json:"name,omitempty"`
	Status      *CampaignStatus `json:"status,omitempty"`
	BudgetCents *int64          `json:"budget_cents,omitempty"`
}

// Validate validates the UpdateCampaignRequest fields.
func (r *UpdateCampaignRequest) Validate() error {
	if r.Name == nil && r.Status == nil && r.BudgetCents == nil {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("invalid campaign status: %q", *r.Status)
	}
	if r.BudgetCents != nil && *r.BudgetCents < 0 {
		return errors.New("budget must be non-negative")
	}
	return nil
}
