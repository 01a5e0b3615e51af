package model

import (
	"errors"
	"strings"
	"time"
)

// Recipient is a contact eligible to receive a campaign touch.
type Recipient struct {
	ID          string    `json:"id"                    db:"id"`
	FirstName   string    `json:"first_name"            db:"first_name"`
	LastName    string    `json:"last_name"             db:"last_name"`
	Email       string    `json:"email"                 db:"email"`
	Phone       string    `json:"phone,omitempty"       db:"phone"`
	Company     string    `json:"company,omitempty"     db:"company"`
	Title       string    `json:"title,omitempty"       db:"title"`
	Country     string    `json:"country,omitempty"     db:"country"`
	City        string    `json:"city,omitempty"        db:"city"`
	PhotoURL    string    `json:"photo_url,omitempty"   db:"photo_url"`
	LinkedInURL string    `json:"linkedin_url,omitempty" db:"linkedin_url"`
	CampaignID  *string   `json:"campaign_id,omitempty" db:"campaign_id"`
	CreatedAt   time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"            db:"updated_at"`
}

// SplitFullName splits a full name into first and last at the first
// whitespace boundary. Multi-word last names are preserved; a single-word
// name yields an empty last name.
func SplitFullName(full string) (first, last string) {
	trimmed := strings.TrimSpace(full)
	if trimmed == "" {
		return "", ""
	}
	idx := strings.IndexFunc(trimmed, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
	if idx < 0 {
		return trimmed, ""
	}
	return trimmed[:idx], strings.TrimSpace(trimmed[idx+1:])
}

// CreateRecipientRequest represents a request to create a recipient.
type CreateRecipientRequest struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"`
	Company     string  `json:"company,omitempty"`
	Title       string  `json:"title,omitempty"`
	Country     string  `json:"country,omitempty"`
	City        string  `json:"city,omitempty"`
	PhotoURL    string  `json:"photo_url,omitempty"`
	LinkedInURL string  `json:"linkedin_url,omitempty"`
	CampaignID  *string `json:"campaign_id,omitempty"`
}

// Validate validates the CreateRecipientRequest fields.
func (r *CreateRecipientRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return errors.New("full name is required and cannot be empty")
	}
	return nil
}

// RecipientFromProfile maps a vendor candidate onto a creation request.
func RecipientFromProfile(p Profile, campaignID *string) CreateRecipientRequest {
	return CreateRecipientRequest{
		FullName:    p.FullName,
		Email:       p.Email,
		Company:     p.Company,
		Title:       p.Title,
		Country:     p.Country,
		City:        p.City,
		PhotoURL:    p.PhotoURL,
		LinkedInURL: p.LinkedInURL,
		CampaignID:  campaignID,
	}
}

// RecipientFromContact maps an imported contact row onto a creation request.
func RecipientFromContact(c ContactRow, campaignID *string) CreateRecipientRequest {
	return CreateRecipientRequest{
		FullName:    c.FullName,
		Email:       c.Email,
		Phone:       c.Phone,
		Company:     c.Company,
		Title:       c.Title,
		LinkedInURL: c.LinkedInURL,
		CampaignID:  campaignID,
	}
}
