package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// List repository sentinels.
	ErrListNotFound       = errors.New("list not found")
	ErrListStatusConflict = errors.New("list status transition not allowed")

	// Recipient repository sentinels.
	ErrRecipientNotFound = errors.New("recipient not found")

	// Campaign repository sentinels.
	ErrCampaignNotFound = errors.New("campaign not found")

	// Job result repository sentinels.
	ErrJobIDRequired = errors.New("job_id is required")
)
