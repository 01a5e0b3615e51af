package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/domain/model"
)

// CampaignServiceOptions groups dependencies for CampaignService.
type CampaignServiceOptions struct {
	Repo   core.CampaignRepository
	Logger *slog.Logger
}

// CampaignService provides business logic for campaign operations.
type CampaignService struct {
	repo   core.CampaignRepository
	logger *slog.Logger
}

// NewCampaignService constructs a new CampaignService.
func NewCampaignService(opts CampaignServiceOptions) (*CampaignService, error) {
	if opts.Repo == nil {
		return nil, errors.New("CampaignRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "campaign_service")
	}
	return &CampaignService{repo: opts.Repo, logger: logger}, nil
}

// MustNewCampaignService constructs a new CampaignService and panics on error.
func MustNewCampaignService(opts CampaignServiceOptions) *CampaignService {
	svc, err := NewCampaignService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create CampaignService: %v", err))
	}
	return svc
}

// Create creates a new campaign. Boost campaigns name a parent; the
// hierarchy is at most two levels deep, enforced at the data layer.
func (s *CampaignService) Create(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	campaign, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "campaign created",
			"id", campaign.ID,
			"name", campaign.Name,
			"boost", campaign.IsBoost(),
		)
	}
	return campaign, nil
}

// GetByID retrieves a campaign by ID.
func (s *CampaignService) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of campaigns.
func (s *CampaignService) List(ctx context.Context, limit, offset int) ([]*model.Campaign, error) {
	p := normalizePagination(limit, offset)
	return s.repo.List(ctx, p.Limit, p.Offset)
}

// Update applies a partial update to a campaign.
func (s *CampaignService) Update(
	ctx context.Context,
	id string,
	req model.UpdateCampaignRequest,
) (*model.Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes a campaign.
func (s *CampaignService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if s.logger != nil && ok {
		s.logger.InfoContext(ctx, "campaign deleted", "id", id)
	}
	return ok, nil
}
