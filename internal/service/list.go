package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/domain/model"
)

// ListServiceOptions groups dependencies for ListService.
type ListServiceOptions struct {
	Repo   core.ListRepository
	Logger *slog.Logger
}

// ListService provides business logic for recipient list operations.
type ListService struct {
	repo   core.ListRepository
	logger *slog.Logger
}

// NewListService constructs a new ListService.
func NewListService(opts ListServiceOptions) (*ListService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ListRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "list_service")
	}
	return &ListService{repo: opts.Repo, logger: logger}, nil
}

// MustNewListService constructs a new ListService and panics on error.
func MustNewListService(opts ListServiceOptions) *ListService {
	svc, err := NewListService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create ListService: %v", err))
	}
	return svc
}

// Create creates a new list.
func (s *ListService) Create(ctx context.Context, req *model.CreateListRequest) (*model.List, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	list, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "list created", "id", list.ID, "name", list.Name)
	}
	return list, nil
}

// GetByID retrieves a list by ID.
func (s *ListService) GetByID(ctx context.Context, id string) (*model.List, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of lists.
func (s *ListService) List(ctx context.Context, limit, offset int) ([]*model.List, error) {
	p := normalizePagination(limit, offset)
	return s.repo.List(ctx, p.Limit, p.Offset)
}

// ListRecipients returns a page of a list's recipients.
func (s *ListService) ListRecipients(
	ctx context.Context,
	listID string,
	limit, offset int,
) ([]*model.Recipient, error) {
	p := normalizePagination(limit, offset)
	return s.repo.ListRecipients(ctx, listID, p.Limit, p.Offset)
}

// Delete removes a list and its memberships.
func (s *ListService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if s.logger != nil && ok {
		s.logger.InfoContext(ctx, "list deleted", "id", id)
	}
	return ok, nil
}
