package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/giftwell/lookalike-api/internal/domain/model"
	"github.com/giftwell/lookalike-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestCampaignService(t *testing.T, repo *mocks.MockCampaignRepository) *CampaignService {
	t.Helper()
	return MustNewCampaignService(CampaignServiceOptions{
		Repo:   repo,
		Logger: slog.Default(),
	})
}

func TestNewCampaignService(t *testing.T) {
	t.Run("creates service with valid options", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, err := NewCampaignService(CampaignServiceOptions{
			Repo: mocks.NewMockCampaignRepository(ctrl),
		})

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("returns error when repo is nil", func(t *testing.T) {
		_, err := NewCampaignService(CampaignServiceOptions{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "CampaignRepository is required")
	})
}

func TestCampaignServiceCreate(t *testing.T) {
	t.Run("creates top-level campaign", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCampaignRepository(ctrl)
		svc := newTestCampaignService(t, repo)

		req := &model.CreateCampaignRequest{Name: "Holiday outreach", BudgetCents: 500000}
		repo.EXPECT().Create(gomock.Any(), req).Return(&model.Campaign{
			ID:     "camp-1",
			Name:   "Holiday outreach",
			Status: model.CampaignStatusDraft,
		}, nil)

		campaign, err := svc.Create(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "camp-1", campaign.ID)
		assert.False(t, campaign.IsBoost())
	})

	t.Run("creates boost campaign with parent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCampaignRepository(ctrl)
		svc := newTestCampaignService(t, repo)

		parentID := "camp-1"
		req := &model.CreateCampaignRequest{Name: "Holiday boost", ParentCampaignID: &parentID}
		repo.EXPECT().Create(gomock.Any(), req).Return(&model.Campaign{
			ID:               "camp-2",
			Name:             "Holiday boost",
			ParentCampaignID: &parentID,
			Status:           model.CampaignStatusDraft,
		}, nil)

		campaign, err := svc.Create(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, campaign.IsBoost())
	})

	t.Run("rejects empty name without touching the repo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCampaignRepository(ctrl)
		svc := newTestCampaignService(t, repo)

		_, err := svc.Create(context.Background(), &model.CreateCampaignRequest{Name: ""})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("rejects negative budget", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCampaignRepository(ctrl)
		svc := newTestCampaignService(t, repo)

		_, err := svc.Create(context.Background(), &model.CreateCampaignRequest{
			Name:        "Holiday outreach",
			BudgetCents: -1,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "budget must be non-negative")
	})
}

func TestCampaignServiceList(t *testing.T) {
	t.Run("normalizes pagination defaults", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCampaignRepository(ctrl)
		svc := newTestCampaignService(t, repo)

		repo.EXPECT().List(gomock.Any(), 50, 0).Return([]*model.Campaign{}, nil)

		_, err := svc.List(context.Background(), -1, -1)

		require.NoError(t, err)
	})
}

func TestCampaignServiceUpdate(t *testing.T) {
	t.Run("applies partial update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCampaignRepository(ctrl)
		svc := newTestCampaignService(t, repo)

		status := model.CampaignStatusLive
		req := model.UpdateCampaignRequest{Status: &status}
		repo.EXPECT().Update(gomock.Any(), "camp-1", req).Return(&model.Campaign{
			ID:     "camp-1",
			Status: model.CampaignStatusLive,
		}, nil)

		campaign, err := svc.Update(context.Background(), "camp-1", req)

		require.NoError(t, err)
		assert.Equal(t, model.CampaignStatusLive, campaign.Status)
	})

	t.Run("rejects empty update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCampaignRepository(ctrl)
		svc := newTestCampaignService(t, repo)

		_, err := svc.Update(context.Background(), "camp-1", model.UpdateCampaignRequest{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one field")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCampaignRepository(ctrl)
		svc := newTestCampaignService(t, repo)

		status := model.CampaignStatus("archived")
		_, err := svc.Update(context.Background(), "camp-1", model.UpdateCampaignRequest{
			Status: &status,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid campaign status")
	})
}

func TestCampaignServiceDelete(t *testing.T) {
	t.Run("returns true when the campaign existed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCampaignRepository(ctrl)
		svc := newTestCampaignService(t, repo)

		repo.EXPECT().Delete(gomock.Any(), "camp-1").Return(true, nil)

		ok, err := svc.Delete(context.Background(), "camp-1")

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("propagates repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCampaignRepository(ctrl)
		svc := newTestCampaignService(t, repo)

		repo.EXPECT().Delete(gomock.Any(), "camp-1").Return(false, errors.New("db down"))

		_, err := svc.Delete(context.Background(), "camp-1")

		require.Error(t, err)
	})
}
