package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/domain/model"
	"github.com/giftwell/lookalike-api/internal/testutil"
)

func TestCampaignRepo_Create(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCampaignRepo(db)
		ctx := context.Background()

		parent, err := repo.Create(ctx, &model.CreateCampaignRequest{
			Name:        "Holiday outreach",
			BudgetCents: 500000,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, parent.ID)
		assert.Equal(t, model.CampaignStatusDraft, parent.Status)
		assert.Equal(t, int64(500000), parent.BudgetCents)
		assert.Nil(t, parent.ParentCampaignID)

		boost, err := repo.Create(ctx, &model.CreateCampaignRequest{
			Name:             "Holiday boost",
			ParentCampaignID: &parent.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, boost.ParentCampaignID)
		assert.Equal(t, parent.ID, *boost.ParentCampaignID)
		assert.True(t, boost.IsBoost())
	})
}

func TestCampaignRepo_Create_UnknownParent(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCampaignRepo(db)
		missing := uuid.NewString()

		_, err := repo.Create(context.Background(), &model.CreateCampaignRequest{
			Name:             "Orphan boost",
			ParentCampaignID: &missing,
		})
		require.ErrorIs(t, err, ErrCampaignParentNotFound)
	})
}

func TestCampaignRepo_Update(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCampaignRepo(db)
		ctx := context.Background()

		campaign, err := repo.Create(ctx, &model.CreateCampaignRequest{Name: "Rename me"})
		require.NoError(t, err)

		name := "Renamed"
		status := model.CampaignStatusLive
		updated, err := repo.Update(ctx, campaign.ID, model.UpdateCampaignRequest{
			Name:   &name,
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, model.CampaignStatusLive, updated.Status)

		_, err = repo.Update(ctx, uuid.NewString(), model.UpdateCampaignRequest{Name: &name})
		require.ErrorIs(t, err, ErrCampaignNotFound)
	})
}

func TestCampaignRepo_Finalize(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCampaignRepo(db)
		ctx := context.Background()

		t.Run("updates status and recipient total", func(t *testing.T) {
			campaign, err := repo.Create(ctx, &model.CreateCampaignRequest{Name: "Standalone"})
			require.NoError(t, err)

			out, err := repo.Finalize(ctx, core.FinalizeCampaignParams{
				CampaignID:     campaign.ID,
				Status:         model.CampaignStatusReadyToLaunch,
				RecipientTotal: 12,
			})
			require.NoError(t, err)
			assert.Equal(t, model.CampaignStatusReadyToLaunch, out.Status)
			assert.Equal(t, 12, out.TotalRecipients)
		})

		t.Run("advances parent status but not its total", func(t *testing.T) {
			parent, err := repo.Create(ctx, &model.CreateCampaignRequest{Name: "Parent"})
			require.NoError(t, err)
			_, err = repo.Finalize(ctx, core.FinalizeCampaignParams{
				CampaignID:     parent.ID,
				Status:         model.CampaignStatusLive,
				RecipientTotal: 100,
			})
			require.NoError(t, err)

			boost, err := repo.Create(ctx, &model.CreateCampaignRequest{
				Name:             "Boost",
				ParentCampaignID: &parent.ID,
			})
			require.NoError(t, err)

			out, err := repo.Finalize(ctx, core.FinalizeCampaignParams{
				CampaignID:     boost.ID,
				Status:         model.CampaignStatusReadyToLaunch,
				RecipientTotal: 12,
			})
			require.NoError(t, err)
			assert.Equal(t, 12, out.TotalRecipients)

			got, err := repo.GetByID(ctx, parent.ID)
			require.NoError(t, err)
			assert.Equal(t, model.CampaignStatusReadyToLaunch, got.Status)
			assert.Equal(t, 100, got.TotalRecipients)
		})

		t.Run("unknown campaign", func(t *testing.T) {
			_, err := repo.Finalize(ctx, core.FinalizeCampaignParams{
				CampaignID:     uuid.NewString(),
				Status:         model.CampaignStatusReadyToLaunch,
				RecipientTotal: 1,
			})
			require.ErrorIs(t, err, ErrCampaignNotFound)
		})

		t.Run("rejects negative total", func(t *testing.T) {
			_, err := repo.Finalize(ctx, core.FinalizeCampaignParams{
				CampaignID:     uuid.NewString(),
				Status:         model.CampaignStatusReadyToLaunch,
				RecipientTotal: -1,
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "recipient total must be non-negative")
		})
	})
}

func TestCampaignRepo_Delete(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCampaignRepo(db)
		ctx := context.Background()

		campaign, err := repo.Create(ctx, &model.CreateCampaignRequest{Name: "Ephemeral"})
		require.NoError(t, err)

		ok, err := repo.Delete(ctx, campaign.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Delete(ctx, campaign.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRecipientRepo_BackfillCampaign(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		listRepo := NewListRepo(db)
		recipientRepo := NewRecipientRepo(db)
		campaignRepo := NewCampaignRepo(db)

		campaign, err := campaignRepo.Create(ctx, &model.CreateCampaignRequest{Name: "Backfill target"})
		require.NoError(t, err)
		list, err := listRepo.Create(ctx, &model.CreateListRequest{Name: "backfill-list"})
		require.NoError(t, err)

		for range 2 {
			rec := createTestRecipient(t, db)
			_, err = listRepo.AppendRecipient(ctx, core.AppendRecipientParams{
				ListID:      list.ID,
				RecipientID: rec,
			})
			require.NoError(t, err)
		}

		changed, err := recipientRepo.BackfillCampaign(ctx, core.BackfillCampaignParams{
			ListID:     list.ID,
			CampaignID: campaign.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), changed)

		// Idempotent: a second pass changes nothing
		changed, err = recipientRepo.BackfillCampaign(ctx, core.BackfillCampaignParams{
			ListID:     list.ID,
			CampaignID: campaign.ID,
		})
		require.NoError(t, err)
		assert.Zero(t, changed)
	})
}
