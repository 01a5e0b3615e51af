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

func TestListTransitionSources(t *testing.T) {
	tests := []struct {
		target model.ListStatus
		want   []string
	}{
		{model.ListStatusBuilding, []string{"pending", "active", "failed"}},
		{model.ListStatusActive, []string{"building"}},
		{model.ListStatusFailed, []string{"pending", "building"}},
		{model.ListStatusPending, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.want, listTransitionSources(tt.target))
		})
	}
}

func createTestRecipient(t *testing.T, db *sql.DB) string {
	t.Helper()
	repo := NewRecipientRepo(db)
	rec, err := repo.Create(context.Background(), &model.CreateRecipientRequest{
		FullName: "Ada Lovelace",
		Email:    uuid.NewString() + "@example.com",
	})
	require.NoError(t, err)
	return rec.ID
}

func TestListRepo_Create(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewListRepo(db)
		ctx := context.Background()

		list, err := repo.Create(ctx, &model.CreateListRequest{Name: "Q3 prospects"})
		require.NoError(t, err)
		assert.NotEmpty(t, list.ID)
		assert.Equal(t, "Q3 prospects", list.Name)
		assert.Equal(t, model.ListStatusPending, list.Status)
		assert.Equal(t, 0, list.RecipientCount)

		_, err = repo.Create(ctx, &model.CreateListRequest{Name: "Q3 prospects"})
		require.ErrorIs(t, err, ErrListNameExists)
	})
}

func TestListRepo_SetStatus(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewListRepo(db)
		ctx := context.Background()

		list, err := repo.Create(ctx, &model.CreateListRequest{Name: "transition-list"})
		require.NoError(t, err)

		ok, err := repo.SetStatus(ctx, list.ID, model.ListStatusBuilding)
		require.NoError(t, err)
		assert.True(t, ok)

		// A second builder arriving late cannot re-enter building from building
		ok, err = repo.SetStatus(ctx, list.ID, model.ListStatusBuilding)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.SetStatus(ctx, list.ID, model.ListStatusActive)
		require.NoError(t, err)
		assert.True(t, ok)

		// Active is terminal for the failed edge
		ok, err = repo.SetStatus(ctx, list.ID, model.ListStatusFailed)
		require.NoError(t, err)
		assert.False(t, ok)

		// Pending is an initial state, never a transition target
		_, err = repo.SetStatus(ctx, list.ID, model.ListStatusPending)
		require.Error(t, err)
	})
}

func TestListRepo_AppendRecipient(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewListRepo(db)
		ctx := context.Background()

		list, err := repo.Create(ctx, &model.CreateListRequest{Name: "append-list"})
		require.NoError(t, err)
		recA := createTestRecipient(t, db)
		recB := createTestRecipient(t, db)

		count, err := repo.AppendRecipient(ctx, core.AppendRecipientParams{
			ListID:      list.ID,
			RecipientID: recA,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = repo.AppendRecipient(ctx, core.AppendRecipientParams{
			ListID:      list.ID,
			RecipientID: recB,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		// Duplicate membership is a no-op: the counter does not move
		count, err = repo.AppendRecipient(ctx, core.AppendRecipientParams{
			ListID:      list.ID,
			RecipientID: recA,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		got, err := repo.GetByID(ctx, list.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.RecipientCount)
	})
}

func TestListRepo_AppendRecipient_UnknownList(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewListRepo(db)

		_, err := repo.AppendRecipient(context.Background(), core.AppendRecipientParams{
			ListID:      uuid.NewString(),
			RecipientID: uuid.NewString(),
		})
		require.ErrorIs(t, err, ErrListNotFound)
	})
}

func TestListRepo_RefreshCount(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewListRepo(db)
		ctx := context.Background()

		list, err := repo.Create(ctx, &model.CreateListRequest{Name: "refresh-list"})
		require.NoError(t, err)
		rec := createTestRecipient(t, db)

		_, err = repo.AppendRecipient(ctx, core.AppendRecipientParams{
			ListID:      list.ID,
			RecipientID: rec,
		})
		require.NoError(t, err)

		// Force drift, then confirm RefreshCount re-derives from membership
		_, err = db.ExecContext(ctx, `UPDATE lists SET recipient_count = 99 WHERE id = $1`, list.ID)
		require.NoError(t, err)

		count, err := repo.RefreshCount(ctx, list.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestListRepo_ListRecipients(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewListRepo(db)
		ctx := context.Background()

		list, err := repo.Create(ctx, &model.CreateListRequest{Name: "recipients-list"})
		require.NoError(t, err)

		var want []string
		for range 3 {
			rec := createTestRecipient(t, db)
			want = append(want, rec)
			_, err = repo.AppendRecipient(ctx, core.AppendRecipientParams{
				ListID:      list.ID,
				RecipientID: rec,
			})
			require.NoError(t, err)
		}

		recipients, err := repo.ListRecipients(ctx, list.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, recipients, 3)
		got := make([]string, len(recipients))
		for i, rec := range recipients {
			got[i] = rec.ID
		}
		assert.ElementsMatch(t, want, got)
	})
}

func TestListRepo_Delete(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewListRepo(db)
		ctx := context.Background()

		list, err := repo.Create(ctx, &model.CreateListRequest{Name: "delete-list"})
		require.NoError(t, err)
		rec := createTestRecipient(t, db)
		_, err = repo.AppendRecipient(ctx, core.AppendRecipientParams{
			ListID:      list.ID,
			RecipientID: rec,
		})
		require.NoError(t, err)

		ok, err := repo.Delete(ctx, list.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = repo.GetByID(ctx, list.ID)
		require.ErrorIs(t, err, ErrListNotFound)

		// Membership rows cascade, the recipient itself stays
		recipientRepo := NewRecipientRepo(db)
		_, err = recipientRepo.GetByID(ctx, rec)
		require.NoError(t, err)

		ok, err = repo.Delete(ctx, list.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
