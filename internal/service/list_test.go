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

func newTestListService(t *testing.T, repo *mocks.MockListRepository) *ListService {
	t.Helper()
	return MustNewListService(ListServiceOptions{
		Repo:   repo,
		Logger: slog.Default(),
	})
}

func TestNewListService(t *testing.T) {
	t.Run("creates service with valid options", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, err := NewListService(ListServiceOptions{
			Repo: mocks.NewMockListRepository(ctrl),
		})

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("returns error when repo is nil", func(t *testing.T) {
		_, err := NewListService(ListServiceOptions{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "ListRepository is required")
	})
}

func TestListServiceCreate(t *testing.T) {
	t.Run("creates list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockListRepository(ctrl)
		svc := newTestListService(t, repo)

		req := &model.CreateListRequest{Name: "Q3 prospects"}
		repo.EXPECT().Create(gomock.Any(), req).Return(&model.List{
			ID:     "list-1",
			Name:   "Q3 prospects",
			Status: model.ListStatusPending,
		}, nil)

		list, err := svc.Create(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "list-1", list.ID)
		assert.Equal(t, model.ListStatusPending, list.Status)
	})

	t.Run("rejects empty name without touching the repo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockListRepository(ctrl)
		svc := newTestListService(t, repo)

		_, err := svc.Create(context.Background(), &model.CreateListRequest{Name: "   "})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("propagates repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockListRepository(ctrl)
		svc := newTestListService(t, repo)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		_, err := svc.Create(context.Background(), &model.CreateListRequest{Name: "Q3 prospects"})

		require.Error(t, err)
	})
}

func TestListServiceList(t *testing.T) {
	t.Run("normalizes pagination defaults", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockListRepository(ctrl)
		svc := newTestListService(t, repo)

		repo.EXPECT().List(gomock.Any(), 50, 0).Return([]*model.List{}, nil)

		_, err := svc.List(context.Background(), 0, -3)

		require.NoError(t, err)
	})

	t.Run("caps oversized limits", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockListRepository(ctrl)
		svc := newTestListService(t, repo)

		repo.EXPECT().List(gomock.Any(), 1000, 20).Return([]*model.List{}, nil)

		_, err := svc.List(context.Background(), 9999, 20)

		require.NoError(t, err)
	})
}

func TestListServiceListRecipients(t *testing.T) {
	t.Run("passes list id with normalized pagination", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockListRepository(ctrl)
		svc := newTestListService(t, repo)

		repo.EXPECT().
			ListRecipients(gomock.Any(), "list-1", 50, 0).
			Return([]*model.Recipient{{ID: "rec-1"}}, nil)

		recipients, err := svc.ListRecipients(context.Background(), "list-1", 0, 0)

		require.NoError(t, err)
		require.Len(t, recipients, 1)
		assert.Equal(t, "rec-1", recipients[0].ID)
	})
}

func TestListServiceDelete(t *testing.T) {
	t.Run("returns true when the list existed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockListRepository(ctrl)
		svc := newTestListService(t, repo)

		repo.EXPECT().Delete(gomock.Any(), "list-1").Return(true, nil)

		ok, err := svc.Delete(context.Background(), "list-1")

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("returns false when nothing was deleted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockListRepository(ctrl)
		svc := newTestListService(t, repo)

		repo.EXPECT().Delete(gomock.Any(), "missing").Return(false, nil)

		ok, err := svc.Delete(context.Background(), "missing")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("propagates repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockListRepository(ctrl)
		svc := newTestListService(t, repo)

		repo.EXPECT().Delete(gomock.Any(), "list-1").Return(false, errors.New("db down"))

		_, err := svc.Delete(context.Background(), "list-1")

		require.Error(t, err)
	})
}
