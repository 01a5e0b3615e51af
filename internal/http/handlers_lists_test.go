package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/giftwell/lookalike-api/internal/data"
	"github.com/giftwell/lookalike-api/internal/domain/model"
	"github.com/giftwell/lookalike-api/internal/mocks"
	"github.com/giftwell/lookalike-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newListHandlersWithMock(t *testing.T) (*ListHandlers, *mocks.MockListRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockListRepository(ctrl)
	svc := service.MustNewListService(service.ListServiceOptions{Repo: repo})
	return &ListHandlers{Svc: svc}, repo
}

func TestCreateList_Success(t *testing.T) {
	h, repo := newListHandlersWithMock(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&model.List{
		ID:     "list-1",
		Name:   "Q3 prospects",
		Status: model.ListStatusPending,
	}, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/lists", bytes.NewBufferString(`{"name":"Q3 prospects"}`))
	w := httptest.NewRecorder()

	h.Create(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got model.List
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "list-1", got.ID)
	assert.Equal(t, model.ListStatusPending, got.Status)
}

func TestCreateList_EmptyName(t *testing.T) {
	h, _ := newListHandlersWithMock(t)

	r := httptest.NewRequest(http.MethodPost, "/api/lists", bytes.NewBufferString(`{"name":""}`))
	w := httptest.NewRecorder()

	h.Create(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateList_DuplicateName(t *testing.T) {
	h, repo := newListHandlersWithMock(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrListNameExists)

	r := httptest.NewRequest(http.MethodPost, "/api/lists", bytes.NewBufferString(`{"name":"Q3 prospects"}`))
	w := httptest.NewRecorder()

	h.Create(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetList_NotFound(t *testing.T) {
	h, repo := newListHandlersWithMock(t)

	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, data.ErrListNotFound)

	r := httptest.NewRequest(http.MethodGet, "/api/lists/missing", nil)
	r.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	h.GetByID(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListLists_PaginationClamped(t *testing.T) {
	h, repo := newListHandlersWithMock(t)

	repo.EXPECT().List(gomock.Any(), 1000, 0).Return([]*model.List{}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/lists?limit=5000&offset=-2", nil)
	w := httptest.NewRecorder()

	h.List(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListRecipients_Success(t *testing.T) {
	h, repo := newListHandlersWithMock(t)

	repo.EXPECT().
		ListRecipients(gomock.Any(), "list-1", 50, 0).
		Return([]*model.Recipient{{ID: "rec-1", FirstName: "Ada", LastName: "Lovelace"}}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/lists/list-1/recipients", nil)
	r.SetPathValue("id", "list-1")
	w := httptest.NewRecorder()

	h.ListRecipients(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []*model.Recipient
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "rec-1", got[0].ID)
}

func TestDeleteList_Success(t *testing.T) {
	h, repo := newListHandlersWithMock(t)

	repo.EXPECT().Delete(gomock.Any(), "list-1").Return(true, nil)

	r := httptest.NewRequest(http.MethodDelete, "/api/lists/list-1", nil)
	r.SetPathValue("id", "list-1")
	w := httptest.NewRecorder()

	h.Delete(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteList_NotFound(t *testing.T) {
	h, repo := newListHandlersWithMock(t)

	repo.EXPECT().Delete(gomock.Any(), "missing").Return(false, nil)

	r := httptest.NewRequest(http.MethodDelete, "/api/lists/missing", nil)
	r.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	h.Delete(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
