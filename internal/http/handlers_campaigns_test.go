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

func newCampaignHandlersWithMock(t *testing.T) (*CampaignHandlers, *mocks.MockCampaignRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCampaignRepository(ctrl)
	svc := service.MustNewCampaignService(service.CampaignServiceOptions{Repo: repo})
	return &CampaignHandlers{Svc: svc}, repo
}

func TestCreateCampaign_Success(t *testing.T) {
	h, repo := newCampaignHandlersWithMock(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&model.Campaign{
		ID:     "camp-1",
		Name:   "Holiday outreach",
		Status: model.CampaignStatusDraft,
	}, nil)

	body := `{"name":"Holiday outreach","budget_cents":500000}`
	r := httptest.NewRequest(http.MethodPost, "/api/campaigns", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Create(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got model.Campaign
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "camp-1", got.ID)
	assert.Equal(t, model.CampaignStatusDraft, got.Status)
}

func TestCreateCampaign_UnknownParent(t *testing.T) {
	h, repo := newCampaignHandlersWithMock(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrCampaignParentNotFound)

	body := `{"name":"Holiday boost","parent_campaign_id":"missing"}`
	r := httptest.NewRequest(http.MethodPost, "/api/campaigns", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Create(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetCampaign_NotFound(t *testing.T) {
	h, repo := newCampaignHandlersWithMock(t)

	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, data.ErrCampaignNotFound)

	r := httptest.NewRequest(http.MethodGet, "/api/campaigns/missing", nil)
	r.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	h.GetByID(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateCampaign_Success(t *testing.T) {
	h, repo := newCampaignHandlersWithMock(t)

	repo.EXPECT().
		Update(gomock.Any(), "camp-1", gomock.Any()).
		DoAndReturn(func(_ interface{}, id string, req model.UpdateCampaignRequest) (*model.Campaign, error) {
			require.NotNil(t, req.Status)
			assert.Equal(t, model.CampaignStatusLive, *req.Status)
			return &model.Campaign{ID: id, Status: *req.Status}, nil
		})

	body := `{"status":"live"}`
	r := httptest.NewRequest(http.MethodPatch, "/api/campaigns/camp-1", bytes.NewBufferString(body))
	r.SetPathValue("id", "camp-1")
	w := httptest.NewRecorder()

	h.Update(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.Campaign
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, model.CampaignStatusLive, got.Status)
}

func TestUpdateCampaign_EmptyBody(t *testing.T) {
	h, _ := newCampaignHandlersWithMock(t)

	r := httptest.NewRequest(http.MethodPatch, "/api/campaigns/camp-1", bytes.NewBufferString(`{}`))
	r.SetPathValue("id", "camp-1")
	w := httptest.NewRecorder()

	h.Update(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateCampaign_InvalidStatus(t *testing.T) {
	h, _ := newCampaignHandlersWithMock(t)

	r := httptest.NewRequest(
		http.MethodPatch,
		"/api/campaigns/camp-1",
		bytes.NewBufferString(`{"status":"archived"}`),
	)
	r.SetPathValue("id", "camp-1")
	w := httptest.NewRecorder()

	h.Update(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteCampaign_NotFound(t *testing.T) {
	h, repo := newCampaignHandlersWithMock(t)

	repo.EXPECT().Delete(gomock.Any(), "missing").Return(false, nil)

	r := httptest.NewRequest(http.MethodDelete, "/api/campaigns/missing", nil)
	r.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	h.Delete(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
