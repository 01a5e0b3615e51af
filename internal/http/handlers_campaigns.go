package httpx

import (
	"errors"
	"net/http"

	"github.com/giftwell/lookalike-api/internal/domain/model"
	"github.com/giftwell/lookalike-api/internal/service"
)

// CampaignHandlers provides HTTP handlers for campaign operations.
type CampaignHandlers struct {
	Svc *service.CampaignService
}

// Create handles HTTP requests to create a campaign.
func (h *CampaignHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCampaignRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	campaign, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, campaign)
}

// GetByID handles HTTP requests to fetch a campaign.
func (h *CampaignHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("campaign id is required")})
		return
	}

	campaign, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, campaign)
}

// List handles HTTP requests to page through campaigns.
func (h *CampaignHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, 1000)

	campaigns, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, campaigns)
}

// Update handles HTTP requests to partially update a campaign.
func (h *CampaignHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("campaign id is required")})
		return
	}

	var req model.UpdateCampaignRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	campaign, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, campaign)
}

// Delete handles HTTP requests to delete a campaign.
func (h *CampaignHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("campaign id is required")})
		return
	}

	ok, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, Err: errors.New("campaign not found")})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
