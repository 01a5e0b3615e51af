package httpx

import (
	"errors"
	"net/http"

	"github.com/giftwell/lookalike-api/internal/domain/model"
	"github.com/giftwell/lookalike-api/internal/service"
)

// ListHandlers provides HTTP handlers for recipient list operations.
type ListHandlers struct {
	Svc *service.ListService
}

// Create handles HTTP requests to create a new list.
func (h *ListHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateListRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	list, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, list)
}

// GetByID handles HTTP requests to fetch a list.
func (h *ListHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("list id is required")})
		return
	}

	list, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// List handles HTTP requests to page through lists.
func (h *ListHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, 1000)

	lists, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, lists)
}

// ListRecipients handles HTTP requests to page through a list's recipients.
func (h *ListHandlers) ListRecipients(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("list id is required")})
		return
	}
	limit, offset := ParseLimitOffset(r, 50, 1000)

	recipients, err := h.Svc.ListRecipients(r.Context(), id, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, recipients)
}

// Delete handles HTTP requests to delete a list.
func (h *ListHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("list id is required")})
		return
	}

	ok, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, Err: errors.New("list not found")})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
