// Package httpx provides HTTP handlers and utilities for the lookalike enrichment API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/data"
	"github.com/giftwell/lookalike-api/internal/domain/model"
	"github.com/giftwell/lookalike-api/internal/service"
)

// JobHandlers provides HTTP handlers for enrichment intake and job-related operations.
type JobHandlers struct {
	Svc        *service.JobService
	Enrichment *service.EnrichmentService
	JobResults core.JobResultRepository

	// DefaultMaxRetries is the retry budget applied to enqueued jobs.
	DefaultMaxRetries int
}

// lookalikeIntakeRequest is the body of POST /api/lists/{listId}/lookalike.
type lookalikeIntakeRequest struct {
	CampaignID  *string           `json:"campaignId,omitempty"`
	Vendor      model.VendorKind  `json:"vendor,omitempty"`
	SeedURLs    []string          `json:"linkedinUrls"`
	TargetCount int               `json:"count"`
	OnComplete  *model.OnComplete `json:"onComplete,omitempty"`
}

// EnqueueLookalike accepts a lookalike enrichment request and responds 202
// with the job id. Processing happens asynchronously; clients poll the job
// status endpoint.
func (h *JobHandlers) EnqueueLookalike(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("listId")
	if listID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("list id is required")})
		return
	}

	var req lookalikeIntakeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Enrichment.EnqueueLookalike(r.Context(), service.EnqueueLookalikeParams{
		ListID:      listID,
		CampaignID:  req.CampaignID,
		Vendor:      req.Vendor,
		SeedURLs:    req.SeedURLs,
		TargetCount: req.TargetCount,
		OnComplete:  req.OnComplete,
		MaxRetries:  h.DefaultMaxRetries,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteAccepted(w, job.ID)
}

// importIntakeRequest is the body of POST /api/lists/{listId}/import.
type importIntakeRequest struct {
	CampaignID *string            `json:"campaignId,omitempty"`
	Contacts   []model.ContactRow `json:"contacts"`
	OnComplete *model.OnComplete  `json:"onComplete,omitempty"`
}

// EnqueueImport accepts a contact import request and responds 202 with the
// job id.
func (h *JobHandlers) EnqueueImport(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("listId")
	if listID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("list id is required")})
		return
	}

	var req importIntakeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Enrichment.EnqueueImport(r.Context(), service.EnqueueImportParams{
		ListID:     listID,
		CampaignID: req.CampaignID,
		Contacts:   req.Contacts,
		OnComplete: req.OnComplete,
		MaxRetries: h.DefaultMaxRetries,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteAccepted(w, job.ID)
}

// GetStatus handles HTTP requests to poll a job's status.
func (h *JobHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("job id is required")})
		return
	}

	status, err := h.Svc.GetStatus(r.Context(), jobID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// Stats handles HTTP requests for job queue statistics by type.
func (h *JobHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	jobType := model.JobType(r.PathValue("type"))
	if !jobType.Valid() {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("invalid job type")})
		return
	}

	stats, err := h.Svc.Stats(r.Context(), jobType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// List handles HTTP requests for the admin job listing with filters.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, 1000)
	opts := &model.JobListOptions{Limit: limit, Offset: offset}

	if v := r.URL.Query().Get("type"); v != "" {
		jt := model.JobType(v)
		if !jt.Valid() {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("invalid job type")})
			return
		}
		opts.Type = &jt
	}
	if v := r.URL.Query().Get("status"); v != "" {
		js := model.JobStatus(v)
		if !js.Valid() {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("invalid job status")})
			return
		}
		opts.Status = &js
	}
	if v := r.URL.Query().Get("list_id"); v != "" {
		opts.ListID = &v
	}

	jobs, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, jobs)
}

// GetResults handles HTTP requests for a job's persisted per-candidate results.
func (h *JobHandlers) GetResults(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("job id is required")})
		return
	}
	if h.JobResults == nil {
		WriteError(w, ErrorParams{Code: http.StatusNotImplemented, Err: errors.New("job results not configured")})
		return
	}

	results, err := h.JobResults.ListByJobID(r.Context(), jobID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, results)
}

// Delete handles HTTP requests to delete a pending job.
func (h *JobHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: errors.New("job id is required")})
		return
	}

	if err := h.Svc.Delete(r.Context(), jobID); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// writeServiceError maps service and data layer errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrJobNotFound),
		errors.Is(err, data.ErrListNotFound),
		errors.Is(err, data.ErrRecipientNotFound),
		errors.Is(err, data.ErrCampaignNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, Err: err})
	case errors.Is(err, data.ErrListNameExists),
		errors.Is(err, data.ErrListStatusConflict),
		errors.Is(err, data.ErrCampaignParentNotFound),
		errors.Is(err, data.ErrJobNotDeletable),
		errors.Is(err, data.ErrJobReserved):
		WriteError(w, ErrorParams{Code: http.StatusConflict, Err: err})
	case isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, Err: err})
	}
}
