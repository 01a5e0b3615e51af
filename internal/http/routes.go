package httpx

import (
	"log/slog"
	"net/http"

	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs       *service.JobService
	Enrichment *service.EnrichmentService
	Lists      *service.ListService
	Campaigns  *service.CampaignService
	JobResults core.JobResultRepository

	// DefaultMaxRetries is applied to jobs enqueued through the API.
	DefaultMaxRetries int

	Logger *slog.Logger // Logger for request logging and panic recovery (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{
		Svc:               services.Jobs,
		Enrichment:        services.Enrichment,
		JobResults:        services.JobResults,
		DefaultMaxRetries: services.DefaultMaxRetries,
	}
	listHandlers := &ListHandlers{Svc: services.Lists}
	campaignHandlers := &CampaignHandlers{Svc: services.Campaigns}

	registerJobRoutes(mux, jobHandlers)
	registerListRoutes(mux, listHandlers)
	registerCampaignRoutes(mux, campaignHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	if services.Logger != nil {
		handler = Logging(services.Logger)(handler)
		handler = Recover(services.Logger)(handler)
	}
	return handler
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	mux.HandleFunc("POST /api/lists/{listId}/lookalike", h.EnqueueLookalike)
	mux.HandleFunc("POST /api/lists/{listId}/import", h.EnqueueImport)
	mux.HandleFunc("GET /api/jobs", h.List)
	mux.HandleFunc("GET /api/jobs/{type}/stats", h.Stats)
	mux.HandleFunc("GET /api/jobs/{id}/status", h.GetStatus)
	mux.HandleFunc("GET /api/jobs/{id}/results", h.GetResults)
	mux.HandleFunc("DELETE /api/jobs/{id}", h.Delete)
}

func registerListRoutes(mux *http.ServeMux, h *ListHandlers) {
	mux.HandleFunc("POST /api/lists", h.Create)
	mux.HandleFunc("GET /api/lists", h.List)
	mux.HandleFunc("GET /api/lists/{id}", h.GetByID)
	mux.HandleFunc("GET /api/lists/{id}/recipients", h.ListRecipients)
	mux.HandleFunc("DELETE /api/lists/{id}", h.Delete)
}

func registerCampaignRoutes(mux *http.ServeMux, h *CampaignHandlers) {
	mux.HandleFunc("POST /api/campaigns", h.Create)
	mux.HandleFunc("GET /api/campaigns", h.List)
	mux.HandleFunc("GET /api/campaigns/{id}", h.GetByID)
	mux.HandleFunc("PUT /api/campaigns/{id}", h.Update)
	mux.HandleFunc("PATCH /api/campaigns/{id}", h.Update)
	mux.HandleFunc("DELETE /api/campaigns/{id}", h.Delete)
}
