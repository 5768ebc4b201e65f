package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/models"
)

// ScrapeService runs the scrape pipeline.
type ScrapeService interface {
	Run(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapeResult, error)
}

// EventBroadcaster pushes run-status events to connected clients.
type EventBroadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// ScrapeHandler handles scrape run HTTP requests
type ScrapeHandler struct {
	scrapeService ScrapeService
	events        EventBroadcaster
	validate      *validator.Validate
	logger        arbor.ILogger
}

// NewScrapeHandler creates a new scrape handler
func NewScrapeHandler(scrapeService ScrapeService, events EventBroadcaster, logger arbor.ILogger) *ScrapeHandler {
	return &ScrapeHandler{
		scrapeService: scrapeService,
		events:        events,
		validate:      validator.New(),
		logger:        logger,
	}
}

// ScrapeHandler handles POST /api/scrape - runs one scrape end to end
func (h *ScrapeHandler) ScrapeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.ScrapeRequest
	if !DecodeBody(w, r, &req) {
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "A valid url is required")
		return
	}

	if h.events != nil {
		h.events.Broadcast("scrape_started", map[string]string{"url": req.URL})
	}

	result, err := h.scrapeService.Run(r.Context(), &req)
	if err != nil {
		if h.events != nil {
			h.events.Broadcast("scrape_failed", map[string]string{"url": req.URL, "error": err.Error()})
		}
		WriteRunError(w, h.logger, err)
		return
	}

	if h.events != nil {
		h.events.Broadcast("scrape_completed", map[string]interface{}{
			"run_id":  result.RunID,
			"url":     result.URL,
			"records": len(result.Records),
		})
	}

	WriteJSON(w, http.StatusOK, result)
}
