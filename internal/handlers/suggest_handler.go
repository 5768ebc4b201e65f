package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/models"
)

// PageFetcher retrieves page HTML for suggestion prompts.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	TruncateForPrompt(html string) string
}

// SelectorSuggester proposes selectors for a page.
type SelectorSuggester interface {
	SuggestSelectors(ctx context.Context, pageURL string, html string) (*models.SelectorSet, error)
}

// SuggestHandler handles selector suggestion HTTP requests
type SuggestHandler struct {
	fetcher   PageFetcher
	suggester SelectorSuggester
	logger    arbor.ILogger
}

// NewSuggestHandler creates a new suggest handler
func NewSuggestHandler(fetcher PageFetcher, suggester SelectorSuggester, logger arbor.ILogger) *SuggestHandler {
	return &SuggestHandler{
		fetcher:   fetcher,
		suggester: suggester,
		logger:    logger,
	}
}

// SuggestHandler handles POST /api/suggest - fetches a page and proposes selectors
func (h *SuggestHandler) SuggestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if !DecodeBody(w, r, &req) {
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		WriteError(w, http.StatusBadRequest, "A valid url is required")
		return
	}

	html, err := h.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		WriteRunError(w, h.logger, err)
		return
	}

	sel, err := h.suggester.SuggestSelectors(r.Context(), req.URL, h.fetcher.TruncateForPrompt(html))
	if err != nil {
		WriteRunError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, sel)
}
