package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/models"
)

// mockScrapeService implements ScrapeService for testing
type mockScrapeService struct {
	runFunc func(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapeResult, error)
}

func (m *mockScrapeService) Run(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapeResult, error) {
	if m.runFunc != nil {
		return m.runFunc(ctx, req)
	}
	return &models.ScrapeResult{RunID: "run-1", URL: req.URL}, nil
}

// mockBroadcaster records broadcast events
type mockBroadcaster struct {
	events []string
}

func (m *mockBroadcaster) Broadcast(eventType string, payload interface{}) {
	m.events = append(m.events, eventType)
}

func executeScrape(handler *ScrapeHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/scrape", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ScrapeHandler(rec, req)
	return rec
}

func TestScrapeHandler_Success(t *testing.T) {
	service := &mockScrapeService{
		runFunc: func(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapeResult, error) {
			return &models.ScrapeResult{
				RunID:   "run-42",
				URL:     req.URL,
				Records: []models.Record{{ID: "0-Widget", Title: "Widget"}},
			}, nil
		},
	}
	events := &mockBroadcaster{}
	handler := NewScrapeHandler(service, events, arbor.NewLogger())

	rec := executeScrape(handler, `{"url": "https://example.com/products"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ScrapeResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "run-42", result.RunID)
	assert.Len(t, result.Records, 1)

	assert.Equal(t, []string{"scrape_started", "scrape_completed"}, events.events)
}

func TestScrapeHandler_InvalidURL(t *testing.T) {
	handler := NewScrapeHandler(&mockScrapeService{}, nil, arbor.NewLogger())

	rec := executeScrape(handler, `{"url": "not a url"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrapeHandler_MalformedBody(t *testing.T) {
	handler := NewScrapeHandler(&mockScrapeService{}, nil, arbor.NewLogger())

	rec := executeScrape(handler, `{"url": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrapeHandler_FetchErrorMapsToBadGateway(t *testing.T) {
	service := &mockScrapeService{
		runFunc: func(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapeResult, error) {
			return nil, &models.FetchError{URL: req.URL, StatusCode: 404, Status: "404 Not Found"}
		},
	}
	events := &mockBroadcaster{}
	handler := NewScrapeHandler(service, events, arbor.NewLogger())

	rec := executeScrape(handler, `{"url": "https://example.com/missing"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "error", response["status"])
	assert.Contains(t, response["error"], "404")
	assert.Equal(t, "Check the URL and retry.", response["hint"])

	assert.Equal(t, []string{"scrape_started", "scrape_failed"}, events.events)
}

func TestScrapeHandler_NoContainerMatchMapsToUnprocessable(t *testing.T) {
	service := &mockScrapeService{
		runFunc: func(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapeResult, error) {
			return nil, models.ErrNoContainerMatch
		},
	}
	handler := NewScrapeHandler(service, nil, arbor.NewLogger())

	rec := executeScrape(handler, `{"url": "https://example.com", "selectors": {"container": ".missing", "title": "h2"}}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Contains(t, response["error"], "container selector")
	assert.Contains(t, response["hint"], "Adjust the container selector")
}

func TestScrapeHandler_SchemaErrorMapsToBadGateway(t *testing.T) {
	service := &mockScrapeService{
		runFunc: func(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapeResult, error) {
			return nil, &models.SchemaValidationError{Reason: "missing container"}
		},
	}
	handler := NewScrapeHandler(service, nil, arbor.NewLogger())

	rec := executeScrape(handler, `{"url": "https://example.com"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Contains(t, response["error"], "selector structure")
}

func TestScrapeHandler_UnknownErrorMapsToInternal(t *testing.T) {
	service := &mockScrapeService{
		runFunc: func(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapeResult, error) {
			return nil, context.DeadlineExceeded
		},
	}
	handler := NewScrapeHandler(service, nil, arbor.NewLogger())

	rec := executeScrape(handler, `{"url": "https://example.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestScrapeHandler_MethodNotAllowed(t *testing.T) {
	handler := NewScrapeHandler(&mockScrapeService{}, nil, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/scrape", nil)
	rec := httptest.NewRecorder()
	handler.ScrapeHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
