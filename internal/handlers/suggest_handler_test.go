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

// mockPageFetcher implements PageFetcher for testing
type mockPageFetcher struct {
	fetchFunc func(ctx context.Context, url string) (string, error)
}

func (m *mockPageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return "<html><body></body></html>", nil
}

func (m *mockPageFetcher) TruncateForPrompt(html string) string {
	return html
}

// mockSuggesterService implements SelectorSuggester for testing
type mockSuggesterService struct {
	suggestFunc func(ctx context.Context, pageURL string, html string) (*models.SelectorSet, error)
}

func (m *mockSuggesterService) SuggestSelectors(ctx context.Context, pageURL string, html string) (*models.SelectorSet, error) {
	if m.suggestFunc != nil {
		return m.suggestFunc(ctx, pageURL, html)
	}
	return &models.SelectorSet{Container: ".item", Title: "h2"}, nil
}

func executeSuggest(handler *SuggestHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/suggest", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SuggestHandler(rec, req)
	return rec
}

func TestSuggestHandler_Success(t *testing.T) {
	fetcher := &mockPageFetcher{}
	suggester := &mockSuggesterService{
		suggestFunc: func(ctx context.Context, pageURL string, html string) (*models.SelectorSet, error) {
			return &models.SelectorSet{Container: ".product", Title: ".product-title", Price: ".product-price"}, nil
		},
	}
	handler := NewSuggestHandler(fetcher, suggester, arbor.NewLogger())

	rec := executeSuggest(handler, `{"url": "https://example.com/products"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var sel models.SelectorSet
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sel))
	assert.Equal(t, ".product", sel.Container)
	assert.Equal(t, ".product-title", sel.Title)
}

func TestSuggestHandler_MissingURL(t *testing.T) {
	handler := NewSuggestHandler(&mockPageFetcher{}, &mockSuggesterService{}, arbor.NewLogger())

	rec := executeSuggest(handler, `{"url": "  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestHandler_FetchFailure(t *testing.T) {
	fetcher := &mockPageFetcher{
		fetchFunc: func(ctx context.Context, url string) (string, error) {
			return "", &models.FetchError{URL: url, Network: true, Err: context.DeadlineExceeded}
		},
	}
	handler := NewSuggestHandler(fetcher, &mockSuggesterService{}, arbor.NewLogger())

	rec := executeSuggest(handler, `{"url": "https://unreachable.example"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSuggestHandler_SchemaFailure(t *testing.T) {
	suggester := &mockSuggesterService{
		suggestFunc: func(ctx context.Context, pageURL string, html string) (*models.SelectorSet, error) {
			return nil, &models.SchemaValidationError{Reason: "response is not valid JSON"}
		},
	}
	handler := NewSuggestHandler(&mockPageFetcher{}, suggester, arbor.NewLogger())

	rec := executeSuggest(handler, `{"url": "https://example.com"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Contains(t, response["error"], "selector structure")
}
