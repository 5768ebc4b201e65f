package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/common"
	"github.com/ternarybob/sitescoop/internal/models"
)

func newTestService(maxBody, maxPrompt int) *Service {
	return NewService(&common.FetcherConfig{
		UserAgent:      "test-agent",
		RequestTimeout: 5 * time.Second,
		MaxBodySize:    maxBody,
		MaxPromptHTML:  maxPrompt,
		AcceptLanguage: "en-US,en;q=0.9",
	}, arbor.NewLogger())
}

func TestFetch_Success(t *testing.T) {
	var gotUA, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	service := newTestService(0, 0)
	html, err := service.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "<body>ok</body>")
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "en-US,en;q=0.9", gotLang)
}

func TestFetch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	service := newTestService(0, 0)
	_, err := service.Fetch(context.Background(), server.URL)

	var fetchErr *models.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.False(t, fetchErr.Network)
}

func TestFetch_NetworkFailure(t *testing.T) {
	// Closed server guarantees a connection error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	service := newTestService(0, 0)
	_, err := service.Fetch(context.Background(), url)

	var fetchErr *models.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.Network)
	assert.Zero(t, fetchErr.StatusCode)
}

func TestFetch_BodySizeCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer server.Close()

	service := newTestService(100, 0)
	html, err := service.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Len(t, html, 100)
}

func TestTruncateForPrompt(t *testing.T) {
	service := newTestService(0, 10)

	assert.Equal(t, "short", service.TruncateForPrompt("short"))
	assert.Equal(t, "0123456789", service.TruncateForPrompt("0123456789abcdef"))

	unlimited := newTestService(0, 0)
	long := strings.Repeat("y", 100000)
	assert.Equal(t, long, unlimited.TruncateForPrompt(long))
}
