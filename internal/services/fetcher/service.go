package fetcher

import (
	"context"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/common"
	"github.com/ternarybob/sitescoop/internal/httpclient"
	"github.com/ternarybob/sitescoop/internal/models"
)

// Service retrieves raw HTML for a URL. Many sites reject non-browser
// agents, so every request carries a fixed desktop-browser User-Agent.
// A single failed fetch is reported immediately; retrying is the caller's
// decision.
type Service struct {
	config *common.FetcherConfig
	client *http.Client
	logger arbor.ILogger
}

// NewService creates a new fetcher service
func NewService(config *common.FetcherConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		client: httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		logger: logger,
	}
}

// Fetch performs an HTTP GET and returns the response body as text when the
// status is in the 2xx range. Non-2xx responses and transport failures are
// surfaced as *models.FetchError.
func (s *Service) Fetch(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", &models.FetchError{URL: targetURL, Network: true, Err: err}
	}

	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept-Language", s.config.AcceptLanguage)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	s.logger.Debug().Str("url", targetURL).Msg("Fetching page")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", targetURL).Msg("Fetch transport failure")
		return "", &models.FetchError{URL: targetURL, Network: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn().
			Str("url", targetURL).
			Int("status_code", resp.StatusCode).
			Msg("Fetch returned non-2xx status")
		return "", &models.FetchError{
			URL:        targetURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	body := io.Reader(resp.Body)
	if s.config.MaxBodySize > 0 {
		body = io.LimitReader(resp.Body, int64(s.config.MaxBodySize))
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", &models.FetchError{URL: targetURL, Network: true, Err: err}
	}

	s.logger.Debug().
		Str("url", targetURL).
		Int("bytes", len(data)).
		Msg("Fetched page content")

	return string(data), nil
}

// TruncateForPrompt bounds HTML handed to the LLM so selector suggestion
// prompts stay within context limits.
func (s *Service) TruncateForPrompt(html string) string {
	if s.config.MaxPromptHTML <= 0 || len(html) <= s.config.MaxPromptHTML {
		return html
	}
	return html[:s.config.MaxPromptHTML]
}
