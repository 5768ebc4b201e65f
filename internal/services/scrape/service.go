// -----------------------------------------------------------------------
// Scrape Orchestration - fetch, suggest/extract, clean, summarize
// -----------------------------------------------------------------------

package scrape

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/common"
	"github.com/ternarybob/sitescoop/internal/models"
)

// Fetcher retrieves page HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	TruncateForPrompt(html string) string
}

// Suggester proposes selectors for a page.
type Suggester interface {
	SuggestSelectors(ctx context.Context, pageURL string, html string) (*models.SelectorSet, error)
}

// Extractor runs the deterministic extraction engine.
type Extractor interface {
	ExtractRecords(html string, baseURL string, sel *models.SelectorSet) ([]models.Record, error)
	ExtractContent(html string, baseURL string, contentType models.ContentType) (*models.ContentBundle, error)
}

// Cleaner runs the AI cleaning pass.
type Cleaner interface {
	CleanContent(ctx context.Context, bundle *models.ContentBundle) (*models.ContentBundle, error)
	CleanRecords(ctx context.Context, records []models.Record) ([]models.Record, error)
}

// Summarizer produces a short summary of scraped data.
type Summarizer interface {
	Summarize(ctx context.Context, data string, sourceURL string) (string, error)
	SummarizeRecords(ctx context.Context, records []models.Record, sourceURL string) (string, error)
}

// Service sequences one scrape run: fetch, then either the selector path or
// the category path, then optional cleaning and summarization. Runs share no
// state; every call is independent. The pipeline stops at the first typed
// error, except cleaning and summarization which degrade without failing the
// run.
type Service struct {
	fetcher    Fetcher
	suggester  Suggester
	extractor  Extractor
	cleaner    Cleaner
	summarizer Summarizer
	logger     arbor.ILogger
}

// NewService creates a new scrape orchestration service
func NewService(fetcher Fetcher, suggester Suggester, extractor Extractor, cleaner Cleaner, summarizer Summarizer, logger arbor.ILogger) *Service {
	return &Service{
		fetcher:    fetcher,
		suggester:  suggester,
		extractor:  extractor,
		cleaner:    cleaner,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Run executes one scrape end to end.
func (s *Service) Run(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapeResult, error) {
	start := time.Now()
	result := &models.ScrapeResult{
		RunID: common.NewRunID(),
		URL:   req.URL,
	}

	s.logger.Info().
		Str("run_id", result.RunID).
		Str("url", req.URL).
		Str("content_type", req.ContentType).
		Bool("has_selectors", req.Selectors != nil).
		Msg("Starting scrape run")

	html, err := s.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	switch {
	case req.Selectors != nil:
		result.Selectors = req.Selectors
		result.Records, err = s.extractor.ExtractRecords(html, req.URL, req.Selectors)
	case req.ContentType != "":
		var contentType models.ContentType
		contentType, err = models.ParseContentType(req.ContentType)
		if err == nil {
			result.Content, err = s.extractor.ExtractContent(html, req.URL, contentType)
		}
	default:
		result.Selectors, err = s.suggester.SuggestSelectors(ctx, req.URL, s.fetcher.TruncateForPrompt(html))
		if err == nil {
			result.Records, err = s.extractor.ExtractRecords(html, req.URL, result.Selectors)
		}
	}
	if err != nil {
		return nil, err
	}

	if req.Clean {
		s.applyCleaning(ctx, result)
	}

	if req.Summarize {
		s.applySummary(ctx, result)
	}

	elapsed := time.Since(start)
	result.DurationMS = elapsed.Milliseconds()

	s.logger.Info().
		Str("run_id", result.RunID).
		Int("records", len(result.Records)).
		Bool("cleaned", result.Cleaned).
		Dur("duration", elapsed).
		Msg("Scrape run completed")

	return result, nil
}

// applyCleaning runs the AI cleaning pass. A cleaning failure keeps the
// uncleaned data and surfaces as a warning on the result.
func (s *Service) applyCleaning(ctx context.Context, result *models.ScrapeResult) {
	var err error
	switch {
	case result.Records != nil:
		var cleaned []models.Record
		cleaned, err = s.cleaner.CleanRecords(ctx, result.Records)
		if err == nil {
			result.Records = cleaned
		}
	case result.Content != nil:
		var cleaned *models.ContentBundle
		cleaned, err = s.cleaner.CleanContent(ctx, result.Content)
		if err == nil {
			result.Content = cleaned
		}
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("run_id", result.RunID).Msg("Cleaning failed, keeping raw data")
		result.CleanWarning = err.Error()
		return
	}
	result.Cleaned = true
}

// applySummary attaches a summary when possible. Failure only omits the
// summary.
func (s *Service) applySummary(ctx context.Context, result *models.ScrapeResult) {
	var summary string
	var err error

	switch {
	case result.Records != nil:
		summary, err = s.summarizer.SummarizeRecords(ctx, result.Records, result.URL)
	case result.Content != nil:
		var data string
		data, err = result.Content.MarshalPayload()
		if err == nil {
			summary, err = s.summarizer.Summarize(ctx, data, result.URL)
		}
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("run_id", result.RunID).Msg("Summarization failed, omitting summary")
		return
	}
	result.Summary = summary
}
