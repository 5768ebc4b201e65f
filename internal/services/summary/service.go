// -----------------------------------------------------------------------
// Data Summarization - one-paragraph AI summary of scraped data
// -----------------------------------------------------------------------

package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/interfaces"
	"github.com/ternarybob/sitescoop/internal/models"
)

const systemPrompt = `You are an expert data summarizer. You will summarize the data scraped from the following URL. The summarization should be concise and highlight the key insights. Respond with the summary text only.`

// maxSummaryInput bounds the serialized data handed to the model.
const maxSummaryInput = 30000

// Service produces a short natural-language summary of scraped data.
// Summaries decorate the scrape response; a failure here never fails the
// scrape.
type Service struct {
	generator interfaces.ContentGenerator
	logger    arbor.ILogger
}

// NewService creates a new summarization service
func NewService(generator interfaces.ContentGenerator, logger arbor.ILogger) *Service {
	return &Service{
		generator: generator,
		logger:    logger,
	}
}

// Summarize returns a concise summary of the serialized scraped data.
func (s *Service) Summarize(ctx context.Context, data string, sourceURL string) (string, error) {
	if strings.TrimSpace(data) == "" {
		return "", fmt.Errorf("no data to summarize")
	}
	if len(data) > maxSummaryInput {
		data = data[:maxSummaryInput]
	}

	messages := []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("URL: %s\nData: %s", sourceURL, data)},
	}

	response, err := s.generator.GenerateText(ctx, messages, "", nil)
	if err != nil {
		return "", fmt.Errorf("summarization request failed: %w", err)
	}

	summary := strings.TrimSpace(response)
	if summary == "" {
		return "", fmt.Errorf("empty summary response")
	}

	s.logger.Debug().
		Str("url", sourceURL).
		Int("summary_chars", len(summary)).
		Msg("Summary generated")

	return summary, nil
}

// SummarizeRecords serializes records to JSON and summarizes them.
func (s *Service) SummarizeRecords(ctx context.Context, records []models.Record, sourceURL string) (string, error) {
	data, err := marshalRecords(records)
	if err != nil {
		return "", err
	}
	return s.Summarize(ctx, data, sourceURL)
}
