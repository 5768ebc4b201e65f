// -----------------------------------------------------------------------
// Selector Suggestion - AI-proposed CSS selectors for a fetched page
// -----------------------------------------------------------------------

package suggest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/interfaces"
	"github.com/ternarybob/sitescoop/internal/models"
	"github.com/ternarybob/sitescoop/internal/services/llm"
)

const systemPrompt = `You are an expert web scraper. Given the URL and HTML content of a webpage, suggest CSS selectors to extract product information.

Identify a repeating container element for each product. Then, within that container, find the selectors for the name, price, rating, and image URL.

Return the selectors as a JSON object with keys "container", "name", "price", "rating", and "imageUrl". The selectors for name, price, rating and imageUrl should be relative to the container. Respond with the JSON object only, no prose and no markdown fences.`

// Service asks the configured LLM for a selector set describing the
// repeating items on a page. The model proposes structure; it never
// extracts data. Anything structurally unusable is rejected as a
// *models.SchemaValidationError before reaching the extraction engine.
type Service struct {
	generator interfaces.ContentGenerator
	validate  *validator.Validate
	logger    arbor.ILogger
}

// NewService creates a new selector suggestion service
func NewService(generator interfaces.ContentGenerator, logger arbor.ILogger) *Service {
	return &Service{
		generator: generator,
		validate:  validator.New(),
		logger:    logger,
	}
}

// OutputSchema is the JSON schema handed to providers that support
// structured output.
func OutputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"container": map[string]interface{}{
				"type":        "string",
				"description": "The CSS selector for the main container of a single item in the list.",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "The CSS selector for the product name, relative to the container.",
			},
			"price": map[string]interface{}{
				"type":        "string",
				"description": "The CSS selector for the product price, relative to the container.",
			},
			"rating": map[string]interface{}{
				"type":        "string",
				"description": "The CSS selector for the product rating, relative to the container.",
			},
			"imageUrl": map[string]interface{}{
				"type":        "string",
				"description": "The CSS selector for the product image, relative to the container.",
			},
		},
		"required": []string{"container", "name"},
	}
}

// SuggestSelectors proposes a selector set for the given page. The HTML
// should already be truncated to prompt size by the fetcher.
func (s *Service) SuggestSelectors(ctx context.Context, pageURL string, html string) (*models.SelectorSet, error) {
	messages := []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("URL: %s\nContent:\n%s", pageURL, html)},
	}

	s.logger.Debug().
		Str("url", pageURL).
		Int("html_bytes", len(html)).
		Msg("Requesting selector suggestions")

	response, err := s.generator.GenerateText(ctx, messages, "", OutputSchema())
	if err != nil {
		return nil, fmt.Errorf("selector suggestion request failed: %w", err)
	}

	sel, err := s.parseResponse(response)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", pageURL).Msg("Rejected selector suggestion")
		return nil, err
	}

	s.logger.Info().
		Str("url", pageURL).
		Str("container", sel.Container).
		Msg("Selector suggestions accepted")

	return sel, nil
}

// parseResponse turns the raw model output into a validated SelectorSet.
// Malformed JSON and structurally invalid selector sets both surface as
// *models.SchemaValidationError with no partial data.
func (s *Service) parseResponse(response string) (*models.SelectorSet, error) {
	cleaned := llm.CleanMarkdownFences(response)
	if cleaned == "" {
		return nil, &models.SchemaValidationError{Reason: "empty response"}
	}

	var sel models.SelectorSet
	if err := json.Unmarshal([]byte(cleaned), &sel); err != nil {
		return nil, &models.SchemaValidationError{Reason: "response is not valid JSON", Err: err}
	}

	if err := s.validate.Struct(&sel); err != nil {
		return nil, &models.SchemaValidationError{Reason: "missing required selector fields", Err: err}
	}

	if err := sel.Validate(); err != nil {
		return nil, &models.SchemaValidationError{Reason: err.Error(), Err: err}
	}

	return &sel, nil
}
