// -----------------------------------------------------------------------
// Cleaning Adapter - AI tidy-up of extracted data, shape preserved
// -----------------------------------------------------------------------

package cleaner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/interfaces"
	"github.com/ternarybob/sitescoop/internal/models"
	"github.com/ternarybob/sitescoop/internal/services/llm"
)

const systemPrompt = `You are an expert data cleaning specialist. You will be given a string of raw data scraped from a website. Your task is to clean it based on the provided content type.

**Instructions:**
- **If contentType is 'text':**
  - Remove any leftover HTML artifacts.
  - Correct obvious typos and grammatical errors.
  - Improve formatting, paragraph breaks, and spacing for readability.
  - Remove irrelevant boilerplate text like navigation links, headers, or footers that got included.
  - Return the cleaned text as a single string.
- **If contentType is 'links':**
  - The input will be a JSON string array of URLs.
  - Remove any duplicates.
  - Remove any links that are not valid, absolute URLs (e.g., internal anchors like '#', or javascript calls).
  - Return a JSON string array of the cleaned, unique URLs.
- **If contentType is 'images':**
  - The input will be a JSON string array of image source URLs.
  - Remove any duplicates.
  - Remove any invalid URLs or placeholders (e.g., 1x1 pixel trackers, base64 encoded tiny images).
  - Return a JSON string array of the cleaned, unique image URLs.
- **If contentType is 'tables':**
  - The input is a JSON string representing an array of tables (string[][][]).
  - Clean the text within each cell (e.g., remove excess whitespace, fix typos).
  - Do NOT alter the structure (number of tables, rows, or columns).
  - Return a JSON string in the exact same string[][][] format.
- **If contentType is 'records':**
  - The input is a JSON array of extracted records.
  - Clean the text fields (title, description, date) in place.
  - Do NOT add, remove, or reorder records, and do NOT change ids, links, image URLs, prices, or ratings.
  - Return a JSON array in the exact same format.

Return the result as a string in the 'cleanedData' field. Respond with the JSON object only, no prose and no markdown fences.`

// Service runs an AI cleaning pass over extracted content. The model may
// rewrite values but never the shape: a response that changes table
// dimensions or record counts is rejected as *models.CleaningFailedError,
// and the caller keeps the uncleaned value. Cleaning is never destructive.
type Service struct {
	generator interfaces.ContentGenerator
	logger    arbor.ILogger
}

// NewService creates a new cleaning service
func NewService(generator interfaces.ContentGenerator, logger arbor.ILogger) *Service {
	return &Service{
		generator: generator,
		logger:    logger,
	}
}

// OutputSchema is the JSON schema handed to providers that support
// structured output.
func OutputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"cleanedData": map[string]interface{}{
				"type":        "string",
				"description": "The cleaned data as a string, in the same basic format as the input.",
			},
		},
		"required": []string{"cleanedData"},
	}
}

// CleanContent cleans a category extraction. Returns a new bundle; the input
// is never mutated.
func (s *Service) CleanContent(ctx context.Context, bundle *models.ContentBundle) (*models.ContentBundle, error) {
	raw, err := serializeBundle(bundle)
	if err != nil {
		return nil, err
	}

	cleanedData, err := s.clean(ctx, string(bundle.ContentType), raw)
	if err != nil {
		return nil, err
	}

	cleaned := *bundle
	switch bundle.ContentType {
	case models.ContentTypeText:
		cleaned.Text = cleanedData
	case models.ContentTypeLinks:
		cleaned.Links, err = parseURLList(cleanedData)
		if err == nil {
			err = verifyListShape(bundle.Links, cleaned.Links)
		}
	case models.ContentTypeImages:
		cleaned.Images, err = parseURLList(cleanedData)
		if err == nil {
			err = verifyListShape(bundle.Images, cleaned.Images)
		}
	case models.ContentTypeTables:
		cleaned.Tables, err = parseTables(cleanedData)
		if err == nil {
			err = verifyTableShape(bundle.Tables, cleaned.Tables)
		}
	default:
		return nil, fmt.Errorf("unknown content type: %q", bundle.ContentType)
	}
	if err != nil {
		s.logger.Warn().Err(err).
			Str("content_type", string(bundle.ContentType)).
			Msg("Cleaning rejected, original value retained")
		return nil, err
	}

	s.logger.Debug().
		Str("content_type", string(bundle.ContentType)).
		Int("items", cleaned.ItemCount()).
		Msg("Content cleaned")

	return &cleaned, nil
}

// CleanRecords cleans the text fields of extracted records. The record
// count must survive the round trip.
func (s *Service) CleanRecords(ctx context.Context, records []models.Record) ([]models.Record, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize records for cleaning: %w", err)
	}

	cleanedData, err := s.clean(ctx, "records", string(raw))
	if err != nil {
		return nil, err
	}

	var cleaned []models.Record
	if err := json.Unmarshal([]byte(llm.CleanMarkdownFences(cleanedData)), &cleaned); err != nil {
		return nil, &models.CleaningFailedError{Reason: "records response is not valid JSON"}
	}

	if err := verifyRecordShape(records, cleaned); err != nil {
		s.logger.Warn().Err(err).Int("records", len(records)).Msg("Cleaning rejected, original records retained")
		return nil, err
	}

	return cleaned, nil
}

// clean performs one model round trip and returns the cleanedData payload.
func (s *Service) clean(ctx context.Context, contentType string, rawData string) (string, error) {
	messages := []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("**Content Type:** %s\n\n**Input Data:**\n```\n%s\n```", contentType, rawData)},
	}

	response, err := s.generator.GenerateText(ctx, messages, "", OutputSchema())
	if err != nil {
		return "", fmt.Errorf("cleaning request failed: %w", err)
	}

	var payload struct {
		CleanedData string `json:"cleanedData"`
	}
	if err := json.Unmarshal([]byte(llm.CleanMarkdownFences(response)), &payload); err != nil {
		return "", &models.CleaningFailedError{Reason: "response is not valid JSON"}
	}
	if strings.TrimSpace(payload.CleanedData) == "" {
		return "", &models.CleaningFailedError{Reason: "empty response"}
	}

	return payload.CleanedData, nil
}

// serializeBundle renders the bundle's payload the way the prompt expects:
// plain text for the text category, JSON for everything else.
func serializeBundle(bundle *models.ContentBundle) (string, error) {
	switch bundle.ContentType {
	case models.ContentTypeText:
		return bundle.Text, nil
	case models.ContentTypeLinks:
		return marshalJSON(bundle.Links)
	case models.ContentTypeImages:
		return marshalJSON(bundle.Images)
	case models.ContentTypeTables:
		return marshalJSON(bundle.Tables)
	default:
		return "", fmt.Errorf("unknown content type: %q", bundle.ContentType)
	}
}

func marshalJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize data for cleaning: %w", err)
	}
	return string(data), nil
}

// parseURLList decodes a cleaned URL array. Models occasionally return a
// bare newline-separated list instead of JSON; that degrades gracefully to
// line splitting rather than failing the clean.
func parseURLList(cleanedData string) ([]string, error) {
	cleaned := llm.CleanMarkdownFences(cleanedData)

	var urls []string
	if err := json.Unmarshal([]byte(cleaned), &urls); err == nil {
		return urls, nil
	}

	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}
	if len(urls) == 0 {
		return nil, &models.CleaningFailedError{Reason: "empty response"}
	}
	return urls, nil
}

func parseTables(cleanedData string) ([][][]string, error) {
	var tables [][][]string
	if err := json.Unmarshal([]byte(llm.CleanMarkdownFences(cleanedData)), &tables); err != nil {
		return nil, &models.CleaningFailedError{Reason: "tables response is not valid JSON"}
	}
	return tables, nil
}
