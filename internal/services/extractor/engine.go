// -----------------------------------------------------------------------
// Extraction Engine - Selector-driven record extraction from HTML
// -----------------------------------------------------------------------

package extractor

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/models"
)

const (
	// PlaceholderImageURL substitutes image URLs that cannot be resolved
	// against the page base.
	PlaceholderImageURL = "https://placehold.co/300x300.png"

	// PlaceholderLink substitutes links that cannot be resolved.
	PlaceholderLink = "#"

	// idSliceLength is how much of the primary field text goes into the
	// derived record ID.
	idSliceLength = 20
)

// whitespaceRegex collapses runs of whitespace (including newlines from
// pretty-printed HTML) into single spaces.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// nonNumericRegex strips currency symbols, thousands separators and other
// decoration from price/rating text before parsing.
var nonNumericRegex = regexp.MustCompile(`[^0-9.\-]`)

// Service extracts structured records and category content from HTML.
// Extraction is deterministic: the same HTML and selectors always produce
// the same records, with no AI involvement.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new extraction service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// ExtractRecords applies a selector set to HTML and returns one record per
// matched container, in document order. Returns models.ErrNoContainerMatch
// when the container selector matches nothing and models.ErrEmptyResult when
// containers matched but every record was dropped for missing required
// fields. Per-field failures never abort a record; they leave the field at
// its zero value.
func (s *Service) ExtractRecords(html string, baseURL string, sel *models.SelectorSet) ([]models.Record, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Selectors arrive from AI suggestions or user input, so they are
	// compiled defensively instead of through Find, which panics on
	// invalid input.
	containerMatcher, err := cascadia.Compile(sel.Container)
	if err != nil {
		return nil, fmt.Errorf("invalid container selector %q: %w", sel.Container, err)
	}

	containers := doc.FindMatcher(containerMatcher)
	if containers.Length() == 0 {
		return nil, models.ErrNoContainerMatch
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("base_url", baseURL).Msg("Failed to parse base URL for link resolution")
		base = nil
	}

	fields := s.compileFieldMatchers(sel)

	records := make([]models.Record, 0, containers.Length())
	containers.Each(func(i int, container *goquery.Selection) {
		record := s.extractRecord(i, container, fields, base)
		if record == nil {
			return
		}
		records = append(records, *record)
	})

	if len(records) == 0 {
		s.logger.Warn().
			Int("containers", containers.Length()).
			Str("container_selector", sel.Container).
			Msg("All matched containers dropped for missing required fields")
		return nil, models.ErrEmptyResult
	}

	s.logger.Debug().
		Int("containers", containers.Length()).
		Int("records", len(records)).
		Msg("Records extracted")

	return records, nil
}

// fieldMatchers holds the compiled per-field selectors. A nil matcher means
// the field selector was empty or invalid and the field stays at its zero
// value.
type fieldMatchers struct {
	title       goquery.Matcher
	description goquery.Matcher
	link        goquery.Matcher
	imageURL    goquery.Matcher
	date        goquery.Matcher
	price       goquery.Matcher
	rating      goquery.Matcher
}

func (s *Service) compileFieldMatchers(sel *models.SelectorSet) *fieldMatchers {
	return &fieldMatchers{
		title:       s.compileField("title", sel.Title),
		description: s.compileField("description", sel.Description),
		link:        s.compileField("link", sel.Link),
		imageURL:    s.compileField("imageUrl", sel.ImageURL),
		date:        s.compileField("date", sel.Date),
		price:       s.compileField("price", sel.Price),
		rating:      s.compileField("rating", sel.Rating),
	}
}

func (s *Service) compileField(name, selector string) goquery.Matcher {
	if strings.TrimSpace(selector) == "" {
		return nil
	}
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("field", name).
			Str("selector", selector).
			Msg("Invalid field selector, field will be empty")
		return nil
	}
	return matcher
}

// extractRecord builds one record from a matched container. Returns nil when
// the record fails the required-field filter.
func (s *Service) extractRecord(index int, container *goquery.Selection, fields *fieldMatchers, base *url.URL) *models.Record {
	title := s.fieldText(container, fields.title)
	if title == "" {
		return nil
	}

	record := &models.Record{
		ID:          deriveRecordID(index, title),
		Title:       title,
		Description: s.fieldText(container, fields.description),
		Date:        s.fieldText(container, fields.date),
		Price:       ParseNumeric(s.fieldText(container, fields.price)),
		Rating:      ParseNumeric(s.fieldText(container, fields.rating)),
	}

	if fields.link != nil {
		if href, ok := firstAttr(container, fields.link, "href"); ok {
			record.Link = s.resolveOrPlaceholder(href, base, PlaceholderLink)
		}
	}

	if fields.imageURL != nil {
		if src, ok := imageSource(container, fields.imageURL); ok {
			record.ImageURL = s.resolveOrPlaceholder(src, base, PlaceholderImageURL)
		}
	}

	return record
}

// fieldText returns the normalized text of the first descendant matching the
// field selector, or "" when the matcher is nil or matches nothing.
func (s *Service) fieldText(container *goquery.Selection, matcher goquery.Matcher) string {
	if matcher == nil {
		return ""
	}
	return NormalizeText(container.FindMatcher(matcher).First().Text())
}

// firstAttr returns the named attribute of the first matching descendant.
func firstAttr(container *goquery.Selection, matcher goquery.Matcher, attr string) (string, bool) {
	el := container.FindMatcher(matcher).First()
	if el.Length() == 0 {
		return "", false
	}
	value, exists := el.Attr(attr)
	value = strings.TrimSpace(value)
	return value, exists && value != ""
}

// imageSource reads src with a data-src fallback for lazy-loaded images.
func imageSource(container *goquery.Selection, matcher goquery.Matcher) (string, bool) {
	el := container.FindMatcher(matcher).First()
	if el.Length() == 0 {
		return "", false
	}
	if src := strings.TrimSpace(el.AttrOr("src", "")); src != "" {
		return src, true
	}
	if src := strings.TrimSpace(el.AttrOr("data-src", "")); src != "" {
		return src, true
	}
	return "", false
}

// resolveOrPlaceholder resolves a raw URL against the page base. A URL that
// cannot be resolved degrades to the placeholder rather than dropping the
// record.
func (s *Service) resolveOrPlaceholder(raw string, base *url.URL, placeholder string) string {
	resolved := resolveURL(raw, base)
	if resolved == "" {
		s.logger.Debug().Str("url", raw).Msg("Failed to resolve URL, using placeholder")
		return placeholder
	}
	return resolved
}

// resolveURL resolves a potentially relative URL against a base URL.
// Returns "" when resolution is impossible.
func resolveURL(raw string, base *url.URL) string {
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base == nil {
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	return base.ResolveReference(ref).String()
}

// NormalizeText collapses whitespace runs to single spaces and trims the
// result, flattening the indentation that pretty-printed HTML leaves in
// element text.
func NormalizeText(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// ParseNumeric extracts a float from decorated numeric text such as
// "$199.99" or "4.5 stars". Text with no parsable number ("N/A", "Call for
// price") degrades to 0 rather than failing the record.
func ParseNumeric(text string) float64 {
	cleaned := nonNumericRegex.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// deriveRecordID builds a run-stable record identifier from the match index
// and a slice of the primary field text.
func deriveRecordID(index int, primary string) string {
	runes := []rune(primary)
	if len(runes) > idSliceLength {
		runes = runes[:idSliceLength]
	}
	return fmt.Sprintf("%d-%s", index, string(runes))
}
