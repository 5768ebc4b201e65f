// -----------------------------------------------------------------------
// Category Extraction - text, links, images and tables without selectors
// -----------------------------------------------------------------------

package extractor

import (
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/sitescoop/internal/models"
)

// ExtractContent performs a category-based extraction that needs no
// AI-suggested structure. Returns models.ErrNoContentFound when the page has
// nothing for the requested category.
func (s *Service) ExtractContent(html string, baseURL string, contentType models.ContentType) (*models.ContentBundle, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	bundle := &models.ContentBundle{
		ContentType: contentType,
		SourceURL:   baseURL,
	}

	switch contentType {
	case models.ContentTypeText:
		bundle.Text, bundle.Markdown = s.extractText(doc, baseURL)
	case models.ContentTypeLinks:
		bundle.Links = s.extractURLList(doc, baseURL, "a[href]", func(el *goquery.Selection) string {
			return el.AttrOr("href", "")
		})
	case models.ContentTypeImages:
		bundle.Images = s.extractURLList(doc, baseURL, "img", func(el *goquery.Selection) string {
			if src := strings.TrimSpace(el.AttrOr("src", "")); src != "" {
				return src
			}
			return el.AttrOr("data-src", "")
		})
	case models.ContentTypeTables:
		bundle.Tables = s.extractTables(doc)
	default:
		return nil, fmt.Errorf("unknown content type: %q", contentType)
	}

	if bundle.IsEmpty() {
		s.logger.Warn().
			Str("content_type", string(contentType)).
			Str("source_url", baseURL).
			Msg("Category extraction found no content")
		return nil, models.ErrNoContentFound
	}

	s.logger.Debug().
		Str("content_type", string(contentType)).
		Int("items", bundle.ItemCount()).
		Msg("Category content extracted")

	return bundle, nil
}

// extractText returns the page's visible text with whitespace collapsed,
// plus a markdown rendering of the same content.
func (s *Service) extractText(doc *goquery.Document, baseURL string) (string, string) {
	// Script and style text would otherwise leak into the extracted body.
	doc.Find("script, style, noscript").Remove()

	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}

	text := NormalizeText(body.Text())
	markdown := s.convertToMarkdown(body, baseURL)

	return text, markdown
}

// convertToMarkdown renders the cleaned content as markdown. Conversion
// failure is not fatal; the plain-text extraction stands on its own.
func (s *Service) convertToMarkdown(content *goquery.Selection, baseURL string) string {
	cleanedHTML, err := goquery.OuterHtml(content)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Failed to serialize content for markdown conversion")
		return ""
	}

	mdConverter := md.NewConverter(baseURL, true, nil)
	markdown, err := mdConverter.ConvertString(cleanedHTML)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Markdown conversion failed")
		return ""
	}

	return strings.TrimSpace(markdown)
}

// extractURLList collects absolute http(s) URLs from every element matching
// the selector, deduplicated and in document order.
func (s *Service) extractURLList(doc *goquery.Document, baseURL string, selector string, attr func(*goquery.Selection) string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("base_url", baseURL).Msg("Failed to parse base URL for resolution")
		base = nil
	}

	var urls []string
	seen := make(map[string]bool)

	doc.Find(selector).Each(func(i int, el *goquery.Selection) {
		raw := strings.TrimSpace(attr(el))
		if raw == "" {
			return
		}

		resolved := resolveURL(raw, base)
		if resolved == "" {
			return
		}
		if !strings.HasPrefix(resolved, "http://") && !strings.HasPrefix(resolved, "https://") {
			return
		}

		if !seen[resolved] {
			seen[resolved] = true
			urls = append(urls, resolved)
		}
	})

	return urls
}

// extractTables converts every <table> into a cell matrix. Empty rows and
// tables with no non-empty rows are dropped; document order is preserved.
func (s *Service) extractTables(doc *goquery.Document) [][][]string {
	var tables [][][]string

	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		var rows [][]string

		table.Find("tr").Each(func(j int, tr *goquery.Selection) {
			var cells []string
			hasContent := false

			tr.Find("th, td").Each(func(k int, cell *goquery.Selection) {
				text := NormalizeText(cell.Text())
				if text != "" {
					hasContent = true
				}
				cells = append(cells, text)
			})

			if hasContent {
				rows = append(rows, cells)
			}
		})

		if len(rows) > 0 {
			tables = append(tables, rows)
		}
	})

	return tables
}
