package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ternarybob/sitescoop/internal/models"
)

// recordCSVHeader mirrors the record field order. Cell quoting is left to
// encoding/csv, which round-trips commas and embedded quotes.
var recordCSVHeader = []string{"id", "title", "description", "link", "imageUrl", "date", "price", "rating"}

// RecordsCSV encodes records as a single CSV document with a header row.
// maxRows <= 0 means unlimited.
func RecordsCSV(records []models.Record, maxRows int) ([]byte, error) {
	if maxRows > 0 && len(records) > maxRows {
		records = records[:maxRows]
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(recordCSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.Title,
			r.Description,
			r.Link,
			r.ImageURL,
			r.Date,
			formatFloat(r.Price),
			formatFloat(r.Rating),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// BundleCSV encodes a category extraction as CSV. URL lists become a
// single-column document; tables become one CSV block per table separated by
// a blank line; plain text becomes a one-cell document.
func BundleCSV(bundle *models.ContentBundle) ([]byte, error) {
	var buf bytes.Buffer

	switch bundle.ContentType {
	case models.ContentTypeText:
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"text"}); err != nil {
			return nil, fmt.Errorf("failed to encode CSV: %w", err)
		}
		if err := w.Write([]string{bundle.Text}); err != nil {
			return nil, fmt.Errorf("failed to encode CSV: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("failed to encode CSV: %w", err)
		}
	case models.ContentTypeLinks, models.ContentTypeImages:
		urls := bundle.Links
		if bundle.ContentType == models.ContentTypeImages {
			urls = bundle.Images
		}
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"url"}); err != nil {
			return nil, fmt.Errorf("failed to encode CSV: %w", err)
		}
		for _, u := range urls {
			if err := w.Write([]string{u}); err != nil {
				return nil, fmt.Errorf("failed to encode CSV: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("failed to encode CSV: %w", err)
		}
	case models.ContentTypeTables:
		for i, table := range bundle.Tables {
			if i > 0 {
				buf.WriteString("\n")
			}
			w := csv.NewWriter(&buf)
			for _, row := range table {
				if err := w.Write(row); err != nil {
					return nil, fmt.Errorf("failed to encode CSV: %w", err)
				}
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return nil, fmt.Errorf("failed to encode CSV: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("unknown content type: %q", bundle.ContentType)
	}

	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
