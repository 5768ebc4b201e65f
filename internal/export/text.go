package export

import (
	"fmt"
	"strings"

	"github.com/ternarybob/sitescoop/internal/models"
)

// tableDivider separates tables in the plain-text flattening.
const tableDivider = "---"

// BundleText flattens a category extraction to plain text: lists join with
// newlines, table cells join with tabs, tables separate with a divider line.
func BundleText(bundle *models.ContentBundle) (string, error) {
	switch bundle.ContentType {
	case models.ContentTypeText:
		return bundle.Text, nil
	case models.ContentTypeLinks:
		return strings.Join(bundle.Links, "\n"), nil
	case models.ContentTypeImages:
		return strings.Join(bundle.Images, "\n"), nil
	case models.ContentTypeTables:
		blocks := make([]string, 0, len(bundle.Tables))
		for _, table := range bundle.Tables {
			rows := make([]string, 0, len(table))
			for _, row := range table {
				rows = append(rows, strings.Join(row, "\t"))
			}
			blocks = append(blocks, strings.Join(rows, "\n"))
		}
		return strings.Join(blocks, "\n"+tableDivider+"\n"), nil
	default:
		return "", fmt.Errorf("unknown content type: %q", bundle.ContentType)
	}
}

// RecordsText flattens records to a readable plain-text listing.
func RecordsText(records []models.Record) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		parts := []string{r.Title}
		if r.Price != 0 {
			parts = append(parts, fmt.Sprintf("%.2f", r.Price))
		}
		if r.Rating != 0 {
			parts = append(parts, fmt.Sprintf("%.1f", r.Rating))
		}
		if r.Link != "" {
			parts = append(parts, r.Link)
		}
		lines = append(lines, strings.Join(parts, "\t"))
	}
	return strings.Join(lines, "\n")
}

// TruncateForPreview bounds a string for mail-body previews, appending an
// ellipsis when anything was cut. Truncation is rune-safe.
func TruncateForPreview(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + "..."
}
