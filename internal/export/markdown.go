package export

import (
	"fmt"
	"strings"

	"github.com/ternarybob/sitescoop/internal/models"
)

// RecordsMarkdown renders records as a markdown table document, the input
// format for PDF export.
func RecordsMarkdown(records []models.Record, sourceURL string) string {
	var b strings.Builder
	b.WriteString("# Scraped Data\n\n")
	if sourceURL != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n\n", sourceURL))
	}

	b.WriteString("| Title | Description | Price | Rating | Date |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, r := range records {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			escapeMarkdownCell(r.Title),
			escapeMarkdownCell(r.Description),
			formatFloat(r.Price),
			formatFloat(r.Rating),
			escapeMarkdownCell(r.Date),
		))
	}

	return b.String()
}

// BundleMarkdown renders a category extraction as a markdown document.
func BundleMarkdown(bundle *models.ContentBundle) string {
	var b strings.Builder
	b.WriteString("# Scraped Data\n\n")
	if bundle.SourceURL != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n\n", bundle.SourceURL))
	}

	switch bundle.ContentType {
	case models.ContentTypeText:
		if bundle.Markdown != "" {
			b.WriteString(bundle.Markdown)
			b.WriteString("\n")
		} else {
			b.WriteString(bundle.Text)
			b.WriteString("\n")
		}
	case models.ContentTypeLinks:
		for _, u := range bundle.Links {
			b.WriteString(fmt.Sprintf("- %s\n", u))
		}
	case models.ContentTypeImages:
		for _, u := range bundle.Images {
			b.WriteString(fmt.Sprintf("- %s\n", u))
		}
	case models.ContentTypeTables:
		for i, table := range bundle.Tables {
			if len(table) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("## Table %d\n\n", i+1))
			writeMarkdownTable(&b, table)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeMarkdownTable(b *strings.Builder, table [][]string) {
	for i, row := range table {
		b.WriteString("|")
		for _, cell := range row {
			b.WriteString(" " + escapeMarkdownCell(cell) + " |")
		}
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("|")
			for range row {
				b.WriteString(" --- |")
			}
			b.WriteString("\n")
		}
	}
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
