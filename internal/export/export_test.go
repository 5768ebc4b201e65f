package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/models"
)

func sampleRecords() []models.Record {
	return []models.Record{
		{
			ID:          "0-Widget Pro",
			Title:       "Widget, \"Pro\" edition",
			Description: "Has a comma, and quotes",
			Link:        "https://shop.example.com/widget",
			ImageURL:    "https://shop.example.com/widget.png",
			Price:       199.99,
			Rating:      4.5,
		},
		{ID: "1-Gadget", Title: "Gadget Mini", Price: 89.99},
	}
}

func TestRecordsCSV_QuoteRoundTrip(t *testing.T) {
	data, err := RecordsCSV(sampleRecords(), 0)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, recordCSVHeader, rows[0])
	assert.Equal(t, "Widget, \"Pro\" edition", rows[1][1], "commas and quotes round-trip")
	assert.Equal(t, "199.99", rows[1][6])
	assert.Equal(t, "4.5", rows[1][7])
}

func TestRecordsCSV_MaxRows(t *testing.T) {
	data, err := RecordsCSV(sampleRecords(), 1)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2, "header plus capped row count")
}

func TestBundleCSV_Tables(t *testing.T) {
	bundle := &models.ContentBundle{
		ContentType: models.ContentTypeTables,
		Tables: [][][]string{
			{{"Name", "Value"}, {"uptime", "99.9"}},
			{{"a"}, {"b"}},
		},
	}

	data, err := BundleCSV(bundle)
	require.NoError(t, err)

	blocks := strings.Split(strings.TrimSpace(string(data)), "\n\n")
	require.Len(t, blocks, 2, "one CSV block per table, blank-line separated")
	assert.True(t, strings.HasPrefix(blocks[0], "Name,Value"))
}

func TestBundleCSV_Links(t *testing.T) {
	bundle := &models.ContentBundle{
		ContentType: models.ContentTypeLinks,
		Links:       []string{"https://example.com/a", "https://example.com/b"},
	}

	data, err := BundleCSV(bundle)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"url"}, rows[0])
}

func TestJSON_ExactValue(t *testing.T) {
	data, err := JSON(sampleRecords())
	require.NoError(t, err)

	var decoded []models.Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleRecords(), decoded)
}

func TestBundleText_Tables(t *testing.T) {
	bundle := &models.ContentBundle{
		ContentType: models.ContentTypeTables,
		Tables: [][][]string{
			{{"Name", "Value"}, {"uptime", "99.9"}},
			{{"a", "b"}},
		},
	}

	text, err := BundleText(bundle)
	require.NoError(t, err)
	assert.Equal(t, "Name\tValue\nuptime\t99.9\n---\na\tb", text)
}

func TestBundleText_Links(t *testing.T) {
	bundle := &models.ContentBundle{
		ContentType: models.ContentTypeLinks,
		Links:       []string{"https://example.com/a", "https://example.com/b"},
	}

	text, err := BundleText(bundle)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a\nhttps://example.com/b", text)
}

func TestTruncateForPreview(t *testing.T) {
	assert.Equal(t, "short", TruncateForPreview("short", 100))
	assert.Equal(t, "abcde...", TruncateForPreview("abcdefghij", 5))
	assert.Equal(t, "abcdefghij", TruncateForPreview("abcdefghij", 0), "non-positive limit means unlimited")
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)

	assert.Equal(t, "sitescoop_20260830_140509.csv", Filename("sitescoop", "csv", now))
	assert.Equal(t, "export_20260830_140509.json", Filename("  ", ".json", now), "empty prefix falls back")
	assert.Equal(t, "myexport_20260830_140509.pdf", Filename("my/ex:port", "pdf", now), "unsafe characters stripped")
}

func TestPDFRenderer_NonEmptyOutput(t *testing.T) {
	renderer := NewPDFRenderer(arbor.NewLogger())

	markdown := RecordsMarkdown(sampleRecords(), "https://shop.example.com")
	data, err := renderer.Render(markdown)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output is a PDF document")
	assert.Greater(t, len(data), 500)
}

func TestRecordsMarkdown_EscapesCells(t *testing.T) {
	markdown := RecordsMarkdown([]models.Record{{ID: "0", Title: "a|b"}}, "")
	assert.Contains(t, markdown, `a\|b`)
}

func TestBuildMIMEMessage(t *testing.T) {
	config := &SMTPConfig{From: "scoop@example.com", FromName: "SiteScoop"}
	csvData := []byte("id,title\n0,Widget\n")

	msg := buildMIMEMessage(config, "user@example.com", "Your export", "2 records scraped", []Attachment{
		{Filename: "sitescoop_20260830_140509.csv", ContentType: "text/csv", Content: csvData},
	})

	assert.Contains(t, msg, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, msg, `Content-Disposition: attachment; filename="sitescoop_20260830_140509.csv"`)
	assert.Contains(t, msg, "Content-Transfer-Encoding: base64")
	assert.Contains(t, msg, encodeBase64WithLineBreaks(string(csvData)))
	assert.Contains(t, msg, "Subject: Your export")
}

func TestEncodeBase64WithLineBreaks(t *testing.T) {
	encoded := encodeBase64WithLineBreaks(strings.Repeat("x", 200))
	for _, line := range strings.Split(encoded, "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
}
