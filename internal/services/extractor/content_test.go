package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/models"
)

const articlePageHTML = `
<html><head>
<style>.hidden { display: none }</style>
<script>var tracking = "beacon";</script>
</head><body>
<h1>Release   Notes</h1>
<p>Version
2.0 is out.</p>
<script>console.log("inline");</script>
<a href="/docs">Docs</a>
<a href="/docs">Docs again</a>
<a href="https://example.org/external">External</a>
<a href="mailto:team@example.com">Mail</a>
<img src="/img/banner.png">
<img data-src="/img/lazy.png">
<img src="/img/banner.png">
<table>
	<tr><th>Name</th><th>Value</th></tr>
	<tr><td>  uptime  </td><td>99.9</td></tr>
	<tr><td></td><td></td></tr>
</table>
<table><tr><td></td></tr></table>
</body></html>`

func TestExtractContent_Text(t *testing.T) {
	service := NewService(arbor.NewLogger())

	bundle, err := service.ExtractContent(articlePageHTML, "https://example.com/notes", models.ContentTypeText)
	require.NoError(t, err)

	assert.Equal(t, models.ContentTypeText, bundle.ContentType)
	assert.Contains(t, bundle.Text, "Release Notes")
	assert.Contains(t, bundle.Text, "Version 2.0 is out.")
	assert.NotContains(t, bundle.Text, "tracking", "script text must not leak into body text")
	assert.NotContains(t, bundle.Text, "display: none", "style text must not leak into body text")
	assert.NotContains(t, bundle.Text, "\n", "whitespace runs collapse to single spaces")
	assert.Contains(t, bundle.Markdown, "Release Notes")
	assert.Equal(t, "https://example.com/notes", bundle.SourceURL)
}

func TestExtractContent_Links(t *testing.T) {
	service := NewService(arbor.NewLogger())

	bundle, err := service.ExtractContent(articlePageHTML, "https://example.com/notes", models.ContentTypeLinks)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/docs",
		"https://example.org/external",
	}, bundle.Links, "relative links resolved, duplicates and non-http schemes dropped")
}

func TestExtractContent_Images(t *testing.T) {
	service := NewService(arbor.NewLogger())

	bundle, err := service.ExtractContent(articlePageHTML, "https://example.com/notes", models.ContentTypeImages)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/img/banner.png",
		"https://example.com/img/lazy.png",
	}, bundle.Images, "src with data-src fallback, deduplicated")
}

func TestExtractContent_Tables(t *testing.T) {
	service := NewService(arbor.NewLogger())

	bundle, err := service.ExtractContent(articlePageHTML, "https://example.com/notes", models.ContentTypeTables)
	require.NoError(t, err)

	require.Len(t, bundle.Tables, 1, "tables with no non-empty rows are dropped")
	assert.Equal(t, [][]string{
		{"Name", "Value"},
		{"uptime", "99.9"},
	}, bundle.Tables[0], "empty rows dropped, cells trimmed")
}

func TestExtractContent_NoContentFound(t *testing.T) {
	service := NewService(arbor.NewLogger())

	bundle, err := service.ExtractContent("<html><body><p>plain prose</p></body></html>", "https://example.com", models.ContentTypeTables)

	assert.Nil(t, bundle)
	assert.ErrorIs(t, err, models.ErrNoContentFound)
}

func TestExtractContent_UnknownType(t *testing.T) {
	service := NewService(arbor.NewLogger())

	_, err := service.ExtractContent(articlePageHTML, "https://example.com", models.ContentType("videos"))
	require.Error(t, err)
}
