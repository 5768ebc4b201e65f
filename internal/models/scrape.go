package models

// ScrapeRequest describes one scrape run. Exactly one extraction path is
// taken: explicit selectors win over a content type; with neither, selectors
// are AI-suggested from the fetched page.
type ScrapeRequest struct {
	URL         string       `json:"url" validate:"required,url"`
	ContentType string       `json:"content_type,omitempty"`
	Selectors   *SelectorSet `json:"selectors,omitempty"`
	Clean       bool         `json:"clean,omitempty"`
	Summarize   bool         `json:"summarize,omitempty"`
}

// ScrapeResult is the full outcome of one run. Records is populated on the
// selector path, Content on the category path, never both. CleanWarning
// carries a non-destructive cleaning failure; the data fields then hold the
// uncleaned values.
type ScrapeResult struct {
	RunID        string         `json:"run_id"`
	URL          string         `json:"url"`
	Selectors    *SelectorSet   `json:"selectors,omitempty"`
	Records      []Record       `json:"records,omitempty"`
	Content      *ContentBundle `json:"content,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	Cleaned      bool           `json:"cleaned,omitempty"`
	CleanWarning string         `json:"clean_warning,omitempty"`
	DurationMS   int64          `json:"duration_ms"`
}
