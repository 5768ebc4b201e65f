package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/common"
	"github.com/ternarybob/sitescoop/internal/export"
	"github.com/ternarybob/sitescoop/internal/models"
)

// ExportHandler handles export download and email HTTP requests
type ExportHandler struct {
	config   *common.ExportConfig
	renderer *export.PDFRenderer
	mailer   *export.Mailer
	logger   arbor.ILogger
}

// NewExportHandler creates a new export handler
func NewExportHandler(config *common.ExportConfig, renderer *export.PDFRenderer, mailer *export.Mailer, logger arbor.ILogger) *ExportHandler {
	return &ExportHandler{
		config:   config,
		renderer: renderer,
		mailer:   mailer,
		logger:   logger,
	}
}

// exportRequest carries the data to encode. Exactly one of Records or
// Content is expected, matching the two scrape paths.
type exportRequest struct {
	Records   []models.Record       `json:"records,omitempty"`
	Content   *models.ContentBundle `json:"content,omitempty"`
	SourceURL string                `json:"source_url,omitempty"`
}

func (req *exportRequest) valid() bool {
	return len(req.Records) > 0 || (req.Content != nil && !req.Content.IsEmpty())
}

// ExportHandler handles POST /api/export/{format} - returns a downloadable
// encoding of the posted data. Formats: csv, json, text, pdf.
func (h *ExportHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	format := strings.TrimPrefix(r.URL.Path, "/api/export/")

	var req exportRequest
	if !DecodeBody(w, r, &req) {
		return
	}
	if !req.valid() {
		WriteError(w, http.StatusBadRequest, "Nothing to export")
		return
	}

	var data []byte
	var contentType string
	var err error

	switch format {
	case "csv":
		data, err = h.encodeCSV(&req)
		contentType = "text/csv"
	case "json":
		data, err = h.encodeJSON(&req)
		contentType = "application/json"
	case "text":
		var text string
		text, err = h.encodeText(&req)
		data = []byte(text)
		contentType = "text/plain; charset=utf-8"
	case "pdf":
		data, err = h.encodePDF(&req)
		contentType = "application/pdf"
	default:
		WriteError(w, http.StatusNotFound, "Unknown export format")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("format", format).Msg("Export encoding failed")
		WriteError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	filename := export.Filename(h.config.FilenamePrefix, format, time.Now())
	if format == "text" {
		filename = export.Filename(h.config.FilenamePrefix, "txt", time.Now())
	}

	h.logger.Debug().
		Str("format", format).
		Str("filename", filename).
		Int("bytes", len(data)).
		Msg("Export generated")

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// EmailExportHandler handles POST /api/export/email - mails the CSV export
// as an attachment using the user's SMTP settings.
func (h *ExportHandler) EmailExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		exportRequest
		To string `json:"to"`
	}
	if !DecodeBody(w, r, &req) {
		return
	}

	req.To = strings.TrimSpace(req.To)
	if req.To == "" {
		WriteError(w, http.StatusBadRequest, "A recipient address is required")
		return
	}
	if !req.valid() {
		WriteError(w, http.StatusBadRequest, "Nothing to export")
		return
	}
	if !h.mailer.IsConfigured(r.Context()) {
		WriteError(w, http.StatusPreconditionFailed, "SMTP is not configured; set the smtp_* keys first")
		return
	}

	data, err := h.encodeCSV(&req.exportRequest)
	if err != nil {
		h.logger.Error().Err(err).Msg("Export encoding failed")
		WriteError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	preview, err := h.encodeText(&req.exportRequest)
	if err != nil {
		preview = ""
	}
	preview = export.TruncateForPreview(preview, h.config.PreviewLength)

	filename := export.Filename(h.config.FilenamePrefix, "csv", time.Now())
	err = h.mailer.SendExport(r.Context(), req.To, "Your SiteScoop export", preview, []export.Attachment{
		{Filename: filename, ContentType: "text/csv", Content: data},
	})
	if err != nil {
		h.logger.Error().Err(err).Str("to", req.To).Msg("Export email failed")
		WriteError(w, http.StatusBadGateway, "Failed to send export email")
		return
	}

	WriteSuccess(w, fmt.Sprintf("Export sent to %s", req.To))
}

func (h *ExportHandler) encodeCSV(req *exportRequest) ([]byte, error) {
	if len(req.Records) > 0 {
		return export.RecordsCSV(req.Records, h.config.MaxCSVRows)
	}
	return export.BundleCSV(req.Content)
}

func (h *ExportHandler) encodeJSON(req *exportRequest) ([]byte, error) {
	if len(req.Records) > 0 {
		return export.JSON(req.Records)
	}
	return export.JSON(req.Content)
}

func (h *ExportHandler) encodeText(req *exportRequest) (string, error) {
	if len(req.Records) > 0 {
		return export.RecordsText(req.Records), nil
	}
	return export.BundleText(req.Content)
}

func (h *ExportHandler) encodePDF(req *exportRequest) ([]byte, error) {
	var markdown string
	if len(req.Records) > 0 {
		markdown = export.RecordsMarkdown(req.Records, req.SourceURL)
	} else {
		markdown = export.BundleMarkdown(req.Content)
	}
	return h.renderer.Render(markdown)
}
