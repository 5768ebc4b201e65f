package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/models"
)

// CleaningService runs the AI cleaning pass.
type CleaningService interface {
	CleanContent(ctx context.Context, bundle *models.ContentBundle) (*models.ContentBundle, error)
	CleanRecords(ctx context.Context, records []models.Record) ([]models.Record, error)
}

// CleanHandler handles data cleaning HTTP requests
type CleanHandler struct {
	cleaner CleaningService
	logger  arbor.ILogger
}

// NewCleanHandler creates a new clean handler
func NewCleanHandler(cleaner CleaningService, logger arbor.ILogger) *CleanHandler {
	return &CleanHandler{
		cleaner: cleaner,
		logger:  logger,
	}
}

type cleanRequest struct {
	ContentType string          `json:"content_type"`
	Data        json.RawMessage `json:"data"`
}

type cleanResponse struct {
	Cleaned bool        `json:"cleaned"`
	Data    interface{} `json:"data"`
	Warning string      `json:"warning,omitempty"`
}

// CleanHandler handles POST /api/clean - cleans previously extracted data.
// A cleaning failure is non-destructive: the response then carries the
// original data with a warning.
func (h *CleanHandler) CleanHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req cleanRequest
	if !DecodeBody(w, r, &req) {
		return
	}
	if len(req.Data) == 0 {
		WriteError(w, http.StatusBadRequest, "Missing data to clean")
		return
	}

	if req.ContentType == "records" {
		h.cleanRecords(w, r, req.Data)
		return
	}

	contentType, err := models.ParseContentType(req.ContentType)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Unknown content type")
		return
	}

	bundle, err := decodeBundle(contentType, req.Data)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Data does not match the content type")
		return
	}

	cleaned, err := h.cleaner.CleanContent(r.Context(), bundle)
	if err != nil {
		h.respondCleaningFailure(w, err, bundlePayload(bundle))
		return
	}

	WriteJSON(w, http.StatusOK, cleanResponse{Cleaned: true, Data: bundlePayload(cleaned)})
}

func (h *CleanHandler) cleanRecords(w http.ResponseWriter, r *http.Request, data json.RawMessage) {
	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		WriteError(w, http.StatusBadRequest, "Data does not match the content type")
		return
	}

	cleaned, err := h.cleaner.CleanRecords(r.Context(), records)
	if err != nil {
		h.respondCleaningFailure(w, err, records)
		return
	}

	WriteJSON(w, http.StatusOK, cleanResponse{Cleaned: true, Data: cleaned})
}

// respondCleaningFailure returns the untouched original alongside a warning
// for cleaning failures, and a plain error for anything else.
func (h *CleanHandler) respondCleaningFailure(w http.ResponseWriter, err error, original interface{}) {
	var cleaningErr *models.CleaningFailedError
	if errors.As(err, &cleaningErr) {
		h.logger.Warn().Err(err).Msg("Cleaning failed, returning original data")
		WriteJSON(w, http.StatusOK, cleanResponse{
			Cleaned: false,
			Data:    original,
			Warning: cleaningErr.Error(),
		})
		return
	}
	WriteRunError(w, h.logger, err)
}

// decodeBundle rebuilds a content bundle from the raw payload of a clean
// request.
func decodeBundle(contentType models.ContentType, data json.RawMessage) (*models.ContentBundle, error) {
	bundle := &models.ContentBundle{ContentType: contentType}

	switch contentType {
	case models.ContentTypeText:
		if err := json.Unmarshal(data, &bundle.Text); err != nil {
			return nil, err
		}
	case models.ContentTypeLinks:
		if err := json.Unmarshal(data, &bundle.Links); err != nil {
			return nil, err
		}
	case models.ContentTypeImages:
		if err := json.Unmarshal(data, &bundle.Images); err != nil {
			return nil, err
		}
	case models.ContentTypeTables:
		if err := json.Unmarshal(data, &bundle.Tables); err != nil {
			return nil, err
		}
	}

	return bundle, nil
}

// bundlePayload returns just the populated payload of a bundle for the
// response body.
func bundlePayload(bundle *models.ContentBundle) interface{} {
	switch bundle.ContentType {
	case models.ContentTypeText:
		return bundle.Text
	case models.ContentTypeLinks:
		return bundle.Links
	case models.ContentTypeImages:
		return bundle.Images
	case models.ContentTypeTables:
		return bundle.Tables
	default:
		return nil
	}
}
