package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/models"
)

// errorResponse is the single error shape the API emits. Every typed
// pipeline error recovers to exactly one message and one suggested action;
// there is no partial-result-plus-warning channel at the run boundary.
type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Hint   string `json:"hint,omitempty"`
}

// WriteRunError converts a pipeline error into the API's error response.
func WriteRunError(w http.ResponseWriter, logger arbor.ILogger, err error) {
	status, message, hint := classifyRunError(err)

	logger.Warn().
		Err(err).
		Int("status", status).
		Msg("Scrape pipeline error")

	WriteJSON(w, status, errorResponse{
		Status: "error",
		Error:  message,
		Hint:   hint,
	})
}

func classifyRunError(err error) (int, string, string) {
	var fetchErr *models.FetchError
	if errors.As(err, &fetchErr) {
		return http.StatusBadGateway, fetchErr.Error(), "Check the URL and retry."
	}

	var schemaErr *models.SchemaValidationError
	if errors.As(err, &schemaErr) {
		return http.StatusBadGateway,
			"The AI could not produce a usable selector structure for this page.",
			"Retry, or try a different URL."
	}

	if errors.Is(err, models.ErrNoContainerMatch) {
		return http.StatusUnprocessableEntity,
			"The container selector matched no elements on the page.",
			"Adjust the container selector; the page content itself was reachable."
	}

	if errors.Is(err, models.ErrEmptyResult) {
		return http.StatusUnprocessableEntity,
			"Containers matched but no records had the required fields.",
			"Adjust the field selectors."
	}

	if errors.Is(err, models.ErrNoContentFound) {
		return http.StatusUnprocessableEntity,
			"No content of the requested type was found on the page.",
			"Try a different content type or URL."
	}

	var cleaningErr *models.CleaningFailedError
	if errors.As(err, &cleaningErr) {
		return http.StatusUnprocessableEntity, cleaningErr.Error(), "The original data is unchanged; retry cleaning."
	}

	return http.StatusInternalServerError, "Scrape failed unexpectedly.", "Retry."
}
