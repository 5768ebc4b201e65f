package models

import (
	"errors"
	"fmt"
)

// FetchError reports a failed page retrieval, either a non-2xx response or a
// transport failure (DNS, timeout, TLS). Network is true for the latter, in
// which case StatusCode is zero.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Network    bool
	Err        error
}

func (e *FetchError) Error() string {
	if e.Network {
		return fmt.Sprintf("fetch %s: network failure: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SchemaValidationError reports a structurally invalid AI response. The
// adapter never returns partial data alongside this error.
type SchemaValidationError struct {
	Reason string
	Err    error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("AI response failed schema validation: %s", e.Reason)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// CleaningFailedError reports that the AI cleaning pass returned no data or
// violated the shape-preservation contract. Cleaning failure is never
// destructive; callers retain the uncleaned value.
type CleaningFailedError struct {
	Reason string
}

func (e *CleaningFailedError) Error() string {
	return fmt.Sprintf("cleaning failed: %s", e.Reason)
}

var (
	// ErrNoContainerMatch indicates the container selector matched nothing.
	// Distinct from ErrEmptyResult: the selector itself is at fault, not the
	// field content.
	ErrNoContainerMatch = errors.New("container selector matched no elements")

	// ErrEmptyResult indicates containers matched but no record survived the
	// required-field filter, which usually means the field selectors are
	// wrong.
	ErrEmptyResult = errors.New("no records extracted from matched containers")

	// ErrNoContentFound indicates a category extraction produced an empty
	// result.
	ErrNoContentFound = errors.New("no content found for the requested category")
)
