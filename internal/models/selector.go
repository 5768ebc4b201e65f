package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SelectorSet describes how to pull repeating items out of a page.
// Container selects each item's root element; every field selector is
// interpreted relative to a matched container, never document-absolute.
// Optional field selectors may be empty, meaning "field not present".
type SelectorSet struct {
	Container   string `json:"container" toml:"container" validate:"required"`
	Title       string `json:"title,omitempty" toml:"title"`
	Description string `json:"description,omitempty" toml:"description"`
	Link        string `json:"link,omitempty" toml:"link"`
	ImageURL    string `json:"imageUrl,omitempty" toml:"image_url"`
	Date        string `json:"date,omitempty" toml:"date"`
	Price       string `json:"price,omitempty" toml:"price"`
	Rating      string `json:"rating,omitempty" toml:"rating"`
}

// UnmarshalJSON accepts "name" as an alias for "title". Product-style
// suggestion payloads use name for the primary field; both land in Title.
func (s *SelectorSet) UnmarshalJSON(data []byte) error {
	type alias SelectorSet
	aux := struct {
		*alias
		Name string `json:"name"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.Title == "" && aux.Name != "" {
		s.Title = aux.Name
	}
	return nil
}

// PrimarySelector returns the selector for the record's primary required
// field. Title is canonical; older product-style suggestions populate the
// same field under the key "name" (see UnmarshalJSON in schema handling).
func (s *SelectorSet) PrimarySelector() string {
	return s.Title
}

// Validate checks the structural invariants: a non-empty container and at
// least one non-empty required field selector.
func (s *SelectorSet) Validate() error {
	if strings.TrimSpace(s.Container) == "" {
		return fmt.Errorf("selector set: container must not be empty")
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("selector set: primary field selector (title/name) must not be empty")
	}
	return nil
}

// Record is one extracted item. ID is derived from the match index and a
// slice of the primary field text; it is stable within a single run only.
type Record struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Link        string  `json:"link,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Date        string  `json:"date,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}
