package models

import (
	"encoding/json"
	"fmt"
)

// ContentType identifies a coarse, category-based extraction mode that does
// not require AI-suggested structure.
type ContentType string

const (
	ContentTypeText   ContentType = "text"
	ContentTypeLinks  ContentType = "links"
	ContentTypeImages ContentType = "images"
	ContentTypeTables ContentType = "tables"
)

// ParseContentType validates and converts a content type string.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case ContentTypeText, ContentTypeLinks, ContentTypeImages, ContentTypeTables:
		return ContentType(s), nil
	default:
		return "", fmt.Errorf("unknown content type: %q", s)
	}
}

// ContentBundle holds the result of a category-based extraction. Exactly one
// of Text, Links/Images, or Tables is populated, determined by ContentType.
// Markdown is an auxiliary rendering for the text category and is not subject
// to the cleaning shape contract.
type ContentBundle struct {
	ContentType ContentType  `json:"contentType"`
	Text        string       `json:"text,omitempty"`
	Links       []string     `json:"links,omitempty"`
	Images      []string     `json:"images,omitempty"`
	Tables      [][][]string `json:"tables,omitempty"`
	Markdown    string       `json:"markdown,omitempty"`
	SourceURL   string       `json:"sourceUrl"`
}

// IsEmpty reports whether the bundle carries no extracted data for its
// declared content type.
func (b *ContentBundle) IsEmpty() bool {
	switch b.ContentType {
	case ContentTypeText:
		return b.Text == ""
	case ContentTypeLinks:
		return len(b.Links) == 0
	case ContentTypeImages:
		return len(b.Images) == 0
	case ContentTypeTables:
		return len(b.Tables) == 0
	default:
		return true
	}
}

// MarshalPayload serializes only the populated payload: the text itself for
// the text category, JSON for the list and table categories.
func (b *ContentBundle) MarshalPayload() (string, error) {
	var v interface{}
	switch b.ContentType {
	case ContentTypeText:
		return b.Text, nil
	case ContentTypeLinks:
		v = b.Links
	case ContentTypeImages:
		v = b.Images
	case ContentTypeTables:
		v = b.Tables
	default:
		return "", fmt.Errorf("unknown content type: %q", b.ContentType)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ItemCount returns the number of list items in the bundle, or the character
// count for the text category.
func (b *ContentBundle) ItemCount() int {
	switch b.ContentType {
	case ContentTypeText:
		return len(b.Text)
	case ContentTypeLinks:
		return len(b.Links)
	case ContentTypeImages:
		return len(b.Images)
	case ContentTypeTables:
		return len(b.Tables)
	default:
		return 0
	}
}
