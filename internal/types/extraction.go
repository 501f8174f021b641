package types

import (
	"time"
)

// SourceKind identifies which input variant an extraction run started from.
type SourceKind string

const (
	SourceDocument SourceKind = "document"
	SourceRemote   SourceKind = "remote"
	SourceText     SourceKind = "text"
)

// RawInput is the tagged union of the three supported extraction inputs.
// Exactly one variant is populated per pipeline run; Kind says which.
type RawInput struct {
	Kind      SourceKind
	Document  []byte
	MediaType string
	URL       string
	Text      string
}

// ExtractedText is the single text blob produced by the source reader.
// The source tag is retained for error messages only.
type ExtractedText struct {
	Text   string
	Source SourceKind
}

// RecipeDraft represents an extracted recipe before it is persisted.
// Scalar fields the extractor could not determine are nil, never zero.
type RecipeDraft struct {
	ID              string     `json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	Ingredients     []string   `json:"ingredients"`
	Instructions    []string   `json:"instructions"`
	PrepTimeMinutes *float64   `json:"prep_time_minutes"`
	CookTimeMinutes *float64   `json:"cook_time_minutes"`
	Servings        *float64   `json:"servings"`
	Category        *string    `json:"category"`
	Source          SourceKind `json:"source"`
	DocumentURL     string     `json:"document_url,omitempty"`
	UserID          string     `json:"user_id"`
}
