package types

import (
	"github.com/google/uuid"
)

// NormalizedIngredient is an ingredient decomposed into quantity, unit,
// name and preparation, independent of its original free-text phrasing.
// A nil quantity means "to taste"/unspecified; a nil unit means unitless.
type NormalizedIngredient struct {
	RawText     string   `json:"raw_text"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	Name        string   `json:"name"`
	Preparation *string  `json:"preparation"`
}

// AggregatedLine is one shopping-list entry produced by merging
// ingredients across recipes on the (name, unit) aggregation key.
type AggregatedLine struct {
	Name            string      `json:"name"`
	Unit            *string     `json:"unit"`
	Quantity        float64     `json:"quantity"`
	SourceRecipeIDs []uuid.UUID `json:"source_recipe_ids"`
	Checked         bool        `json:"checked"`
}

// ParsedIngredient is a single result from the ingredient-parsing
// collaborator. Optional fields are nil when the parser could not
// determine them.
type ParsedIngredient struct {
	Input            string   `json:"input"`
	Quantity         *float64 `json:"quantity,omitempty"`
	Unit             *string  `json:"unit,omitempty"`
	Name             string   `json:"name"`
	PreparationNotes *string  `json:"preparationNotes,omitempty"`
}
