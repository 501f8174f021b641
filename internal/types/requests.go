package types

import (
	"github.com/google/uuid"
)

// ExtractRequest is the JSON body for extraction runs that do not upload
// a document. Exactly one of URL/Text must be set; documents arrive as
// multipart uploads instead.
type ExtractRequest struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// ScaleRequest asks for a recipe's ingredients rescaled to a target
// serving count.
type ScaleRequest struct {
	TargetServings float64 `json:"target_servings" binding:"required"`
}

// BuildShoppingListRequest merges the ingredients of the named recipes
// into one shopping list.
type BuildShoppingListRequest struct {
	RecipeIDs []uuid.UUID `json:"recipe_ids" binding:"required"`
}

// UpdateShoppingItemRequest toggles the checked state of one list entry.
type UpdateShoppingItemRequest struct {
	Checked *bool `json:"checked" binding:"required"`
}
