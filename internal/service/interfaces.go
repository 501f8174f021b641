package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/platefile/backend/internal/model"
	"github.com/platefile/backend/internal/types"
)

// The external collaborators are non-deterministic, rate-limited black
// boxes. Each sits behind a narrow capability interface so the pipeline's
// fallback and validation logic is testable with deterministic fakes.

// TextExtractor extracts machine-readable text directly from a document.
type TextExtractor interface {
	ExtractText(ctx context.Context, document []byte) (string, error)
}

// OCRClient runs OCR against a rasterized document page.
type OCRClient interface {
	OCR(ctx context.Context, page []byte) (string, error)
}

// RemoteFetcher retrieves the body of a remote page, markup stripped.
type RemoteFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// StructuredGenerator is the structured-extraction collaborator: system
// instructions fix the output schema, the user content is the normalized
// text, the reply is a JSON document.
type StructuredGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// IngredientParser is the ingredient-parsing collaborator. Implementations
// must return errors, not panic, when credentials are absent; the
// normalizer fails open on any error.
type IngredientParser interface {
	Parse(ctx context.Context, lines []string) ([]types.ParsedIngredient, error)
}

// ExtractionPipelineInterface runs one extraction request end to end.
type ExtractionPipelineInterface interface {
	Extract(ctx context.Context, input types.RawInput) (*types.RecipeDraft, error)
}

// DraftServiceInterface stores in-flight drafts between extraction and
// acceptance.
type DraftServiceInterface interface {
	SaveDraft(ctx context.Context, draft *types.RecipeDraft) error
	GetDraft(ctx context.Context, id string) (*types.RecipeDraft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// IngredientServiceInterface turns raw ingredient lines into normalized
// records.
type IngredientServiceInterface interface {
	Normalize(ctx context.Context, lines []string) []types.NormalizedIngredient
}

// RecipeServiceInterface persists accepted drafts and serves stored
// recipes to the scaling and aggregation surfaces.
type RecipeServiceInterface interface {
	CreateFromDraft(ctx context.Context, draft *types.RecipeDraft, ingredients []types.NormalizedIngredient, userID uuid.UUID) (*model.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	ListRecipes(ctx context.Context, userID *uuid.UUID) ([]*model.Recipe, error)
	GetIngredients(ctx context.Context, recipeID uuid.UUID) ([]types.NormalizedIngredient, error)
}

// ShoppingListServiceInterface builds and serves aggregated shopping lists.
type ShoppingListServiceInterface interface {
	Build(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (*model.ShoppingList, error)
	Get(ctx context.Context, userID, listID uuid.UUID) (*model.ShoppingList, error)
	SetItemChecked(ctx context.Context, userID, listID, itemID uuid.UUID, checked bool) (*model.ShoppingListItem, error)
}

// DocumentServiceInterface archives uploaded source documents.
type DocumentServiceInterface interface {
	Upload(ctx context.Context, data []byte, mediaType string) (string, error)
}
