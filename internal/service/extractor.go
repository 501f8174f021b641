package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/platefile/backend/internal/types"
)

// extractionSystemPrompt fixes the output contract for the structured
// extraction collaborator. Missing scalar fields must come back null and
// missing sequence fields as empty arrays; inventing a recipe that is not
// in the input is forbidden.
const extractionSystemPrompt = `You are a recipe transcription assistant. You will be given text that may contain a recipe. Extract the recipe into JSON with exactly this structure:
{
    "title": "Recipe title",
    "description": "Brief description, or null if none is present",
    "ingredients": [
        "2 cups flour",
        "1 cup sugar"
    ],
    "instructions": [
        "Mix the dry ingredients",
        "Bake at 350F for 30 minutes"
    ],
    "prepTimeMinutes": 15,
    "cookTimeMinutes": 30,
    "servings": 4,
    "category": "One of: Main Course, Dessert, Snack, Appetizer, Breakfast, Lunch, Dinner, Side Dish, Beverage, Soup, Salad, Bread, or null"
}

Rules:
- Only transcribe what is in the text. NEVER invent a recipe that is not described by the input.
- Use null for any scalar field the text does not state, and [] for ingredients or instructions you cannot find.
- Always include every key shown above, even when its value is null or [].
- prepTimeMinutes, cookTimeMinutes and servings must be numbers when present.`

// ExtractorService converts normalized text into a recipe draft through
// the structured-generation collaborator.
type ExtractorService struct {
	generator StructuredGenerator
}

// NewExtractorService creates a new ExtractorService instance
func NewExtractorService(generator StructuredGenerator) *ExtractorService {
	return &ExtractorService{generator: generator}
}

// extractorPayload is the wire shape of the collaborator's reply. Pointer
// and slice fields distinguish "absent" from "empty": a reply missing a
// required key is a contract violation, not a repairable draft.
type extractorPayload struct {
	Title           *string         `json:"title"`
	Description     *string         `json:"description"`
	Ingredients     []string        `json:"ingredients"`
	Instructions    []string        `json:"instructions"`
	PrepTimeMinutes json.RawMessage `json:"prepTimeMinutes"`
	CookTimeMinutes json.RawMessage `json:"cookTimeMinutes"`
	Servings        json.RawMessage `json:"servings"`
	Category        *string         `json:"category"`
}

// Extract runs the collaborator against the normalized text and parses the
// reply into a draft. Numeric fields are coerced leniently; the overall
// shape is not.
func (s *ExtractorService) Extract(ctx context.Context, text types.ExtractedText) (*types.RecipeDraft, error) {
	content, err := s.generator.Generate(ctx, extractionSystemPrompt, text.Text)
	if err != nil {
		return nil, fmt.Errorf("structured extraction failed for %s input: %w", text.Source, err)
	}

	var payload extractorPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, &types.PipelineError{
			Kind:    types.ErrMalformedExtractorResponse,
			Message: fmt.Sprintf("extractor returned unparseable output for %s input", text.Source),
			Err:     err,
		}
	}

	// title/ingredients/instructions must be present, even if empty.
	if payload.Title == nil || payload.Ingredients == nil || payload.Instructions == nil {
		return nil, types.NewPipelineError(types.ErrMalformedExtractorResponse,
			fmt.Sprintf("extractor response is missing required keys for %s input", text.Source))
	}

	draft := &types.RecipeDraft{
		Title:           strings.TrimSpace(*payload.Title),
		Description:     payload.Description,
		Ingredients:     payload.Ingredients,
		Instructions:    payload.Instructions,
		PrepTimeMinutes: coerceNonNegativeNumberOrNull(payload.PrepTimeMinutes),
		CookTimeMinutes: coerceNonNegativeNumberOrNull(payload.CookTimeMinutes),
		Servings:        coerceNonNegativeNumberOrNull(payload.Servings),
		Category:        payload.Category,
		Source:          text.Source,
	}

	return draft, nil
}

// coerceNonNegativeNumberOrNull converts a raw JSON scalar to a
// non-negative number. Absent, null, non-numeric and negative values all
// coerce to nil; a bad value never fails the draft, it just leaves the
// field empty.
func coerceNonNegativeNumberOrNull(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err != nil {
		// Numbers sometimes arrive as strings ("12", "about 4").
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return nil
		}
		num = parsed
	}

	if math.IsNaN(num) || math.IsInf(num, 0) || num < 0 {
		return nil
	}
	return &num
}
