package service

import (
	"strings"

	"github.com/platefile/backend/internal/types"
)

// ValidateDraft enforces the minimal shape a recipe must have before
// acceptance: non-empty title, at least one ingredient, at least one
// instruction. Drafts are rejected, never repaired; the offending draft
// rides along on the error so callers can show what was extracted.
func ValidateDraft(draft *types.RecipeDraft) error {
	var problems []string
	if strings.TrimSpace(draft.Title) == "" {
		problems = append(problems, "title is empty")
	}
	if len(draft.Ingredients) == 0 {
		problems = append(problems, "no ingredients were extracted")
	}
	if len(draft.Instructions) == 0 {
		problems = append(problems, "no instructions were extracted")
	}

	if len(problems) > 0 {
		return &types.PipelineError{
			Kind:    types.ErrValidationFailed,
			Message: strings.Join(problems, "; "),
			Draft:   draft,
		}
	}
	return nil
}
