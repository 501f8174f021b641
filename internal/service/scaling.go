package service

import (
	"fmt"
	"math"

	"github.com/platefile/backend/internal/types"
)

// ScaleIngredients rescales normalized ingredients from a base serving
// count to a target serving count. Quantities are rounded to the nearest
// quarter unit so household measurements stay usable; nil quantities
// ("to taste") pass through unchanged, order preserved.
func ScaleIngredients(ingredients []types.NormalizedIngredient, baseServings, targetServings float64) ([]types.NormalizedIngredient, error) {
	if baseServings <= 0 || targetServings <= 0 {
		return nil, types.NewPipelineError(types.ErrInvalidServings,
			fmt.Sprintf("servings must be positive, got base=%v target=%v", baseServings, targetServings))
	}

	factor := targetServings / baseServings
	scaled := make([]types.NormalizedIngredient, len(ingredients))
	for i, ing := range ingredients {
		scaled[i] = ing
		if ing.Quantity != nil {
			q := math.Round(*ing.Quantity*factor*4) / 4
			scaled[i].Quantity = &q
		}
	}
	return scaled, nil
}
