package service

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/platefile/backend/internal/types"
)

// unitSentinel stands in for a nil unit inside aggregation keys so
// unitless ingredients form their own group.
const unitSentinel = "null"

// Aggregator merges normalized ingredients across recipes into shopping
// list lines keyed by (name, unit). Two ingredients merge only when both
// name and unit match case-insensitively; no unit conversion or synonym
// folding is attempted, so "tbsp" and "tablespoon" stay separate lines.
type Aggregator struct {
	lines map[string]*aggregatedLine
}

type aggregatedLine struct {
	name     string
	unit     *string
	quantity float64
	sources  map[uuid.UUID]struct{}
}

// NewAggregator creates a new Aggregator instance
func NewAggregator() *Aggregator {
	return &Aggregator{lines: make(map[string]*aggregatedLine)}
}

// AggregationKey returns the grouping key for an ingredient.
func AggregationKey(name string, unit *string) string {
	u := unitSentinel
	if unit != nil {
		u = strings.ToLower(strings.TrimSpace(*unit))
	}
	return strings.ToLower(strings.TrimSpace(name)) + "::" + u
}

// Add merges one recipe's ingredients into the aggregate. A nil quantity
// contributes 0; repeated additions add their quantities literally, while
// the source recipe set deduplicates.
func (a *Aggregator) Add(recipeID uuid.UUID, ingredients []types.NormalizedIngredient) {
	for _, ing := range ingredients {
		key := AggregationKey(ing.Name, ing.Unit)
		line, ok := a.lines[key]
		if !ok {
			line = &aggregatedLine{
				name:    strings.ToLower(strings.TrimSpace(ing.Name)),
				unit:    normalizeUnit(ing.Unit),
				sources: make(map[uuid.UUID]struct{}),
			}
			a.lines[key] = line
		}
		if ing.Quantity != nil {
			line.quantity += *ing.Quantity
		}
		line.sources[recipeID] = struct{}{}
	}
}

// Lines returns the aggregated lines sorted by name then unit, checked
// defaulting to false.
func (a *Aggregator) Lines() []types.AggregatedLine {
	result := make([]types.AggregatedLine, 0, len(a.lines))
	for _, line := range a.lines {
		ids := make([]uuid.UUID, 0, len(line.sources))
		for id := range line.sources {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

		result = append(result, types.AggregatedLine{
			Name:            line.name,
			Unit:            line.unit,
			Quantity:        line.quantity,
			SourceRecipeIDs: ids,
			Checked:         false,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return unitOrSentinel(result[i].Unit) < unitOrSentinel(result[j].Unit)
	})
	return result
}

func unitOrSentinel(unit *string) string {
	if unit == nil {
		return unitSentinel
	}
	return *unit
}
