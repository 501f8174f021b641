package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefile/backend/internal/types"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return f.reply, f.err
}

func TestExtractorService(t *testing.T) {
	ctx := context.Background()
	input := types.ExtractedText{Text: "some recipe text", Source: types.SourceText}

	t.Run("parses a complete reply", func(t *testing.T) {
		svc := NewExtractorService(&fakeGenerator{reply: `{
			"title": "Pancakes",
			"description": "Fluffy breakfast pancakes",
			"ingredients": ["2 cups flour", "1 cup milk"],
			"instructions": ["Mix", "Fry"],
			"prepTimeMinutes": 10,
			"cookTimeMinutes": 15,
			"servings": 4,
			"category": "Breakfast"
		}`})

		draft, err := svc.Extract(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "Pancakes", draft.Title)
		require.NotNil(t, draft.Description)
		assert.Equal(t, "Fluffy breakfast pancakes", *draft.Description)
		assert.Equal(t, []string{"2 cups flour", "1 cup milk"}, draft.Ingredients)
		assert.Equal(t, []string{"Mix", "Fry"}, draft.Instructions)
		require.NotNil(t, draft.Servings)
		assert.Equal(t, 4.0, *draft.Servings)
		assert.Equal(t, types.SourceText, draft.Source)
	})

	t.Run("null scalars stay nil", func(t *testing.T) {
		svc := NewExtractorService(&fakeGenerator{reply: `{
			"title": "Mystery Stew",
			"description": null,
			"ingredients": ["stuff"],
			"instructions": ["cook"],
			"prepTimeMinutes": null,
			"cookTimeMinutes": null,
			"servings": null,
			"category": null
		}`})

		draft, err := svc.Extract(ctx, input)
		require.NoError(t, err)
		assert.Nil(t, draft.Description)
		assert.Nil(t, draft.PrepTimeMinutes)
		assert.Nil(t, draft.CookTimeMinutes)
		assert.Nil(t, draft.Servings)
		assert.Nil(t, draft.Category)
	})

	t.Run("unparseable reply is a malformed response", func(t *testing.T) {
		svc := NewExtractorService(&fakeGenerator{reply: "I could not find a recipe, sorry!"})

		_, err := svc.Extract(ctx, input)
		var perr *types.PipelineError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, types.ErrMalformedExtractorResponse, perr.Kind)
	})

	t.Run("missing required keys is a malformed response", func(t *testing.T) {
		svc := NewExtractorService(&fakeGenerator{reply: `{"title": "No lists here"}`})

		_, err := svc.Extract(ctx, input)
		var perr *types.PipelineError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, types.ErrMalformedExtractorResponse, perr.Kind)
	})

	t.Run("generator failure propagates", func(t *testing.T) {
		svc := NewExtractorService(&fakeGenerator{err: errors.New("upstream 500")})

		_, err := svc.Extract(ctx, input)
		require.Error(t, err)
		var perr *types.PipelineError
		assert.False(t, errors.As(err, &perr), "collaborator failures are not pipeline errors")
	})
}

func TestCoerceNonNegativeNumberOrNull(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{"number", `12`, floatPtr(12)},
		{"fractional number", `2.5`, floatPtr(2.5)},
		{"zero", `0`, floatPtr(0)},
		{"null", `null`, nil},
		{"absent", ``, nil},
		{"negative", `-1`, nil},
		{"numeric string", `"12"`, floatPtr(12)},
		{"padded numeric string", `" 4 "`, floatPtr(4)},
		{"non-numeric string", `"about four"`, nil},
		{"object", `{"minutes": 10}`, nil},
		{"boolean", `true`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceNonNegativeNumberOrNull(json.RawMessage(tt.raw))
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func floatPtr(f float64) *float64 { return &f }
