package service

import (
	"context"

	"github.com/platefile/backend/internal/types"
)

// ExtractionPipeline runs one extraction request: source → normalize →
// extract → validate. Each run owns its inputs and touches no shared
// state, so any number may run concurrently.
type ExtractionPipeline struct {
	source    *SourceReader
	extractor *ExtractorService
	textCap   int
}

// NewExtractionPipeline creates a new ExtractionPipeline instance
func NewExtractionPipeline(source *SourceReader, extractor *ExtractorService, textCap int) *ExtractionPipeline {
	return &ExtractionPipeline{
		source:    source,
		extractor: extractor,
		textCap:   textCap,
	}
}

// Extract produces a validated recipe draft from a raw input.
func (p *ExtractionPipeline) Extract(ctx context.Context, input types.RawInput) (*types.RecipeDraft, error) {
	extracted, err := p.source.Read(ctx, input)
	if err != nil {
		return nil, err
	}

	text := NormalizeText(extracted.Text, p.textCap)
	if text == "" {
		return nil, types.NewPipelineError(types.ErrNoExtractableText,
			"every "+string(extracted.Source)+" source yielded empty text")
	}

	draft, err := p.extractor.Extract(ctx, types.ExtractedText{Text: text, Source: extracted.Source})
	if err != nil {
		return nil, err
	}

	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	return draft, nil
}
