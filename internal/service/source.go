package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/platefile/backend/internal/types"
)

// SourceReader turns one of the three raw input variants into a single
// extracted text blob. Collaborator failures inside a fallback chain are
// absorbed and logged; the reader only fails outright on a violated
// precondition (missing input, oversized document).
type SourceReader struct {
	maxDocumentBytes int
	ocrTriggerChars  int
	extractor        TextExtractor
	ocr              OCRClient
	fetcher          RemoteFetcher
	firstPage        func(document []byte) ([]byte, error)
}

// NewSourceReader creates a new SourceReader instance
func NewSourceReader(maxDocumentBytes, ocrTriggerChars int, extractor TextExtractor, ocr OCRClient, fetcher RemoteFetcher) *SourceReader {
	return &SourceReader{
		maxDocumentBytes: maxDocumentBytes,
		ocrTriggerChars:  ocrTriggerChars,
		extractor:        extractor,
		ocr:              ocr,
		fetcher:          fetcher,
		firstPage:        FirstPage,
	}
}

// textStrategy is one step of an ordered fallback chain. Strategies run in
// sequence until the accumulated text is long enough; adding a new source
// is a list insertion, not another nested conditional.
type textStrategy struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// Read obtains raw text from the populated input variant.
func (r *SourceReader) Read(ctx context.Context, input types.RawInput) (types.ExtractedText, error) {
	switch input.Kind {
	case types.SourceDocument:
		return r.readDocument(ctx, input)
	case types.SourceRemote:
		return r.readRemote(ctx, input)
	case types.SourceText:
		return types.ExtractedText{Text: input.Text, Source: types.SourceText}, nil
	default:
		return types.ExtractedText{}, types.NewPipelineError(types.ErrInputMissing, "no usable input provided")
	}
}

func (r *SourceReader) readDocument(ctx context.Context, input types.RawInput) (types.ExtractedText, error) {
	if len(input.Document) == 0 {
		return types.ExtractedText{}, types.NewPipelineError(types.ErrInputMissing, "uploaded document is empty")
	}
	// Hard cap, not a truncation: oversized input must not silently degrade.
	if len(input.Document) > r.maxDocumentBytes {
		return types.ExtractedText{}, types.NewPipelineError(types.ErrSizeExceeded,
			fmt.Sprintf("document is %d bytes, cap is %d", len(input.Document), r.maxDocumentBytes))
	}

	strategies := []textStrategy{
		{
			name: "direct",
			run: func(ctx context.Context) (string, error) {
				return r.extractor.ExtractText(ctx, input.Document)
			},
		},
		{
			// Image-dominant document: OCR the rasterized first page.
			name: "ocr",
			run: func(ctx context.Context) (string, error) {
				if r.ocr == nil {
					return "", fmt.Errorf("no OCR client configured")
				}
				page, err := r.firstPage(input.Document)
				if err != nil {
					return "", err
				}
				return r.ocr.OCR(ctx, page)
			},
		},
	}

	var parts []string
	total := 0
	for _, strategy := range strategies {
		if total >= r.ocrTriggerChars {
			break
		}
		text, err := strategy.run(ctx)
		if err != nil {
			log.Printf("[SourceReader] %s extraction failed: %v", strategy.name, err)
			continue
		}
		if text != "" {
			parts = append(parts, text)
			total += len(text)
		}
	}

	return types.ExtractedText{Text: strings.Join(parts, "\n"), Source: types.SourceDocument}, nil
}

func (r *SourceReader) readRemote(ctx context.Context, input types.RawInput) (types.ExtractedText, error) {
	if input.URL == "" {
		return types.ExtractedText{}, types.NewPipelineError(types.ErrInputMissing, "no URL provided")
	}

	body, err := r.fetcher.Fetch(ctx, input.URL)
	if err != nil {
		// Timeouts and non-2xx statuses land here. Hand the extractor a
		// synthetic instruction embedding the URL as a last resort.
		log.Printf("[SourceReader] remote fetch failed, using URL fallback: %v", err)
		return types.ExtractedText{Text: remoteFallbackText(input.URL), Source: types.SourceRemote}, nil
	}

	return types.ExtractedText{Text: body, Source: types.SourceRemote}, nil
}

func remoteFallbackText(url string) string {
	return fmt.Sprintf("Please extract the recipe from this URL: %s", url)
}
