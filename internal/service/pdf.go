package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFTextExtractor pulls the embedded text layer out of a PDF document.
// Scanned documents have little or no text layer; the source reader
// detects that and falls back to OCR.
type PDFTextExtractor struct{}

// NewPDFTextExtractor creates a new PDFTextExtractor instance
func NewPDFTextExtractor() *PDFTextExtractor {
	return &PDFTextExtractor{}
}

// ExtractText returns the document's plain text layer.
func (e *PDFTextExtractor) ExtractText(ctx context.Context, document []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text layer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read text layer: %w", err)
	}

	return buf.String(), nil
}

// FirstPage returns a standalone single-page PDF containing only the
// document's first page, suitable for handing to the OCR collaborator.
func FirstPage(document []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := pdfapi.Trim(bytes.NewReader(document), &out, []string{"1"}, nil); err != nil {
		return nil, fmt.Errorf("failed to extract first page: %w", err)
	}
	return out.Bytes(), nil
}
