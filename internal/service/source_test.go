package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefile/backend/internal/types"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, document []byte) (string, error) {
	return f.text, f.err
}

type fakeOCR struct {
	text   string
	err    error
	called bool
}

func (f *fakeOCR) OCR(ctx context.Context, page []byte) (string, error) {
	f.called = true
	return f.text, f.err
}

type fakeFetcher struct {
	body string
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.body, f.err
}

func newTestReader(extractor TextExtractor, ocr OCRClient, fetcher RemoteFetcher) *SourceReader {
	r := NewSourceReader(1024, 200, extractor, ocr, fetcher)
	r.firstPage = func(document []byte) ([]byte, error) { return document, nil }
	return r
}

func TestSourceReaderDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("skips OCR when direct text is long enough", func(t *testing.T) {
		direct := strings.Repeat("flour sugar butter ", 20) // well over 200 chars
		ocr := &fakeOCR{text: "should not be used"}
		reader := newTestReader(&fakeExtractor{text: direct}, ocr, nil)

		result, err := reader.Read(ctx, types.RawInput{Kind: types.SourceDocument, Document: []byte("doc")})
		require.NoError(t, err)
		assert.Equal(t, direct, result.Text)
		assert.False(t, ocr.called, "OCR must not run when direct extraction suffices")
	})

	t.Run("appends OCR text when direct text is short", func(t *testing.T) {
		ocr := &fakeOCR{text: "Scanned ingredient list"}
		reader := newTestReader(&fakeExtractor{text: "Shortbread"}, ocr, nil)

		result, err := reader.Read(ctx, types.RawInput{Kind: types.SourceDocument, Document: []byte("doc")})
		require.NoError(t, err)
		assert.True(t, ocr.called)
		assert.Equal(t, "Shortbread\nScanned ingredient list", result.Text)
	})

	t.Run("absorbs direct extraction failure", func(t *testing.T) {
		ocr := &fakeOCR{text: "OCR rescue text"}
		reader := newTestReader(&fakeExtractor{err: errors.New("not a text PDF")}, ocr, nil)

		result, err := reader.Read(ctx, types.RawInput{Kind: types.SourceDocument, Document: []byte("doc")})
		require.NoError(t, err)
		assert.Equal(t, "OCR rescue text", result.Text)
	})

	t.Run("returns empty text when every strategy fails", func(t *testing.T) {
		ocr := &fakeOCR{err: errors.New("ocr down")}
		reader := newTestReader(&fakeExtractor{err: errors.New("broken")}, ocr, nil)

		result, err := reader.Read(ctx, types.RawInput{Kind: types.SourceDocument, Document: []byte("doc")})
		require.NoError(t, err)
		assert.Empty(t, result.Text)
	})

	t.Run("skips OCR strategy when no client is configured", func(t *testing.T) {
		reader := newTestReader(&fakeExtractor{text: "short"}, nil, nil)

		result, err := reader.Read(ctx, types.RawInput{Kind: types.SourceDocument, Document: []byte("doc")})
		require.NoError(t, err)
		assert.Equal(t, "short", result.Text)
	})

	t.Run("rejects empty document", func(t *testing.T) {
		reader := newTestReader(&fakeExtractor{}, nil, nil)

		_, err := reader.Read(ctx, types.RawInput{Kind: types.SourceDocument})
		var perr *types.PipelineError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, types.ErrInputMissing, perr.Kind)
	})

	t.Run("rejects oversized document", func(t *testing.T) {
		reader := newTestReader(&fakeExtractor{}, nil, nil)

		_, err := reader.Read(ctx, types.RawInput{
			Kind:     types.SourceDocument,
			Document: make([]byte, 2048),
		})
		var perr *types.PipelineError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, types.ErrSizeExceeded, perr.Kind)
	})
}

func TestSourceReaderRemote(t *testing.T) {
	ctx := context.Background()

	t.Run("returns fetched body", func(t *testing.T) {
		reader := newTestReader(nil, nil, &fakeFetcher{body: "Pancakes. 2 cups flour."})

		result, err := reader.Read(ctx, types.RawInput{Kind: types.SourceRemote, URL: "https://example.com/pancakes"})
		require.NoError(t, err)
		assert.Equal(t, "Pancakes. 2 cups flour.", result.Text)
		assert.Equal(t, types.SourceRemote, result.Source)
	})

	t.Run("falls back to URL instruction on fetch failure", func(t *testing.T) {
		reader := newTestReader(nil, nil, &fakeFetcher{err: errors.New("timeout")})

		result, err := reader.Read(ctx, types.RawInput{Kind: types.SourceRemote, URL: "https://example.com/pancakes"})
		require.NoError(t, err)
		assert.Equal(t, "Please extract the recipe from this URL: https://example.com/pancakes", result.Text)
	})

	t.Run("rejects missing URL", func(t *testing.T) {
		reader := newTestReader(nil, nil, &fakeFetcher{})

		_, err := reader.Read(ctx, types.RawInput{Kind: types.SourceRemote})
		var perr *types.PipelineError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, types.ErrInputMissing, perr.Kind)
	})
}

func TestSourceReaderText(t *testing.T) {
	reader := newTestReader(nil, nil, nil)

	result, err := reader.Read(context.Background(), types.RawInput{Kind: types.SourceText, Text: "pasted recipe"})
	require.NoError(t, err)
	assert.Equal(t, "pasted recipe", result.Text)
	assert.Equal(t, types.SourceText, result.Source)
}

func TestSourceReaderUnknownKind(t *testing.T) {
	reader := newTestReader(nil, nil, nil)

	_, err := reader.Read(context.Background(), types.RawInput{})
	var perr *types.PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, types.ErrInputMissing, perr.Kind)
}
