package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefile/backend/internal/model"
	"github.com/platefile/backend/internal/types"
)

type fakePipeline struct {
	draft *types.RecipeDraft
	err   error
	input types.RawInput
}

func (f *fakePipeline) Extract(ctx context.Context, input types.RawInput) (*types.RecipeDraft, error) {
	f.input = input
	return f.draft, f.err
}

type fakeDraftStore struct {
	drafts  map[string]*types.RecipeDraft
	saveErr error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: map[string]*types.RecipeDraft{}}
}

func (f *fakeDraftStore) SaveDraft(ctx context.Context, draft *types.RecipeDraft) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	f.drafts[draft.ID] = draft
	return nil
}

func (f *fakeDraftStore) GetDraft(ctx context.Context, id string) (*types.RecipeDraft, error) {
	draft, ok := f.drafts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return draft, nil
}

func (f *fakeDraftStore) DeleteDraft(ctx context.Context, id string) error {
	delete(f.drafts, id)
	return nil
}

type fakeIngredients struct{}

func (f *fakeIngredients) Normalize(ctx context.Context, lines []string) []types.NormalizedIngredient {
	result := make([]types.NormalizedIngredient, len(lines))
	for i, line := range lines {
		result[i] = types.NormalizedIngredient{RawText: line, Name: line}
	}
	return result
}

type fakeRecipes struct {
	recipe      *model.Recipe
	recipes     []*model.Recipe
	ingredients []types.NormalizedIngredient
	err         error
}

func (f *fakeRecipes) CreateFromDraft(ctx context.Context, draft *types.RecipeDraft, ingredients []types.NormalizedIngredient, userID uuid.UUID) (*model.Recipe, error) {
	return f.recipe, f.err
}

func (f *fakeRecipes) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	return f.recipe, f.err
}

func (f *fakeRecipes) ListRecipes(ctx context.Context, userID *uuid.UUID) ([]*model.Recipe, error) {
	return f.recipes, f.err
}

func (f *fakeRecipes) GetIngredients(ctx context.Context, recipeID uuid.UUID) ([]types.NormalizedIngredient, error) {
	return f.ingredients, f.err
}

type fakeDocuments struct {
	url string
	err error
}

func (f *fakeDocuments) Upload(ctx context.Context, data []byte, mediaType string) (string, error) {
	return f.url, f.err
}

var testUserID = uuid.New()

// newExtractRouter mounts the handler behind a stand-in identity middleware.
func newExtractRouter(h *ExtractHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Next()
	})
	h.RegisterRoutes(group, nil)
	return router
}

func validDraft() *types.RecipeDraft {
	return &types.RecipeDraft{
		Title:        "Pancakes",
		Ingredients:  []string{"2 cups flour"},
		Instructions: []string{"Mix and fry"},
		Source:       types.SourceText,
	}
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rr, req)
	return rr
}

func TestExtractEndpoint(t *testing.T) {
	t.Run("text input returns a saved draft", func(t *testing.T) {
		pipeline := &fakePipeline{draft: validDraft()}
		drafts := newFakeDraftStore()
		router := newExtractRouter(NewExtractHandler(pipeline, drafts, &fakeIngredients{}, &fakeRecipes{}, nil))

		rr := postJSON(router, "/api/v1/extract", `{"text": "my recipe text"}`)
		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			Draft types.RecipeDraft `json:"draft"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Pancakes", resp.Draft.Title)
		assert.Equal(t, testUserID.String(), resp.Draft.UserID)
		assert.Len(t, drafts.drafts, 1)
		assert.Equal(t, types.SourceText, pipeline.input.Kind)
	})

	t.Run("url input runs the remote variant", func(t *testing.T) {
		pipeline := &fakePipeline{draft: validDraft()}
		router := newExtractRouter(NewExtractHandler(pipeline, newFakeDraftStore(), &fakeIngredients{}, &fakeRecipes{}, nil))

		rr := postJSON(router, "/api/v1/extract", `{"url": "https://example.com/r"}`)
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, types.SourceRemote, pipeline.input.Kind)
		assert.Equal(t, "https://example.com/r", pipeline.input.URL)
	})

	t.Run("document upload is archived and extracted", func(t *testing.T) {
		pipeline := &fakePipeline{draft: validDraft()}
		drafts := newFakeDraftStore()
		docs := &fakeDocuments{url: "https://bucket.s3.amazonaws.com/source-documents/x.pdf"}
		router := newExtractRouter(NewExtractHandler(pipeline, drafts, &fakeIngredients{}, &fakeRecipes{}, docs))

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("document", "recipe.pdf")
		require.NoError(t, err)
		_, _ = part.Write([]byte("%PDF-1.4 fake"))
		require.NoError(t, writer.Close())

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/extract", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, types.SourceDocument, pipeline.input.Kind)
		assert.Equal(t, []byte("%PDF-1.4 fake"), pipeline.input.Document)

		for _, draft := range drafts.drafts {
			assert.Equal(t, docs.url, draft.DocumentURL)
		}
	})

	t.Run("archival failure does not block extraction", func(t *testing.T) {
		pipeline := &fakePipeline{draft: validDraft()}
		docs := &fakeDocuments{err: errors.New("s3 down")}
		router := newExtractRouter(NewExtractHandler(pipeline, newFakeDraftStore(), &fakeIngredients{}, &fakeRecipes{}, docs))

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, _ := writer.CreateFormFile("document", "recipe.pdf")
		_, _ = part.Write([]byte("doc"))
		_ = writer.Close()

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/extract", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("no input designator is a 400", func(t *testing.T) {
		router := newExtractRouter(NewExtractHandler(&fakePipeline{}, newFakeDraftStore(), &fakeIngredients{}, &fakeRecipes{}, nil))

		rr := postJSON(router, "/api/v1/extract", `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), string(types.ErrInputMissing))
	})

	t.Run("both url and text is a 400", func(t *testing.T) {
		router := newExtractRouter(NewExtractHandler(&fakePipeline{}, newFakeDraftStore(), &fakeIngredients{}, &fakeRecipes{}, nil))

		rr := postJSON(router, "/api/v1/extract", `{"url": "https://example.com", "text": "also text"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("pipeline error statuses", func(t *testing.T) {
		cases := []struct {
			kind   types.ErrorKind
			status int
		}{
			{types.ErrInputMissing, http.StatusBadRequest},
			{types.ErrSizeExceeded, http.StatusRequestEntityTooLarge},
			{types.ErrNoExtractableText, http.StatusBadGateway},
			{types.ErrMalformedExtractorResponse, http.StatusBadGateway},
		}

		for _, tc := range cases {
			t.Run(string(tc.kind), func(t *testing.T) {
				pipeline := &fakePipeline{err: types.NewPipelineError(tc.kind, "boom")}
				router := newExtractRouter(NewExtractHandler(pipeline, newFakeDraftStore(), &fakeIngredients{}, &fakeRecipes{}, nil))

				rr := postJSON(router, "/api/v1/extract", `{"text": "x"}`)
				assert.Equal(t, tc.status, rr.Code)
				assert.Contains(t, rr.Body.String(), string(tc.kind))
			})
		}
	})

	t.Run("validation failure carries the rejected draft", func(t *testing.T) {
		rejected := validDraft()
		rejected.Title = ""
		pipeline := &fakePipeline{err: &types.PipelineError{
			Kind:    types.ErrValidationFailed,
			Message: "title is empty",
			Draft:   rejected,
		}}
		router := newExtractRouter(NewExtractHandler(pipeline, newFakeDraftStore(), &fakeIngredients{}, &fakeRecipes{}, nil))

		rr := postJSON(router, "/api/v1/extract", `{"text": "not a recipe"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var resp struct {
			Draft *types.RecipeDraft `json:"draft"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Draft)
		assert.Equal(t, rejected.Ingredients, resp.Draft.Ingredients)
	})

	t.Run("unclassified failures map to 502", func(t *testing.T) {
		pipeline := &fakePipeline{err: errors.New("connection reset")}
		router := newExtractRouter(NewExtractHandler(pipeline, newFakeDraftStore(), &fakeIngredients{}, &fakeRecipes{}, nil))

		rr := postJSON(router, "/api/v1/extract", `{"text": "x"}`)
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

type fakeQuota struct {
	limit     int
	remaining int
	reset     time.Time
	err       error
}

func (f *fakeQuota) Limit() int { return f.limit }

func (f *fakeQuota) GetRemainingRequests(ctx context.Context, userID string) (int, time.Time, error) {
	return f.remaining, f.reset, f.err
}

func TestExtractionQuotaEndpoint(t *testing.T) {
	t.Run("reports the remaining budget", func(t *testing.T) {
		reset := time.Now().Add(30 * time.Minute).Truncate(time.Second)
		h := NewExtractHandler(&fakePipeline{}, newFakeDraftStore(), &fakeIngredients{}, &fakeRecipes{}, nil)
		h.quota = &fakeQuota{limit: 10, remaining: 7, reset: reset}
		router := newExtractRouter(h)

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/extract/quota", nil)
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 10, resp.Limit)
		assert.Equal(t, 7, resp.Remaining)
		assert.Equal(t, reset.Unix(), resp.Reset)
	})

	t.Run("quota check failure is a 500", func(t *testing.T) {
		h := NewExtractHandler(&fakePipeline{}, newFakeDraftStore(), &fakeIngredients{}, &fakeRecipes{}, nil)
		h.quota = &fakeQuota{err: errors.New("redis down")}
		router := newExtractRouter(h)

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/extract/quota", nil)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("route is absent without a limiter", func(t *testing.T) {
		h := NewExtractHandler(&fakePipeline{}, newFakeDraftStore(), &fakeIngredients{}, &fakeRecipes{}, nil)
		router := newExtractRouter(h)

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/extract/quota", nil)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDraftEndpoints(t *testing.T) {
	setup := func(t *testing.T) (*gin.Engine, *fakeDraftStore, *fakeRecipes, string) {
		drafts := newFakeDraftStore()
		draft := validDraft()
		draft.UserID = testUserID.String()
		require.NoError(t, drafts.SaveDraft(context.Background(), draft))

		recipes := &fakeRecipes{recipe: &model.Recipe{ID: uuid.New(), Title: draft.Title}}
		router := newExtractRouter(NewExtractHandler(&fakePipeline{}, drafts, &fakeIngredients{}, recipes, nil))
		return router, drafts, recipes, draft.ID
	}

	t.Run("get returns the stored draft", func(t *testing.T) {
		router, _, _, id := setup(t)

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/extract/drafts/"+id, nil)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Pancakes")
	})

	t.Run("get unknown draft is a 404", func(t *testing.T) {
		router, _, _, _ := setup(t)

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/extract/drafts/missing", nil)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("another user's draft is invisible", func(t *testing.T) {
		router, drafts, _, _ := setup(t)
		other := validDraft()
		other.UserID = uuid.New().String()
		require.NoError(t, drafts.SaveDraft(context.Background(), other))

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/extract/drafts/"+other.ID, nil)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete removes the draft", func(t *testing.T) {
		router, drafts, _, id := setup(t)

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/extract/drafts/"+id, nil)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, drafts.drafts)
	})

	t.Run("accept persists the recipe and discards the draft", func(t *testing.T) {
		router, drafts, _, id := setup(t)

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/extract/drafts/%s/accept", id), nil)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), "Pancakes")
		assert.Empty(t, drafts.drafts, "accepted draft is deleted")
	})
}
