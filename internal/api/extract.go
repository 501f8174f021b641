package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platefile/backend/internal/middleware"
	"github.com/platefile/backend/internal/service"
	"github.com/platefile/backend/internal/types"
)

// extractionQuota reports how much of the extraction budget a user has
// left without consuming any of it.
type extractionQuota interface {
	Limit() int
	GetRemainingRequests(ctx context.Context, userID string) (int, time.Time, error)
}

// ExtractHandler owns the extraction surface: running the pipeline against
// an uploaded document, a URL, or pasted text, and managing the drafts it
// produces until the user accepts or discards them.
type ExtractHandler struct {
	pipeline    service.ExtractionPipelineInterface
	drafts      service.DraftServiceInterface
	ingredients service.IngredientServiceInterface
	recipes     service.RecipeServiceInterface
	documents   service.DocumentServiceInterface
	quota       extractionQuota
}

// NewExtractHandler creates a new ExtractHandler instance
func NewExtractHandler(
	pipeline service.ExtractionPipelineInterface,
	drafts service.DraftServiceInterface,
	ingredients service.IngredientServiceInterface,
	recipes service.RecipeServiceInterface,
	documents service.DocumentServiceInterface,
) *ExtractHandler {
	return &ExtractHandler{
		pipeline:    pipeline,
		drafts:      drafts,
		ingredients: ingredients,
		recipes:     recipes,
		documents:   documents,
	}
}

// RegisterRoutes registers the extraction routes. The rate limiter guards
// only the pipeline run; draft reads are cheap.
func (h *ExtractHandler) RegisterRoutes(router *gin.RouterGroup, limiter *middleware.RateLimiter) {
	if limiter != nil {
		h.quota = limiter
	}

	extract := router.Group("/extract")
	{
		if limiter != nil {
			extract.POST("", limiter.RateLimitMiddleware(), h.Extract)
		} else {
			extract.POST("", h.Extract)
		}
		if h.quota != nil {
			extract.GET("/quota", h.Quota)
		}
		extract.GET("/drafts/:id", h.GetDraft)
		extract.DELETE("/drafts/:id", h.DeleteDraft)
		extract.POST("/drafts/:id/accept", h.AcceptDraft)
	}
}

// Quota reports the caller's remaining extraction budget for the current
// window without consuming any of it.
func (h *ExtractHandler) Quota(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	remaining, reset, err := h.quota.GetRemainingRequests(c.Request.Context(), userID.String())
	if err != nil {
		log.Printf("[ExtractHandler] failed to check extraction quota: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check quota"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"limit":     h.quota.Limit(),
		"remaining": remaining,
		"reset":     reset.Unix(),
	})
}

// Extract runs the extraction pipeline for exactly one input designator.
func (h *ExtractHandler) Extract(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	input, perr := h.readInput(c)
	if perr != nil {
		c.JSON(perr.HTTPStatus(), gin.H{"error": perr.Message, "kind": perr.Kind})
		return
	}

	// Archive uploaded documents before extraction so the draft can point
	// back at its source. Archival failure never blocks extraction.
	var documentURL string
	if input.Kind == types.SourceDocument && h.documents != nil {
		url, err := h.documents.Upload(c.Request.Context(), input.Document, input.MediaType)
		if err != nil {
			log.Printf("[ExtractHandler] failed to archive source document: %v", err)
		} else {
			documentURL = url
		}
	}

	draft, err := h.pipeline.Extract(c.Request.Context(), input)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	draft.UserID = userID.String()
	draft.DocumentURL = documentURL
	if err := h.drafts.SaveDraft(c.Request.Context(), draft); err != nil {
		log.Printf("[ExtractHandler] failed to save draft: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"draft": draft})
}

// readInput resolves the request body into exactly one pipeline input.
// Multipart requests carry a document; JSON requests carry a URL or text.
func (h *ExtractHandler) readInput(c *gin.Context) (types.RawInput, *types.PipelineError) {
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		fileHeader, err := c.FormFile("document")
		if err != nil {
			return types.RawInput{}, types.NewPipelineError(types.ErrInputMissing, "multipart request is missing the document file")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return types.RawInput{}, types.NewPipelineError(types.ErrInputMissing, "uploaded document could not be opened")
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			return types.RawInput{}, types.NewPipelineError(types.ErrInputMissing, "uploaded document could not be read")
		}

		return types.RawInput{
			Kind:      types.SourceDocument,
			Document:  data,
			MediaType: fileHeader.Header.Get("Content-Type"),
		}, nil
	}

	var req types.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return types.RawInput{}, types.NewPipelineError(types.ErrInputMissing, "request body must be JSON with a url or text field")
	}

	switch {
	case req.URL != "" && req.Text != "":
		return types.RawInput{}, types.NewPipelineError(types.ErrInputMissing, "provide exactly one of url or text, not both")
	case req.URL != "":
		return types.RawInput{Kind: types.SourceRemote, URL: req.URL}, nil
	case strings.TrimSpace(req.Text) != "":
		return types.RawInput{Kind: types.SourceText, Text: req.Text}, nil
	default:
		return types.RawInput{}, types.NewPipelineError(types.ErrInputMissing, "no input provided: upload a document or send a url or text")
	}
}

// GetDraft returns a stored draft by ID.
func (h *ExtractHandler) GetDraft(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	draft, err := h.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}
	if draft.UserID != userID.String() {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// DeleteDraft discards a stored draft.
func (h *ExtractHandler) DeleteDraft(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	draft, err := h.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil || draft.UserID != userID.String() {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}

	if err := h.drafts.DeleteDraft(c.Request.Context(), draft.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "draft deleted"})
}

// AcceptDraft promotes a draft into a stored recipe. Ingredient lines are
// normalized at acceptance time, not at extraction time, so a discarded
// draft never costs a parser call.
func (h *ExtractHandler) AcceptDraft(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	draft, err := h.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil || draft.UserID != userID.String() {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}

	normalized := h.ingredients.Normalize(c.Request.Context(), draft.Ingredients)
	recipe, err := h.recipes.CreateFromDraft(c.Request.Context(), draft, normalized, userID)
	if err != nil {
		log.Printf("[ExtractHandler] failed to persist accepted draft %s: %v", draft.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}

	if err := h.drafts.DeleteDraft(c.Request.Context(), draft.ID); err != nil {
		log.Printf("[ExtractHandler] failed to delete accepted draft %s: %v", draft.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

// respondPipelineError maps pipeline failures onto HTTP statuses. A
// rejected draft travels in the 422 body so the client can show the user
// what was extracted. Anything the pipeline did not classify is treated as
// an upstream collaborator failure.
func respondPipelineError(c *gin.Context, err error) {
	var perr *types.PipelineError
	if errors.As(err, &perr) {
		body := gin.H{"error": perr.Message, "kind": perr.Kind}
		if perr.Draft != nil {
			body["draft"] = perr.Draft
		}
		c.JSON(perr.HTTPStatus(), body)
		return
	}

	log.Printf("[ExtractHandler] extraction failed: %v", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "extraction service failed"})
}
