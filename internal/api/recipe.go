package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefile/backend/internal/middleware"
	"github.com/platefile/backend/internal/service"
	"github.com/platefile/backend/internal/types"
)

// RecipeHandler serves stored recipes and their scaled ingredient views.
type RecipeHandler struct {
	recipes service.RecipeServiceInterface
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes service.RecipeServiceInterface) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/scale", h.ScaleRecipe)
	}
}

// ListRecipes returns the calling user's recipes.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), &userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetRecipe returns one recipe with its normalized ingredients.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipe"})
		return
	}

	ingredients, err := h.recipes.GetIngredients(c.Request.Context(), recipeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ingredients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe, "ingredients": ingredients})
}

// ScaleRecipe returns the recipe's ingredients rescaled to the serving
// count in the servings query parameter. The stored serving count is the
// scaling base; recipes without one cannot be scaled.
func (h *RecipeHandler) ScaleRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	target, err := strconv.ParseFloat(c.Query("servings"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "servings query parameter must be a number"})
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipe"})
		return
	}

	if recipe.Servings == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "recipe has no serving count to scale from",
			"kind":  types.ErrInvalidServings,
		})
		return
	}

	ingredients, err := h.recipes.GetIngredients(c.Request.Context(), recipeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ingredients"})
		return
	}

	scaled, err := service.ScaleIngredients(ingredients, *recipe.Servings, target)
	if err != nil {
		var perr *types.PipelineError
		if errors.As(err, &perr) {
			c.JSON(perr.HTTPStatus(), gin.H{"error": perr.Message, "kind": perr.Kind})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scale ingredients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"base_servings":   *recipe.Servings,
		"target_servings": target,
		"ingredients":     scaled,
	})
}
