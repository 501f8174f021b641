package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefile/backend/internal/middleware"
	"github.com/platefile/backend/internal/service"
	"github.com/platefile/backend/internal/types"
)

// ShoppingListHandler serves aggregated shopping lists.
type ShoppingListHandler struct {
	lists service.ShoppingListServiceInterface
}

// NewShoppingListHandler creates a new ShoppingListHandler instance
func NewShoppingListHandler(lists service.ShoppingListServiceInterface) *ShoppingListHandler {
	return &ShoppingListHandler{lists: lists}
}

// RegisterRoutes registers the shopping list routes
func (h *ShoppingListHandler) RegisterRoutes(router *gin.RouterGroup) {
	lists := router.Group("/shopping-lists")
	{
		lists.POST("", h.BuildList)
		lists.GET("/:id", h.GetList)
		lists.PATCH("/:id/items/:itemID", h.UpdateItem)
	}
}

// BuildList aggregates the named recipes' ingredients into a new list.
func (h *ShoppingListHandler) BuildList(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.BuildShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe_ids is required"})
		return
	}
	if len(req.RecipeIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one recipe id is required"})
		return
	}

	list, err := h.lists.Build(c.Request.Context(), userID, req.RecipeIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build shopping list"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shopping_list": list})
}

// GetList returns one shopping list with its items.
func (h *ShoppingListHandler) GetList(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopping list id"})
		return
	}

	list, err := h.lists.Get(c.Request.Context(), userID, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shopping list not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load shopping list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shopping_list": list})
}

// UpdateItem toggles one item's checked flag.
func (h *ShoppingListHandler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopping list id"})
		return
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req types.UpdateShoppingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Checked == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checked is required"})
		return
	}

	item, err := h.lists.SetItemChecked(c.Request.Context(), userID, listID, itemID, *req.Checked)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shopping list item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}
