package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefile/backend/internal/model"
)

// ShoppingListService builds shopping lists by aggregating ingredients
// across stored recipes, and persists the result. Aggregation itself is
// pure; only the finished lines are written.
type ShoppingListService struct {
	db      *gorm.DB
	recipes RecipeServiceInterface
}

// NewShoppingListService creates a new ShoppingListService instance
func NewShoppingListService(db *gorm.DB, recipes RecipeServiceInterface) *ShoppingListService {
	return &ShoppingListService{db: db, recipes: recipes}
}

// Build aggregates the named recipes' ingredients into a new list.
func (s *ShoppingListService) Build(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (*model.ShoppingList, error) {
	if len(recipeIDs) == 0 {
		return nil, fmt.Errorf("at least one recipe id is required")
	}

	agg := NewAggregator()
	for _, recipeID := range recipeIDs {
		ingredients, err := s.recipes.GetIngredients(ctx, recipeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load ingredients for recipe %s: %w", recipeID, err)
		}
		agg.Add(recipeID, ingredients)
	}

	list := &model.ShoppingList{
		ID:     uuid.New(),
		UserID: userID,
	}
	for _, line := range agg.Lines() {
		ids := make(model.JSONBStringArray, len(line.SourceRecipeIDs))
		for i, id := range line.SourceRecipeIDs {
			ids[i] = id.String()
		}
		list.Items = append(list.Items, model.ShoppingListItem{
			ID:              uuid.New(),
			ShoppingListID:  list.ID,
			Name:            line.Name,
			Unit:            line.Unit,
			Quantity:        line.Quantity,
			SourceRecipeIDs: ids,
			Checked:         false,
		})
	}

	if err := s.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, fmt.Errorf("failed to save shopping list: %w", err)
	}
	return list, nil
}

// Get retrieves a list with its items.
func (s *ShoppingListService) Get(ctx context.Context, userID, listID uuid.UUID) (*model.ShoppingList, error) {
	var list model.ShoppingList
	err := s.db.WithContext(ctx).Preload("Items").
		First(&list, "id = ? AND user_id = ?", listID, userID).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// SetItemChecked toggles one item's checked flag.
func (s *ShoppingListService) SetItemChecked(ctx context.Context, userID, listID, itemID uuid.UUID, checked bool) (*model.ShoppingListItem, error) {
	// Ownership check goes through the list row.
	if _, err := s.Get(ctx, userID, listID); err != nil {
		return nil, err
	}

	var item model.ShoppingListItem
	if err := s.db.WithContext(ctx).First(&item, "id = ? AND shopping_list_id = ?", itemID, listID).Error; err != nil {
		return nil, err
	}

	item.Checked = checked
	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
