package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefile/backend/internal/model"
	"github.com/platefile/backend/internal/types"
)

// RecipeService persists accepted drafts and serves stored recipes.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateFromDraft persists an accepted draft together with its normalized
// ingredient rows in one transaction. The draft itself is not mutated;
// identity is assigned here.
func (s *RecipeService) CreateFromDraft(ctx context.Context, draft *types.RecipeDraft, ingredients []types.NormalizedIngredient, userID uuid.UUID) (*model.Recipe, error) {
	recipe := &model.Recipe{
		ID:              uuid.New(),
		Title:           draft.Title,
		Category:        stringOrEmpty(draft.Category),
		Description:     stringOrEmpty(draft.Description),
		Ingredients:     model.JSONBStringArray(draft.Ingredients),
		Instructions:    model.JSONBStringArray(draft.Instructions),
		PrepTimeMinutes: draft.PrepTimeMinutes,
		CookTimeMinutes: draft.CookTimeMinutes,
		Servings:        draft.Servings,
		SourceKind:      string(draft.Source),
		DocumentURL:     draft.DocumentURL,
		UserID:          userID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		for i, ing := range ingredients {
			row := model.Ingredient{
				ID:          uuid.New(),
				RecipeID:    recipe.ID,
				Position:    i,
				RawText:     ing.RawText,
				Quantity:    ing.Quantity,
				Unit:        ing.Unit,
				Name:        ing.Name,
				Preparation: ing.Preparation,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes lists recipes for a user or all users if userID is nil
func (s *RecipeService) ListRecipes(ctx context.Context, userID *uuid.UUID) ([]*model.Recipe, error) {
	var recipes []model.Recipe
	query := s.db.WithContext(ctx)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	result := make([]*model.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}

// GetIngredients returns a recipe's normalized ingredient rows in their
// stored order.
func (s *RecipeService) GetIngredients(ctx context.Context, recipeID uuid.UUID) ([]types.NormalizedIngredient, error) {
	var rows []model.Ingredient
	if err := s.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	ingredients := make([]types.NormalizedIngredient, len(rows))
	for i, row := range rows {
		ingredients[i] = types.NormalizedIngredient{
			RawText:     row.RawText,
			Quantity:    row.Quantity,
			Unit:        row.Unit,
			Name:        row.Name,
			Preparation: row.Preparation,
		}
	}
	return ingredients, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
