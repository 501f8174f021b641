package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingList groups aggregated lines built from one or more recipes.
type ShoppingList struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	DeletedAt gorm.DeletedAt     `gorm:"index" json:"-"`
	UserID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	Items     []ShoppingListItem `gorm:"foreignKey:ShoppingListID" json:"items"`
}

// ShoppingListItem is one aggregated (name, unit) line. SourceRecipeIDs
// records every recipe that contributed to the line.
type ShoppingListItem struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	ShoppingListID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"shopping_list_id"`
	Name            string           `gorm:"size:255;not null" json:"name"`
	Unit            *string          `gorm:"size:50" json:"unit"`
	Quantity        float64          `gorm:"type:float;not null" json:"quantity"`
	SourceRecipeIDs JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"source_recipe_ids"`
	Checked         bool             `gorm:"not null;default:false" json:"checked"`
}
