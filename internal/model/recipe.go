package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is a persisted recipe produced by an accepted extraction draft.
type Recipe struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
	Title           string           `gorm:"size:255;not null" json:"title"`
	Description     string           `gorm:"type:text" json:"description"`
	Category        string           `gorm:"size:50" json:"category"`
	Ingredients     JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	PrepTimeMinutes *float64         `gorm:"type:float" json:"prep_time_minutes"`
	CookTimeMinutes *float64         `gorm:"type:float" json:"cook_time_minutes"`
	Servings        *float64         `gorm:"type:float" json:"servings"`
	SourceKind      string           `gorm:"size:20" json:"source_kind"`
	DocumentURL     string           `gorm:"size:512" json:"document_url,omitempty"`
	UserID          uuid.UUID        `gorm:"type:uuid;not null" json:"user_id"`
}

// Ingredient is one normalized ingredient row belonging to a recipe.
// Nullable columns mirror the draft semantics: nil quantity means
// unspecified, nil unit means unitless.
type Ingredient struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Position    int       `gorm:"not null" json:"position"`
	RawText     string    `gorm:"type:text;not null" json:"raw_text"`
	Quantity    *float64  `gorm:"type:float" json:"quantity"`
	Unit        *string   `gorm:"size:50" json:"unit"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Preparation *string   `gorm:"size:255" json:"preparation"`
}
