package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/platefile/backend/internal/model"
)

// RunMigrations brings the schema up to date. GORM auto-migration covers
// both the PostgreSQL deployment and the SQLite databases the tests use.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running migrations on %s", db.Dialector.Name())
	return db.AutoMigrate(
		&model.Recipe{},
		&model.Ingredient{},
		&model.ShoppingList{},
		&model.ShoppingListItem{},
	)
}
