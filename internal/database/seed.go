package database

import (
	"context"
	"errors"

	"finance4all/internal/models"

	"gorm.io/gorm"
)

// SeedDefaultCategories inserts the system categories that are missing.
// Existing defaults are matched by name and type, so running it twice is a no-op.
func SeedDefaultCategories(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, def := range models.DefaultCategories() {
			var existing models.Category
			err := tx.Where("user_id IS NULL AND name = ? AND type = ?", def.Name, def.Type).
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			category := def
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
