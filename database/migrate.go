package database

import (
	"leadtrack/internal/models"

	"gorm.io/gorm"
)

// Migrate applies the schema. uuid_generate_v4 defaults require the
// uuid-ossp extension.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Lead{},
		&models.Note{},
	)
}
