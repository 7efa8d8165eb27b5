package db

import (
	"fmt"

	"github.com/lifeline-ai/lifeline/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model for migration, emergency and
// interview variants alike.
func AllModels() []interface{} {
	return []interface{}{
		&models.Caller{},
		&models.Location{},
		&models.Session{},
		&models.SessionTranscript{},
		&models.Responder{},
		&models.Dispatch{},
		&models.Candidate{},
		&models.Interview{},
		&models.InterviewTranscript{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
