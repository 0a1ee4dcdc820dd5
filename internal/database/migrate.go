package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/edutrip-api/internal/models"
)

// Migrate creates or updates the tables backing profiles, programs and eligibility results.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.AcademicProfile{},
		&models.EducationHistoryEntry{},
		&models.UploadedDocument{},
		&models.TestScoreRecord{},
		&models.Program{},
		&models.ProgramRequirement{},
		&models.ProgramEligibility{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
