package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/edutrip-api/internal/models"
)

// EligibilityRepository stores cached eligibility results keyed by (user, program).
type EligibilityRepository interface {
	Upsert(ctx context.Context, record *models.ProgramEligibility) error
	Get(ctx context.Context, userID string, programID uint) (models.ProgramEligibility, error)
	ListByUser(ctx context.Context, userID string) ([]models.ProgramEligibility, error)
}

type eligibilityRepository struct {
	db *gorm.DB
}

// NewEligibilityRepository constructs a repository.
func NewEligibilityRepository(db *gorm.DB) EligibilityRepository {
	return &eligibilityRepository{db: db}
}

// Upsert overwrites every derived column of an existing row; last write wins.
func (r *eligibilityRepository) Upsert(ctx context.Context, record *models.ProgramEligibility) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "program_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score",
				"is_eligible",
				"met_requirements",
				"missing_requirements",
				"recommendation",
				"last_calculated_at",
				"updated_at",
			}),
		}).
		Create(record).Error
}

func (r *eligibilityRepository) Get(ctx context.Context, userID string, programID uint) (models.ProgramEligibility, error) {
	var record models.ProgramEligibility
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("user_id = ? AND program_id = ?", userID, programID).
		First(&record).Error
	if err != nil {
		return models.ProgramEligibility{}, err
	}
	return record, nil
}

// ListByUser returns the user's cached results, best score first.
func (r *eligibilityRepository) ListByUser(ctx context.Context, userID string) ([]models.ProgramEligibility, error) {
	var records []models.ProgramEligibility
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("user_id = ?", userID).
		Order("score DESC, program_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
