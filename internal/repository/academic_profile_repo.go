package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/edutrip-api/internal/models"
)

// AcademicProfileRepository persists academic profiles and their nested records.
type AcademicProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (models.AcademicProfile, error)
	Ensure(ctx context.Context, userID string) (models.AcademicProfile, error)
	Update(ctx context.Context, profile *models.AcademicProfile) error
	AddEducationHistory(ctx context.Context, entry *models.EducationHistoryEntry) error
	AddDocument(ctx context.Context, document *models.UploadedDocument) error
	UpsertTestScore(ctx context.Context, record *models.TestScoreRecord) error
}

type academicProfileRepository struct {
	db *gorm.DB
}

// NewAcademicProfileRepository instantiates the repository.
func NewAcademicProfileRepository(db *gorm.DB) AcademicProfileRepository {
	return &academicProfileRepository{db: db}
}

func (r *academicProfileRepository) GetByUserID(ctx context.Context, userID string) (models.AcademicProfile, error) {
	byInsertion := func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}

	var profile models.AcademicProfile
	err := r.db.WithContext(ctx).
		Preload("EducationHistory", byInsertion).
		Preload("Documents", byInsertion).
		Preload("TestScores", byInsertion).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return models.AcademicProfile{}, err
	}

	return profile, nil
}

// Ensure returns the user's profile, creating an empty one on first use.
func (r *academicProfileRepository) Ensure(ctx context.Context, userID string) (models.AcademicProfile, error) {
	var profile models.AcademicProfile
	err := r.db.WithContext(ctx).
		Where(models.AcademicProfile{UserID: userID}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return models.AcademicProfile{}, err
	}

	return profile, nil
}

func (r *academicProfileRepository) Update(ctx context.Context, profile *models.AcademicProfile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error
}

func (r *academicProfileRepository) AddEducationHistory(ctx context.Context, entry *models.EducationHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *academicProfileRepository) AddDocument(ctx context.Context, document *models.UploadedDocument) error {
	return r.db.WithContext(ctx).Create(document).Error
}

// UpsertTestScore keeps a single current record per (user, test type).
func (r *academicProfileRepository) UpsertTestScore(ctx context.Context, record *models.TestScoreRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "test_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"overall_score", "test_date", "updated_at"}),
	}).Create(record).Error
}
