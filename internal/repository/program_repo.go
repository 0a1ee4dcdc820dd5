package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/edutrip-api/internal/models"
)

// ProgramRepository exposes program and requirement persistence.
type ProgramRepository interface {
	GetByID(ctx context.Context, id uint) (models.Program, error)
	GetRequirement(ctx context.Context, programID uint) (models.ProgramRequirement, error)
	ListActive(ctx context.Context) ([]models.Program, error)
	ListActiveWithRequirements(ctx context.Context) ([]models.Program, error)
	UpsertRequirement(ctx context.Context, requirement *models.ProgramRequirement) error
}

type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository constructs a repository.
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) GetByID(ctx context.Context, id uint) (models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).First(&program, id).Error; err != nil {
		return models.Program{}, err
	}
	return program, nil
}

// GetRequirement returns the program's first requirement record.
func (r *programRepository) GetRequirement(ctx context.Context, programID uint) (models.ProgramRequirement, error) {
	var requirement models.ProgramRequirement
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("id ASC").
		First(&requirement).Error
	if err != nil {
		return models.ProgramRequirement{}, err
	}
	return requirement, nil
}

func (r *programRepository) ListActive(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	err := r.db.WithContext(ctx).
		Preload("Requirements", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&programs).Error
	if err != nil {
		return nil, err
	}
	return programs, nil
}

// ListActiveWithRequirements returns active programs owning at least one requirement record.
func (r *programRepository) ListActiveWithRequirements(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	err := r.db.WithContext(ctx).
		Preload("Requirements", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("is_active = ?", true).
		Where("EXISTS (SELECT 1 FROM program_requirements pr WHERE pr.program_id = programs.id)").
		Order("id ASC").
		Find(&programs).Error
	if err != nil {
		return nil, err
	}
	return programs, nil
}

// UpsertRequirement replaces the program's first requirement record, creating it when absent.
func (r *programRepository) UpsertRequirement(ctx context.Context, requirement *models.ProgramRequirement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ProgramRequirement
		err := tx.Where("program_id = ?", requirement.ProgramID).Order("id ASC").First(&existing).Error
		switch {
		case err == nil:
			requirement.ID = existing.ID
			requirement.CreatedAt = existing.CreatedAt
			return tx.Save(requirement).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(requirement).Error
		default:
			return err
		}
	})
}
