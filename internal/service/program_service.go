package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/edutrip-api/internal/dto"
	"github.com/noah-isme/edutrip-api/internal/models"
	"github.com/noah-isme/edutrip-api/internal/repository"
)

// ProgramService lists programs and administers their admission requirements.
type ProgramService interface {
	ListActive(ctx context.Context) ([]dto.ProgramResponse, error)
	UpsertRequirement(ctx context.Context, programID uint, req dto.ProgramRequirementRequest) (dto.ProgramRequirementResponse, error)
}

type programService struct {
	repo      repository.ProgramRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProgramService constructs the program service.
func NewProgramService(repo repository.ProgramRepository, validate *validator.Validate, logger zerolog.Logger) ProgramService {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return &programService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "program_service").Logger(),
	}
}

func (s *programService) ListActive(ctx context.Context) ([]dto.ProgramResponse, error) {
	programs, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewProgramResponseSlice(programs), nil
}

// UpsertRequirement replaces the admission criteria of a program. Existing
// eligibility rows keep their last_calculated_at until the user recalculates.
func (s *programService) UpsertRequirement(ctx context.Context, programID uint, req dto.ProgramRequirementRequest) (dto.ProgramRequirementResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProgramRequirementResponse{}, err
	}

	if _, err := s.repo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgramRequirementResponse{}, ErrProgramNotFound
		}
		return dto.ProgramRequirementResponse{}, err
	}

	requirement := models.ProgramRequirement{
		ProgramID:              programID,
		MinimumGPA:             req.MinimumGPA,
		WorkExperienceRequired: req.WorkExperienceRequired,
		MinWorkExperienceYears: req.MinWorkExperienceYears,
		MinAge:                 req.MinAge,
		MaxAge:                 req.MaxAge,
		AdditionalRequirements: s.sanitizer.Sanitize(req.AdditionalRequirements),
	}
	if req.GradingSystem != nil {
		system := models.GradingSystem(*req.GradingSystem)
		requirement.GradingSystem = &system
	}

	levels := make([]models.EducationLevel, 0, len(req.AcceptedEducationLevels))
	for _, raw := range req.AcceptedEducationLevels {
		if level, ok := models.ParseEducationLevel(raw); ok {
			levels = append(levels, level)
		}
	}
	requirement.SetAcceptedEducationLevels(levels)

	docs := make([]models.DocumentType, 0, len(req.RequiredDocuments))
	for _, raw := range req.RequiredDocuments {
		if docType, ok := models.ParseDocumentType(raw); ok {
			docs = append(docs, docType)
		}
	}
	requirement.SetRequiredDocuments(docs)

	for key, minimum := range req.TestMinimums {
		value := minimum
		requirement.SetTestMinimum(models.TestType(key), &value)
	}

	if err := s.repo.UpsertRequirement(ctx, &requirement); err != nil {
		return dto.ProgramRequirementResponse{}, err
	}

	s.logger.Info().Uint("program_id", programID).Uint("requirement_id", requirement.ID).Msg("program requirement saved")
	return dto.NewProgramRequirementResponse(requirement), nil
}
