package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/edutrip-api/internal/dto"
	"github.com/noah-isme/edutrip-api/internal/models"
	"github.com/noah-isme/edutrip-api/internal/repository"
)

const dateLayout = "2006-01-02"

// EligibilityCacheInvalidator drops derived eligibility data after a profile change.
type EligibilityCacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID string) error
}

// AcademicProfileService manages the academic record used for eligibility scoring.
type AcademicProfileService interface {
	Get(ctx context.Context, userID string) (dto.AcademicProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req dto.AcademicProfileUpdateRequest) (dto.AcademicProfileResponse, error)
	AddEducationHistory(ctx context.Context, userID string, req dto.EducationHistoryRequest) (dto.EducationHistoryResponse, error)
	RecordDocument(ctx context.Context, userID string, req dto.DocumentRecordRequest) (dto.DocumentResponse, error)
	RecordTestScore(ctx context.Context, userID string, req dto.TestScoreRequest) (dto.TestScoreResponse, error)
}

type academicProfileService struct {
	repo        repository.AcademicProfileRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	invalidator EligibilityCacheInvalidator
	logger      zerolog.Logger
}

// NewAcademicProfileService constructs the profile service. invalidator may be nil.
func NewAcademicProfileService(repo repository.AcademicProfileRepository, validate *validator.Validate, invalidator EligibilityCacheInvalidator, logger zerolog.Logger) AcademicProfileService {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return &academicProfileService{
		repo:        repo,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		invalidator: invalidator,
		logger:      logger.With().Str("component", "academic_profile_service").Logger(),
	}
}

// Get returns the user's profile; a user without one gets an empty profile.
func (s *academicProfileService) Get(ctx context.Context, userID string) (dto.AcademicProfileResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return dto.AcademicProfileResponse{}, ErrInvalidUserID
	}

	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NewAcademicProfileResponse(models.AcademicProfile{UserID: userID}), nil
		}
		return dto.AcademicProfileResponse{}, err
	}

	return dto.NewAcademicProfileResponse(profile), nil
}

func (s *academicProfileService) UpdateProfile(ctx context.Context, userID string, req dto.AcademicProfileUpdateRequest) (dto.AcademicProfileResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return dto.AcademicProfileResponse{}, ErrInvalidUserID
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AcademicProfileResponse{}, err
	}

	profile, err := s.repo.Ensure(ctx, userID)
	if err != nil {
		return dto.AcademicProfileResponse{}, err
	}

	if req.CurrentEducationLevel != nil {
		profile.CurrentEducationLevel = models.EducationLevel(*req.CurrentEducationLevel)
	}
	if req.HighestEducationLevel != nil {
		profile.HighestEducationLevel = models.EducationLevel(*req.HighestEducationLevel)
	}
	if req.GPA != nil {
		profile.GPA = s.clean(*req.GPA)
	}
	if req.FieldOfStudy != nil {
		profile.FieldOfStudy = s.clean(*req.FieldOfStudy)
	}

	if err := s.repo.Update(ctx, &profile); err != nil {
		return dto.AcademicProfileResponse{}, err
	}
	s.invalidate(ctx, userID)

	updated, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return dto.AcademicProfileResponse{}, err
	}

	s.logger.Info().Str("user_id", userID).Msg("academic profile updated")
	return dto.NewAcademicProfileResponse(updated), nil
}

func (s *academicProfileService) AddEducationHistory(ctx context.Context, userID string, req dto.EducationHistoryRequest) (dto.EducationHistoryResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return dto.EducationHistoryResponse{}, ErrInvalidUserID
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.EducationHistoryResponse{}, err
	}

	if _, err := s.repo.Ensure(ctx, userID); err != nil {
		return dto.EducationHistoryResponse{}, err
	}

	entry := models.EducationHistoryEntry{
		UserID:          userID,
		InstitutionName: s.clean(req.InstitutionName),
		Country:         s.clean(req.Country),
		EducationLevel:  models.EducationLevel(req.EducationLevel),
		FieldOfStudy:    s.clean(req.FieldOfStudy),
		StartDate:       parseDate(req.StartDate),
		EndDate:         parseDate(req.EndDate),
		Graduated:       req.Graduated,
		Grade:           s.clean(req.Grade),
	}
	if req.GradingSystem != nil {
		system := models.GradingSystem(*req.GradingSystem)
		entry.GradingSystem = &system
	}

	if err := s.repo.AddEducationHistory(ctx, &entry); err != nil {
		return dto.EducationHistoryResponse{}, err
	}
	s.invalidate(ctx, userID)

	return dto.NewEducationHistoryResponse(entry), nil
}

func (s *academicProfileService) RecordDocument(ctx context.Context, userID string, req dto.DocumentRecordRequest) (dto.DocumentResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return dto.DocumentResponse{}, ErrInvalidUserID
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.DocumentResponse{}, err
	}

	if _, err := s.repo.Ensure(ctx, userID); err != nil {
		return dto.DocumentResponse{}, err
	}

	document := models.UploadedDocument{
		UserID:       userID,
		DocumentType: models.DocumentType(req.DocumentType),
		FileURL:      strings.TrimSpace(req.FileURL),
		Institution:  s.clean(req.Institution),
		Course:       s.clean(req.Course),
		StartDate:    parseDate(req.StartDate),
		EndDate:      parseDate(req.EndDate),
		FundingType:  s.clean(req.FundingType),
	}

	if err := s.repo.AddDocument(ctx, &document); err != nil {
		return dto.DocumentResponse{}, err
	}
	s.invalidate(ctx, userID)

	s.logger.Info().Str("user_id", userID).Str("document_type", string(document.DocumentType)).Msg("document recorded")
	return dto.NewDocumentResponse(document), nil
}

// RecordTestScore replaces the user's current result for the same test type.
func (s *academicProfileService) RecordTestScore(ctx context.Context, userID string, req dto.TestScoreRequest) (dto.TestScoreResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return dto.TestScoreResponse{}, ErrInvalidUserID
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.TestScoreResponse{}, err
	}

	if _, err := s.repo.Ensure(ctx, userID); err != nil {
		return dto.TestScoreResponse{}, err
	}

	record := models.TestScoreRecord{
		UserID:       userID,
		TestType:     models.TestType(req.TestType),
		OverallScore: s.clean(req.OverallScore),
		TestDate:     parseDate(req.TestDate),
	}

	if err := s.repo.UpsertTestScore(ctx, &record); err != nil {
		return dto.TestScoreResponse{}, err
	}
	s.invalidate(ctx, userID)

	return dto.NewTestScoreResponse(record), nil
}

func (s *academicProfileService) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(strings.TrimSpace(value)))
}

func (s *academicProfileService) invalidate(ctx context.Context, userID string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate eligibility cache")
	}
}

// parseDate expects input already validated against dateLayout.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &parsed
}
