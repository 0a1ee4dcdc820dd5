package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/edutrip-api/internal/dto"
	"github.com/noah-isme/edutrip-api/internal/eligibility"
	"github.com/noah-isme/edutrip-api/internal/models"
	"github.com/noah-isme/edutrip-api/internal/observability"
	"github.com/noah-isme/edutrip-api/internal/repository"
)

var (
	// ErrProgramNotFound indicates the requested program does not exist.
	ErrProgramNotFound = errors.New("program not found")
	// ErrEligibilityNotCalculated indicates no cached result exists for the pair.
	ErrEligibilityNotCalculated = errors.New("eligibility has not been calculated")
	// ErrInvalidUserID indicates an empty user identifier.
	ErrInvalidUserID = errors.New("user id is required")
)

const (
	calculationModeSingle = "single"
	calculationModeBulk   = "bulk"
)

// EligibilityService calculates, persists and serves program eligibility.
type EligibilityService interface {
	CalculateProgramEligibility(ctx context.Context, userID string, programID uint) (dto.EligibilityResult, error)
	CalculateAllProgramsEligibility(ctx context.Context, userID string) ([]dto.ProgramEligibility, error)
	GetCachedEligibility(ctx context.Context, userID string, programID uint) (dto.ProgramEligibility, error)
	ListEligibility(ctx context.Context, userID string) ([]dto.ProgramEligibility, bool, error)
	InvalidateUser(ctx context.Context, userID string) error
}

type eligibilityService struct {
	profiles repository.AcademicProfileRepository
	programs repository.ProgramRepository
	results  repository.EligibilityRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewEligibilityService wires the eligibility calculator.
func NewEligibilityService(profiles repository.AcademicProfileRepository, programs repository.ProgramRepository, results repository.EligibilityRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) EligibilityService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &eligibilityService{
		profiles: profiles,
		programs: programs,
		results:  results,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "eligibility_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/edutrip-api/internal/service/eligibility"),
		now:      time.Now,
	}
}

func (s *eligibilityService) CalculateProgramEligibility(ctx context.Context, userID string, programID uint) (dto.EligibilityResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return dto.EligibilityResult{}, ErrInvalidUserID
	}

	ctx, span := s.tracer.Start(ctx, "eligibility.calculate_program")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.Int("program.id", int(programID)))

	start := s.now()
	result, calculatedAt, err := s.calculateProgram(ctx, userID, programID)
	observability.EligibilityDuration().WithLabelValues(calculationModeSingle).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.EligibilityCalculations().WithLabelValues(calculationModeSingle, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "calculation failed")
		return dto.EligibilityResult{}, err
	}

	observability.EligibilityCalculations().WithLabelValues(calculationModeSingle, outcomeLabel(result)).Inc()
	span.SetAttributes(attribute.Int("eligibility.score", result.Score), attribute.Bool("eligibility.eligible", result.IsEligible))
	span.SetStatus(codes.Ok, "calculated")

	s.invalidate(ctx, userID)
	s.logger.Info().
		Str("user_id", userID).
		Uint("program_id", programID).
		Int("score", result.Score).
		Bool("eligible", result.IsEligible).
		Msg("eligibility calculated")

	return dto.NewEligibilityResult(result, calculatedAt), nil
}

func (s *eligibilityService) calculateProgram(ctx context.Context, userID string, programID uint) (eligibility.Result, time.Time, error) {
	if _, err := s.programs.GetByID(ctx, programID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return eligibility.Result{}, time.Time{}, ErrProgramNotFound
		}
		return eligibility.Result{}, time.Time{}, err
	}

	applicant, err := s.loadApplicant(ctx, userID)
	if err != nil {
		return eligibility.Result{}, time.Time{}, err
	}

	var requirement *eligibility.Requirement
	record, err := s.programs.GetRequirement(ctx, programID)
	switch {
	case err == nil:
		requirement = toRequirement(record, s.logger)
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Debug().Uint("program_id", programID).Msg("program has no requirement record")
	default:
		return eligibility.Result{}, time.Time{}, err
	}

	result := eligibility.Evaluate(applicant, requirement)
	calculatedAt, err := s.store(ctx, userID, programID, result)
	if err != nil {
		return eligibility.Result{}, time.Time{}, err
	}

	return result, calculatedAt, nil
}

func (s *eligibilityService) CalculateAllProgramsEligibility(ctx context.Context, userID string) ([]dto.ProgramEligibility, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	ctx, span := s.tracer.Start(ctx, "eligibility.calculate_all")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	start := s.now()
	defer func() {
		observability.EligibilityDuration().WithLabelValues(calculationModeBulk).Observe(time.Since(start).Seconds())
	}()

	fail := func(err error) ([]dto.ProgramEligibility, error) {
		observability.EligibilityCalculations().WithLabelValues(calculationModeBulk, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "bulk calculation failed")
		return nil, err
	}

	// One profile snapshot serves every program in the batch.
	applicant, err := s.loadApplicant(ctx, userID)
	if err != nil {
		return fail(err)
	}

	programs, err := s.programs.ListActiveWithRequirements(ctx)
	if err != nil {
		return fail(err)
	}

	items := make([]dto.ProgramEligibility, 0, len(programs))
	stored := false
	defer func() {
		if stored {
			s.invalidate(ctx, userID)
		}
	}()

	for _, program := range programs {
		var requirement *eligibility.Requirement
		if len(program.Requirements) > 0 {
			requirement = toRequirement(program.Requirements[0], s.logger)
		}

		result := eligibility.Evaluate(applicant, requirement)
		calculatedAt, err := s.store(ctx, userID, program.ID, result)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Uint("program_id", program.ID).Msg("bulk eligibility aborted")
			return fail(err)
		}
		stored = true

		observability.EligibilityCalculations().WithLabelValues(calculationModeBulk, outcomeLabel(result)).Inc()
		items = append(items, dto.ProgramEligibility{
			Program:     dto.NewProgramSummary(program),
			Eligibility: dto.NewEligibilityResult(result, calculatedAt),
		})
	}

	span.SetAttributes(attribute.Int("eligibility.programs", len(items)))
	span.SetStatus(codes.Ok, "calculated")
	s.logger.Info().Str("user_id", userID).Int("programs", len(items)).Msg("bulk eligibility calculated")

	return items, nil
}

func (s *eligibilityService) GetCachedEligibility(ctx context.Context, userID string, programID uint) (dto.ProgramEligibility, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return dto.ProgramEligibility{}, ErrInvalidUserID
	}

	record, err := s.results.Get(ctx, userID, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgramEligibility{}, ErrEligibilityNotCalculated
		}
		return dto.ProgramEligibility{}, err
	}

	return dto.NewProgramEligibility(record), nil
}

// ListEligibility returns the user's cached results, best score first. The
// boolean reports whether the list was served from redis.
func (s *eligibilityService) ListEligibility(ctx context.Context, userID string) ([]dto.ProgramEligibility, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, false, ErrInvalidUserID
	}

	// Lists are cached under the user's current generation. Invalidation bumps
	// the generation, so a list loaded before a concurrent recalculation is
	// written under a key no reader asks for again.
	cacheKey := ""
	if s.cache != nil {
		generation, err := s.cacheGeneration(ctx, userID)
		if err != nil {
			observability.EligibilityCacheLookups().WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("failed to read eligibility cache generation")
		} else {
			cacheKey = eligibilityCacheKey(userID, generation)
		}
	}

	if cacheKey != "" {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var items []dto.ProgramEligibility
			if unmarshalErr := json.Unmarshal([]byte(cached), &items); unmarshalErr == nil {
				observability.EligibilityCacheLookups().WithLabelValues("hit").Inc()
				s.logger.Debug().Str("user_id", userID).Msg("eligibility cache hit")
				return items, true, nil
			}
			observability.EligibilityCacheLookups().WithLabelValues("error").Inc()
		} else if err != redis.Nil {
			observability.EligibilityCacheLookups().WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("failed to read eligibility cache")
		} else {
			observability.EligibilityCacheLookups().WithLabelValues("miss").Inc()
		}
	}

	records, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	items := dto.NewProgramEligibilitySlice(records)

	if cacheKey != "" {
		payload, err := json.Marshal(items)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store eligibility cache")
			}
		}
	}

	return items, false, nil
}

// InvalidateUser drops the cached eligibility list of a user.
func (s *eligibilityService) InvalidateUser(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	generationKey := eligibilityGenerationKey(userID)
	if err := s.cache.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("invalidate eligibility cache: %w", err)
	}
	// The generation must outlive every list written under it.
	if err := s.cache.Expire(ctx, generationKey, 2*s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to set eligibility cache generation ttl")
	}
	return nil
}

// cacheGeneration returns the user's list generation, 0 when none was recorded.
func (s *eligibilityService) cacheGeneration(ctx context.Context, userID string) (int64, error) {
	generation, err := s.cache.Get(ctx, eligibilityGenerationKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return generation, err
}

func (s *eligibilityService) invalidate(ctx context.Context, userID string) {
	if err := s.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate eligibility cache")
	}
}

// loadApplicant returns nil without error when the user has no profile yet.
func (s *eligibilityService) loadApplicant(ctx context.Context, userID string) (*eligibility.Applicant, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug().Str("user_id", userID).Msg("academic profile not found")
			return nil, nil
		}
		return nil, err
	}
	return toApplicant(profile), nil
}

func (s *eligibilityService) store(ctx context.Context, userID string, programID uint, result eligibility.Result) (time.Time, error) {
	calculatedAt := s.now().UTC()
	record := models.ProgramEligibility{
		UserID:              userID,
		ProgramID:           programID,
		Score:               result.Score,
		IsEligible:          result.IsEligible,
		MetRequirements:     datatypes.NewJSONSlice(result.MetRequirements),
		MissingRequirements: datatypes.NewJSONSlice(result.MissingRequirements),
		Recommendation:      result.Recommendation,
		LastCalculatedAt:    calculatedAt,
	}
	if err := s.results.Upsert(ctx, &record); err != nil {
		return time.Time{}, err
	}
	return calculatedAt, nil
}

func eligibilityCacheKey(userID string, generation int64) string {
	return fmt.Sprintf("eligibility:user:%s:v%d", userID, generation)
}

func eligibilityGenerationKey(userID string) string {
	return fmt.Sprintf("eligibility:user:%s:gen", userID)
}

func outcomeLabel(result eligibility.Result) string {
	switch {
	case result.Recommendation == eligibility.RecommendationUnavailable:
		return "unavailable"
	case result.IsEligible:
		return "eligible"
	default:
		return "ineligible"
	}
}
