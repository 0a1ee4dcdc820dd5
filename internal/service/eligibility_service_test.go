package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/edutrip-api/internal/eligibility"
	"github.com/noah-isme/edutrip-api/internal/models"
	"github.com/noah-isme/edutrip-api/internal/repository"
)

var fixedNow = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

func setupEligibilityDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.AcademicProfile{},
		&models.EducationHistoryEntry{},
		&models.UploadedDocument{},
		&models.TestScoreRecord{},
		&models.Program{},
		&models.ProgramRequirement{},
		&models.ProgramEligibility{},
	))
	return db
}

func seedProgram(t *testing.T, db *gorm.DB, name string, active bool, requirement *models.ProgramRequirement) models.Program {
	t.Helper()
	program := models.Program{Name: name, Institution: "University of Example", Country: "AU", IsActive: true}
	require.NoError(t, db.Create(&program).Error)
	if !active {
		require.NoError(t, db.Model(&program).Update("is_active", false).Error)
	}
	if requirement != nil {
		requirement.ProgramID = program.ID
		require.NoError(t, db.Create(requirement).Error)
	}
	return program
}

func nursingRequirement() *models.ProgramRequirement {
	minimumGPA := 3.0
	minimumIELTS := 6.5
	requirement := &models.ProgramRequirement{MinimumGPA: &minimumGPA, MinIelts: &minimumIELTS}
	requirement.SetAcceptedEducationLevels([]models.EducationLevel{models.EducationLevelUndergraduate})
	requirement.SetRequiredDocuments([]models.DocumentType{models.DocumentTypePassportCopy, models.DocumentTypeAcademicTranscript})
	return requirement
}

func lawRequirement() *models.ProgramRequirement {
	requirement := &models.ProgramRequirement{}
	requirement.SetRequiredDocuments([]models.DocumentType{models.DocumentTypeCV})
	return requirement
}

func seedApplicant(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()
	require.NoError(t, db.Create(&models.AcademicProfile{
		UserID:                userID,
		HighestEducationLevel: models.EducationLevelUndergraduate,
		GPA:                   "3.5",
	}).Error)
	require.NoError(t, db.Create(&models.UploadedDocument{UserID: userID, DocumentType: models.DocumentTypePassportCopy}).Error)
	require.NoError(t, db.Create(&models.UploadedDocument{UserID: userID, DocumentType: models.DocumentTypeAcademicTranscript}).Error)
	require.NoError(t, db.Create(&models.TestScoreRecord{UserID: userID, TestType: models.TestTypeIELTS, OverallScore: "7.0"}).Error)
}

func newTestEligibilityService(db *gorm.DB, cache *redis.Client) *eligibilityService {
	svc := NewEligibilityService(
		repository.NewAcademicProfileRepository(db),
		repository.NewProgramRepository(db),
		repository.NewEligibilityRepository(db),
		cache,
		time.Minute,
		zerolog.Nop(),
	).(*eligibilityService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestEligibilityServiceCalculateProgramPersistsResult(t *testing.T) {
	db := setupEligibilityDB(t)
	nursing := seedProgram(t, db, "Nursing", true, nursingRequirement())
	seedApplicant(t, db, "user_1")

	svc := newTestEligibilityService(db, nil)
	result, err := svc.CalculateProgramEligibility(context.Background(), "user_1", nursing.ID)
	require.NoError(t, err)
	require.Equal(t, 100, result.Score)
	require.True(t, result.IsEligible)
	require.Equal(t, eligibility.RecommendationEligible, result.Recommendation)
	require.Len(t, result.MetRequirements, 4)
	require.Empty(t, result.MissingRequirements)
	require.Equal(t, fixedNow, result.LastCalculatedAt)

	var stored models.ProgramEligibility
	require.NoError(t, db.Where("user_id = ? AND program_id = ?", "user_1", nursing.ID).First(&stored).Error)
	require.Equal(t, 100, stored.Score)
	require.True(t, stored.IsEligible)
	require.Equal(t, result.MetRequirements, []string(stored.MetRequirements))
	require.True(t, fixedNow.Equal(stored.LastCalculatedAt))
}

func TestEligibilityServiceRecalculationOverwritesCacheRow(t *testing.T) {
	db := setupEligibilityDB(t)
	nursing := seedProgram(t, db, "Nursing", true, nursingRequirement())
	seedApplicant(t, db, "user_1")
	svc := newTestEligibilityService(db, nil)
	ctx := context.Background()

	_, err := svc.CalculateProgramEligibility(ctx, "user_1", nursing.ID)
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ? AND document_type = ?", "user_1", models.DocumentTypeAcademicTranscript).
		Delete(&models.UploadedDocument{}).Error)

	result, err := svc.CalculateProgramEligibility(ctx, "user_1", nursing.ID)
	require.NoError(t, err)
	// 30 + 20 + 12 + 15 of 90
	require.Equal(t, 86, result.Score)
	require.Contains(t, result.MissingRequirements, eligibility.MissingMarker+" Missing document: Academic Transcript")

	var rows []models.ProgramEligibility
	require.NoError(t, db.Where("user_id = ?", "user_1").Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, 86, rows[0].Score)
}

func TestEligibilityServiceMissingDataIsUnavailable(t *testing.T) {
	db := setupEligibilityDB(t)
	nursing := seedProgram(t, db, "Nursing", true, nursingRequirement())
	culinary := seedProgram(t, db, "Culinary Arts", true, nil)
	seedApplicant(t, db, "user_1")
	svc := newTestEligibilityService(db, nil)
	ctx := context.Background()

	t.Run("no profile", func(t *testing.T) {
		result, err := svc.CalculateProgramEligibility(ctx, "user_without_profile", nursing.ID)
		require.NoError(t, err)
		require.Zero(t, result.Score)
		require.False(t, result.IsEligible)
		require.Empty(t, result.MetRequirements)
		require.Equal(t, []string{eligibility.UnavailableMessage}, result.MissingRequirements)
		require.Equal(t, eligibility.RecommendationUnavailable, result.Recommendation)

		var stored models.ProgramEligibility
		require.NoError(t, db.Where("user_id = ?", "user_without_profile").First(&stored).Error)
		require.Equal(t, []string{eligibility.UnavailableMessage}, []string(stored.MissingRequirements))
	})

	t.Run("no requirement", func(t *testing.T) {
		result, err := svc.CalculateProgramEligibility(ctx, "user_1", culinary.ID)
		require.NoError(t, err)
		require.Zero(t, result.Score)
		require.Equal(t, []string{eligibility.UnavailableMessage}, result.MissingRequirements)
	})
}

func TestEligibilityServiceUnknownProgram(t *testing.T) {
	db := setupEligibilityDB(t)
	seedApplicant(t, db, "user_1")
	svc := newTestEligibilityService(db, nil)

	_, err := svc.CalculateProgramEligibility(context.Background(), "user_1", 999)
	require.ErrorIs(t, err, ErrProgramNotFound)

	_, err = svc.CalculateProgramEligibility(context.Background(), "  ", 1)
	require.ErrorIs(t, err, ErrInvalidUserID)
}

func TestEligibilityServiceCalculateAllPrograms(t *testing.T) {
	db := setupEligibilityDB(t)
	nursing := seedProgram(t, db, "Nursing", true, nursingRequirement())
	seedProgram(t, db, "Culinary Arts", true, nil)
	seedProgram(t, db, "Archived MBA", false, nursingRequirement())
	law := seedProgram(t, db, "Law", true, lawRequirement())
	seedApplicant(t, db, "user_1")
	svc := newTestEligibilityService(db, nil)

	items, err := svc.CalculateAllProgramsEligibility(context.Background(), "user_1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, nursing.ID, items[0].Program.ID)
	require.Equal(t, "Nursing", items[0].Program.Name)
	require.Equal(t, 100, items[0].Eligibility.Score)

	// education 30 + documents 0 + tests 15 of 70
	require.Equal(t, law.ID, items[1].Program.ID)
	require.Equal(t, 64, items[1].Eligibility.Score)
	require.False(t, items[1].Eligibility.IsEligible)
	require.Equal(t, eligibility.RecommendationPartial, items[1].Eligibility.Recommendation)

	var count int64
	require.NoError(t, db.Model(&models.ProgramEligibility{}).Where("user_id = ?", "user_1").Count(&count).Error)
	require.Equal(t, int64(2), count)
}

type flakyEligibilityRepository struct {
	repository.EligibilityRepository
	failOn int
	calls  int
	err    error
}

func (r *flakyEligibilityRepository) Upsert(ctx context.Context, record *models.ProgramEligibility) error {
	r.calls++
	if r.calls == r.failOn {
		return r.err
	}
	return r.EligibilityRepository.Upsert(ctx, record)
}

func TestEligibilityServiceCalculateAllAbortsOnFirstError(t *testing.T) {
	db := setupEligibilityDB(t)
	seedProgram(t, db, "Nursing", true, nursingRequirement())
	seedProgram(t, db, "Law", true, lawRequirement())
	seedProgram(t, db, "Medicine", true, lawRequirement())
	seedApplicant(t, db, "user_1")

	writeErr := errors.New("disk full")
	results := &flakyEligibilityRepository{EligibilityRepository: repository.NewEligibilityRepository(db), failOn: 2, err: writeErr}
	svc := NewEligibilityService(repository.NewAcademicProfileRepository(db), repository.NewProgramRepository(db), results, nil, time.Minute, zerolog.Nop())

	items, err := svc.CalculateAllProgramsEligibility(context.Background(), "user_1")
	require.ErrorIs(t, err, writeErr)
	require.Nil(t, items)
	require.Equal(t, 2, results.calls, "third program must not be processed")
}

type failingProfileRepository struct {
	repository.AcademicProfileRepository
	err error
}

func (r failingProfileRepository) GetByUserID(context.Context, string) (models.AcademicProfile, error) {
	return models.AcademicProfile{}, r.err
}

func TestEligibilityServicePropagatesDataAccessErrors(t *testing.T) {
	db := setupEligibilityDB(t)
	nursing := seedProgram(t, db, "Nursing", true, nursingRequirement())

	connErr := errors.New("connection reset")
	svc := NewEligibilityService(failingProfileRepository{err: connErr}, repository.NewProgramRepository(db), repository.NewEligibilityRepository(db), nil, time.Minute, zerolog.Nop())

	_, err := svc.CalculateProgramEligibility(context.Background(), "user_1", nursing.ID)
	require.ErrorIs(t, err, connErr)

	_, err = svc.CalculateAllProgramsEligibility(context.Background(), "user_1")
	require.ErrorIs(t, err, connErr)

	var count int64
	require.NoError(t, db.Model(&models.ProgramEligibility{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestEligibilityServiceListUsesCacheAndInvalidates(t *testing.T) {
	db := setupEligibilityDB(t)
	nursing := seedProgram(t, db, "Nursing", true, nursingRequirement())
	law := seedProgram(t, db, "Law", true, lawRequirement())
	seedApplicant(t, db, "user_1")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := newTestEligibilityService(db, redisClient)
	ctx := context.Background()

	_, err = svc.CalculateProgramEligibility(ctx, "user_1", law.ID)
	require.NoError(t, err)
	_, err = svc.CalculateProgramEligibility(ctx, "user_1", nursing.ID)
	require.NoError(t, err)

	items, hit, err := svc.ListEligibility(ctx, "user_1")
	require.NoError(t, err)
	require.False(t, hit)
	require.Len(t, items, 2)
	require.Equal(t, nursing.ID, items[0].Program.ID, "best score first")
	generation, err := mr.Get(eligibilityGenerationKey("user_1"))
	require.NoError(t, err)
	require.Equal(t, "2", generation, "each calculation bumps the list generation")
	require.True(t, mr.Exists(eligibilityCacheKey("user_1", 2)))

	cached, hit, err := svc.ListEligibility(ctx, "user_1")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, items[0].Eligibility.Score, cached[0].Eligibility.Score)

	_, err = svc.CalculateProgramEligibility(ctx, "user_1", law.ID)
	require.NoError(t, err)
	generation, err = mr.Get(eligibilityGenerationKey("user_1"))
	require.NoError(t, err)
	require.Equal(t, "3", generation)
	require.False(t, mr.Exists(eligibilityCacheKey("user_1", 3)))

	_, hit, err = svc.ListEligibility(ctx, "user_1")
	require.NoError(t, err)
	require.False(t, hit)
}

func TestEligibilityServiceListFallsBackWhenCacheFails(t *testing.T) {
	db := setupEligibilityDB(t)
	nursing := seedProgram(t, db, "Nursing", true, nursingRequirement())
	seedApplicant(t, db, "user_1")
	_, err := newTestEligibilityService(db, nil).store(context.Background(), "user_1", nursing.ID, eligibility.Unavailable())
	require.NoError(t, err)

	redisClient, mock := redismock.NewClientMock()
	mock.ExpectGet(eligibilityGenerationKey("user_1")).RedisNil()
	mock.ExpectGet(eligibilityCacheKey("user_1", 0)).SetErr(errors.New("redis unavailable"))

	svc := newTestEligibilityService(db, redisClient)
	items, hit, err := svc.ListEligibility(context.Background(), "user_1")
	require.NoError(t, err)
	require.False(t, hit)
	require.Len(t, items, 1)
	require.Equal(t, nursing.ID, items[0].Program.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEligibilityServiceInvalidateUserReportsCacheErrors(t *testing.T) {
	redisClient, mock := redismock.NewClientMock()
	cacheErr := errors.New("redis unavailable")
	mock.ExpectIncr(eligibilityGenerationKey("user_1")).SetErr(cacheErr)

	svc := NewEligibilityService(nil, nil, nil, redisClient, time.Minute, zerolog.Nop())
	err := svc.InvalidateUser(context.Background(), "user_1")
	require.ErrorIs(t, err, cacheErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEligibilityServiceGetCachedEligibility(t *testing.T) {
	db := setupEligibilityDB(t)
	nursing := seedProgram(t, db, "Nursing", true, nursingRequirement())
	seedApplicant(t, db, "user_1")
	svc := newTestEligibilityService(db, nil)
	ctx := context.Background()

	_, err := svc.GetCachedEligibility(ctx, "user_1", nursing.ID)
	require.ErrorIs(t, err, ErrEligibilityNotCalculated)

	_, err = svc.CalculateProgramEligibility(ctx, "user_1", nursing.ID)
	require.NoError(t, err)

	item, err := svc.GetCachedEligibility(ctx, "user_1", nursing.ID)
	require.NoError(t, err)
	require.Equal(t, "Nursing", item.Program.Name)
	require.Equal(t, 100, item.Eligibility.Score)
	require.NotEmpty(t, item.Eligibility.MetRequirements)
	require.NotNil(t, item.Eligibility.MissingRequirements)
}

func TestEligibilityServiceListSkipsCacheWhenGenerationUnreadable(t *testing.T) {
	db := setupEligibilityDB(t)
	nursing := seedProgram(t, db, "Nursing", true, nursingRequirement())
	_, err := newTestEligibilityService(db, nil).store(context.Background(), "user_1", nursing.ID, eligibility.Unavailable())
	require.NoError(t, err)

	redisClient, mock := redismock.NewClientMock()
	mock.ExpectGet(eligibilityGenerationKey("user_1")).SetErr(errors.New("redis unavailable"))

	items, hit, err := newTestEligibilityService(db, redisClient).ListEligibility(context.Background(), "user_1")
	require.NoError(t, err)
	require.False(t, hit)
	require.Len(t, items, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

// invalidatingEligibilityRepository simulates a recalculation that lands
// after the list was read from the database but before it is cached.
type invalidatingEligibilityRepository struct {
	repository.EligibilityRepository
	onList func(ctx context.Context, userID string)
}

func (r *invalidatingEligibilityRepository) ListByUser(ctx context.Context, userID string) ([]models.ProgramEligibility, error) {
	records, err := r.EligibilityRepository.ListByUser(ctx, userID)
	if r.onList != nil {
		r.onList(ctx, userID)
	}
	return records, err
}

func TestEligibilityServiceListDoesNotCacheListOverlappingRecalculation(t *testing.T) {
	db := setupEligibilityDB(t)
	nursing := seedProgram(t, db, "Nursing", true, nursingRequirement())
	seedApplicant(t, db, "user_1")

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := newTestEligibilityService(db, redisClient)
	ctx := context.Background()

	_, err := svc.store(ctx, "user_1", nursing.ID, eligibility.Unavailable())
	require.NoError(t, err)

	results := &invalidatingEligibilityRepository{EligibilityRepository: svc.results}
	results.onList = func(ctx context.Context, userID string) {
		results.onList = nil
		_, err := svc.CalculateProgramEligibility(ctx, userID, nursing.ID)
		require.NoError(t, err)
	}
	svc.results = results

	stale, hit, err := svc.ListEligibility(ctx, "user_1")
	require.NoError(t, err)
	require.False(t, hit)
	require.Zero(t, stale[0].Eligibility.Score)

	fresh, hit, err := svc.ListEligibility(ctx, "user_1")
	require.NoError(t, err)
	require.False(t, hit, "the list loaded before the recalculation must not be served")
	require.Equal(t, 100, fresh[0].Eligibility.Score)

	_, hit, err = svc.ListEligibility(ctx, "user_1")
	require.NoError(t, err)
	require.True(t, hit)
}
