package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edutrip-api/internal/config"
	"github.com/noah-isme/edutrip-api/internal/database"
	"github.com/noah-isme/edutrip-api/internal/handler"
	"github.com/noah-isme/edutrip-api/internal/middleware"
	"github.com/noah-isme/edutrip-api/internal/repository"
	"github.com/noah-isme/edutrip-api/internal/router"
	"github.com/noah-isme/edutrip-api/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to access database pool")
	}
	defer sqlDB.Close()

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, eligibility lists will not be cached")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	profileRepo := repository.NewAcademicProfileRepository(db)
	programRepo := repository.NewProgramRepository(db)
	eligibilityRepo := repository.NewEligibilityRepository(db)

	eligibilityService := service.NewEligibilityService(profileRepo, programRepo, eligibilityRepo, redisClient, cfg.EligibilityCacheTTL, logger)
	profileService := service.NewAcademicProfileService(profileRepo, validate, eligibilityService, logger)
	programService := service.NewProgramService(programRepo, validate, logger)

	checks := map[string]handler.HealthDependency{
		"database": database.PingSQL(sqlDB),
	}
	if redisClient != nil {
		checks["redis"] = database.PingRedis(redisClient)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:        &logger,
		AllowOrigins:  cfg.CORSAllowOrigins,
		AccessLogging: !cfg.IsProduction(),
	})
	router.Register(app, cfg, router.Dependencies{
		EligibilityHandler: handler.NewEligibilityHandler(eligibilityService, logger),
		ProfileHandler:     handler.NewProfileHandler(profileService, logger),
		ProgramHandler:     handler.NewProgramHandler(programService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
		CalculateLimiter:   middleware.RateLimit("eligibility-calculate", cfg.CalculateRateLimit, cfg.CalculateRateWindow),
		HealthChecks:       checks,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
