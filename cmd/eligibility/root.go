package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/noah-isme/edutrip-api/internal/database"
	"github.com/noah-isme/edutrip-api/internal/repository"
	"github.com/noah-isme/edutrip-api/internal/service"
)

type databaseOpener func(dsn string) (*gorm.DB, error)

// environment resolves settings from flags first, then EDUTRIP_* variables.
type environment struct {
	v    *viper.Viper
	open databaseOpener
	out  io.Writer
}

func newRootCommand(open databaseOpener, out io.Writer) *cobra.Command {
	env := &environment{v: viper.New(), open: open, out: out}
	env.v.SetEnvPrefix("EDUTRIP")
	env.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	env.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "eligibility",
		Short:         "Operator tools for program eligibility",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.String("database-url", "", "PostgreSQL DSN (overrides EDUTRIP_DATABASE_URL)")
	flags.String("redis-url", "", "Redis URL used to invalidate cached lists (overrides EDUTRIP_REDIS_URL)")
	flags.String("log-level", "warn", "log level")
	_ = env.v.BindPFlag("database.url", flags.Lookup("database-url"))
	_ = env.v.BindPFlag("redis.url", flags.Lookup("redis-url"))
	_ = env.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(newRecalcCommand(env))

	return root
}

func (e *environment) logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(e.v.GetString("log.level"))
	if err != nil {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// eligibilityService connects to storage and builds the calculator. The
// returned cleanup closes the cache client, if any.
func (e *environment) eligibilityService(logger zerolog.Logger) (service.EligibilityService, func(), error) {
	db, err := e.open(e.v.GetString("database.url"))
	if err != nil {
		return nil, nil, err
	}

	var cache *redis.Client
	cleanup := func() {}
	if url := e.v.GetString("redis.url"); url != "" {
		cache, err = database.ConnectRedis(url)
		if err != nil {
			return nil, nil, fmt.Errorf("connect cache: %w", err)
		}
		cleanup = func() { _ = cache.Close() }
	}

	svc := service.NewEligibilityService(
		repository.NewAcademicProfileRepository(db),
		repository.NewProgramRepository(db),
		repository.NewEligibilityRepository(db),
		cache,
		0,
		logger,
	)
	return svc, cleanup, nil
}
