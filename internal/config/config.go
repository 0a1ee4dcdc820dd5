package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	JWTSecret           string
	EligibilityCacheTTL time.Duration
	CalculateRateLimit  int
	CalculateRateWindow time.Duration
	CORSAllowOrigins    string
	LogLevel            string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EDUTRIP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "EduTrip API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("eligibility.cache_ttl", "5m")
	v.SetDefault("eligibility.rate_limit", 10)
	v.SetDefault("eligibility.rate_window", "1m")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("log.level", "info")

	ttl, err := parseDuration(v.GetString("eligibility.cache_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid eligibility cache ttl: %w", err)
	}

	window, err := parseDuration(v.GetString("eligibility.rate_window"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid eligibility rate window: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		EligibilityCacheTTL: ttl,
		CalculateRateLimit:  v.GetInt("eligibility.rate_limit"),
		CalculateRateWindow: window,
		CORSAllowOrigins:    v.GetString("cors.allow_origins"),
		LogLevel:            strings.ToLower(v.GetString("log.level")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.CalculateRateLimit <= 0 {
		cfg.CalculateRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
