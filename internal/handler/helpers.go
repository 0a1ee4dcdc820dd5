package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edutrip-api/internal/middleware"
	"github.com/noah-isme/edutrip-api/internal/utils"
)

var errMissingUser = errors.New("missing user context")

// userIDFromContext returns the authenticated subject set by the JWT middleware.
func userIDFromContext(c *fiber.Ctx) (string, error) {
	switch v := c.Locals("user_id").(type) {
	case string:
		if id := strings.TrimSpace(v); id != "" {
			return id, nil
		}
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case fmt.Stringer:
		if id := strings.TrimSpace(v.String()); id != "" {
			return id, nil
		}
	}
	return "", errMissingUser
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	parsed, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func chain(middleware []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(middleware)+1)
	handlers = append(handlers, middleware...)
	return append(handlers, handler)
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// validationFailure renders validator errors as field level details.
func validationFailure(c *fiber.Ctx, err error) (bool, error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, nil
	}

	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = fieldErr.Tag()
	}
	return true, utils.Fail(c, fiber.StatusBadRequest, "validation failed", details)
}
