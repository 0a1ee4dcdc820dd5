package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edutrip-api/internal/service"
	"github.com/noah-isme/edutrip-api/internal/utils"
)

// EligibilityHandler exposes program eligibility calculation and lookup.
type EligibilityHandler struct {
	service service.EligibilityService
	logger  zerolog.Logger
}

// NewEligibilityHandler constructs an eligibility handler.
func NewEligibilityHandler(service service.EligibilityService, logger zerolog.Logger) *EligibilityHandler {
	return &EligibilityHandler{
		service: service,
		logger:  logger.With().Str("component", "eligibility_handler").Logger(),
	}
}

// Register wires eligibility routes. calculateMiddleware guards the
// recalculation endpoints, typically with a rate limiter.
func (h *EligibilityHandler) Register(router fiber.Router, calculateMiddleware ...fiber.Handler) {
	router.Get("", h.list)
	router.Get("/programs/:programId", h.get)
	router.Post("/programs/:programId/calculate", chain(calculateMiddleware, h.calculate)...)
	router.Post("/calculate-all", chain(calculateMiddleware, h.calculateAll)...)
}

func (h *EligibilityHandler) calculate(c *fiber.Ctx) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}
	programID, err := parseUintParam(c, "programId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid program id")
	}

	result, err := h.service.CalculateProgramEligibility(c.UserContext(), userID, programID)
	if err != nil {
		return h.handleError(c, err, "failed to calculate eligibility")
	}

	return utils.SendSuccess(c, "eligibility calculated", result)
}

func (h *EligibilityHandler) calculateAll(c *fiber.Ctx) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	items, err := h.service.CalculateAllProgramsEligibility(c.UserContext(), userID)
	if err != nil {
		return h.handleError(c, err, "failed to calculate eligibility")
	}

	return utils.OK(c, items, "eligibility calculated", fiber.Map{"count": len(items)})
}

func (h *EligibilityHandler) list(c *fiber.Ctx) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	items, cacheHit, err := h.service.ListEligibility(c.UserContext(), userID)
	if err != nil {
		return h.handleError(c, err, "failed to load eligibility")
	}

	return utils.OK(c, items, "eligibility retrieved", fiber.Map{
		"count":     len(items),
		"cache_hit": cacheHit,
	})
}

func (h *EligibilityHandler) get(c *fiber.Ctx) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}
	programID, err := parseUintParam(c, "programId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid program id")
	}

	item, err := h.service.GetCachedEligibility(c.UserContext(), userID, programID)
	if err != nil {
		return h.handleError(c, err, "failed to load eligibility")
	}

	return utils.SendSuccess(c, "eligibility retrieved", item)
}

func (h *EligibilityHandler) handleError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "program not found")
	case errors.Is(err, service.ErrEligibilityNotCalculated):
		return utils.SendError(c, fiber.StatusNotFound, "eligibility not calculated")
	case errors.Is(err, service.ErrInvalidUserID):
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
