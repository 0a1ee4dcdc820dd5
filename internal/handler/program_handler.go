package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edutrip-api/internal/dto"
	"github.com/noah-isme/edutrip-api/internal/service"
	"github.com/noah-isme/edutrip-api/internal/utils"
)

// ProgramHandler lists programs and lets administrators edit their requirements.
type ProgramHandler struct {
	service service.ProgramService
	logger  zerolog.Logger
}

// NewProgramHandler constructs a program handler.
func NewProgramHandler(service service.ProgramService, logger zerolog.Logger) *ProgramHandler {
	return &ProgramHandler{
		service: service,
		logger:  logger.With().Str("component", "program_handler").Logger(),
	}
}

// Register wires the public program routes.
func (h *ProgramHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterAdmin wires the requirement administration routes.
func (h *ProgramHandler) RegisterAdmin(router fiber.Router) {
	router.Put("/:programId/requirement", h.upsertRequirement)
}

func (h *ProgramHandler) list(c *fiber.Ctx) error {
	programs, err := h.service.ListActive(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list programs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch programs")
	}

	return utils.OK(c, programs, "programs retrieved", fiber.Map{"count": len(programs)})
}

func (h *ProgramHandler) upsertRequirement(c *fiber.Ctx) error {
	programID, err := parseUintParam(c, "programId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid program id")
	}

	var payload dto.ProgramRequirementRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	requirement, err := h.service.UpsertRequirement(c.UserContext(), programID, payload)
	if err != nil {
		if handled, response := validationFailure(c, err); handled {
			return response
		}
		if errors.Is(err, service.ErrProgramNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "program not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("program_id", programID).Msg("failed to save requirement")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to save requirement")
	}

	return utils.SendSuccess(c, "requirement saved", requirement)
}
