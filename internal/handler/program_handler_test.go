package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edutrip-api/internal/dto"
	"github.com/noah-isme/edutrip-api/internal/handler"
	"github.com/noah-isme/edutrip-api/internal/middleware"
	"github.com/noah-isme/edutrip-api/internal/service"
)

type stubProgramService struct {
	programs      []dto.ProgramResponse
	err           error
	lastProgramID uint
	lastRequest   dto.ProgramRequirementRequest
}

func (s *stubProgramService) ListActive(context.Context) ([]dto.ProgramResponse, error) {
	return s.programs, s.err
}

func (s *stubProgramService) UpsertRequirement(_ context.Context, programID uint, req dto.ProgramRequirementRequest) (dto.ProgramRequirementResponse, error) {
	s.lastProgramID = programID
	s.lastRequest = req
	if s.err != nil {
		return dto.ProgramRequirementResponse{}, s.err
	}
	return dto.ProgramRequirementResponse{ID: 3, ProgramID: programID, RequiredDocuments: req.RequiredDocuments}, nil
}

var _ service.ProgramService = (*stubProgramService)(nil)

func newProgramApp(svc service.ProgramService, role string) *fiber.App {
	app := fiber.New()
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		c.Locals("user_role", role)
		return c.Next()
	})
	h := handler.NewProgramHandler(svc, zerolog.Nop())
	h.Register(api.Group("/programs"))
	h.RegisterAdmin(api.Group("/admin/programs", middleware.RequireRole(middleware.AuthRoleAdmin)))
	return app
}

func TestProgramHandlerList(t *testing.T) {
	svc := &stubProgramService{programs: []dto.ProgramResponse{{ProgramSummary: dto.ProgramSummary{ID: 1, Name: "Nursing"}}}}
	app := newProgramApp(svc, "applicant")

	resp, payload := doRequest(t, app, http.MethodGet, "/api/v1/programs")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, payload.Meta["count"])
}

func TestProgramHandlerUpsertRequirementRequiresAdmin(t *testing.T) {
	svc := &stubProgramService{}

	resp, _ := sendJSON(t, newProgramApp(svc, "applicant"), http.MethodPut, "/api/v1/admin/programs/4/requirement", `{"required_documents":["CV"]}`)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Zero(t, svc.lastProgramID)

	resp, payload := sendJSON(t, newProgramApp(svc, "admin"), http.MethodPut, "/api/v1/admin/programs/4/requirement", `{"required_documents":["CV"],"test_minimums":{"IELTS":6.5}}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, uint(4), svc.lastProgramID)
	require.Equal(t, 6.5, svc.lastRequest.TestMinimums["IELTS"])
}

func TestProgramHandlerUpsertRequirementUnknownProgram(t *testing.T) {
	svc := &stubProgramService{err: service.ErrProgramNotFound}

	resp, payload := sendJSON(t, newProgramApp(svc, "admin"), http.MethodPut, "/api/v1/admin/programs/77/requirement", `{}`)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, "program not found", payload.Message)
}
