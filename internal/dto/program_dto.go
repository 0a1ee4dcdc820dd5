package dto

import (
	"time"

	"github.com/noah-isme/edutrip-api/internal/models"
)

// ProgramRequirementRequest replaces the admission criteria of a program.
type ProgramRequirementRequest struct {
	AcceptedEducationLevels []string           `json:"accepted_education_levels" validate:"omitempty,dive,oneof=HIGH_SCHOOL CERTIFICATE FOUNDATION DIPLOMA PROFESSIONAL UNDERGRADUATE POSTGRADUATE_DIPLOMA MASTERS DOCTORATE"`
	MinimumGPA              *float64           `json:"minimum_gpa" validate:"omitempty,gte=0"`
	GradingSystem           *string            `json:"grading_system" validate:"omitempty,oneof=GPA_4 GPA_5 PERCENTAGE LETTER DIVISION CLASS_HONORS"`
	RequiredDocuments       []string           `json:"required_documents" validate:"omitempty,dive,oneof=PASSPORT_COPY ACADEMIC_TRANSCRIPT DEGREE_CERTIFICATE HIGH_SCHOOL_CERTIFICATE LANGUAGE_TEST_RESULT RECOMMENDATION_LETTER STATEMENT_OF_PURPOSE CV WORK_EXPERIENCE_LETTER FINANCIAL_STATEMENT SPONSORSHIP_LETTER BIRTH_CERTIFICATE MEDICAL_CERTIFICATE POLICE_CLEARANCE OTHER"`
	TestMinimums            map[string]float64 `json:"test_minimums" validate:"omitempty,dive,keys,oneof=TOEFL IELTS DUOLINGO PTE SAT ACT GRE GMAT,endkeys,gte=0"`
	WorkExperienceRequired  bool               `json:"work_experience_required"`
	MinWorkExperienceYears  *int               `json:"min_work_experience_years" validate:"omitempty,gte=0,lte=60"`
	MinAge                  *int               `json:"min_age" validate:"omitempty,gte=0,lte=120"`
	MaxAge                  *int               `json:"max_age" validate:"omitempty,gte=0,lte=120"`
	AdditionalRequirements  string             `json:"additional_requirements" validate:"omitempty,max=4000"`
}

// ProgramRequirementResponse serializes a requirement record with typed lists.
type ProgramRequirementResponse struct {
	ID                      uint                        `json:"id"`
	ProgramID               uint                        `json:"program_id"`
	AcceptedEducationLevels []string                    `json:"accepted_education_levels"`
	MinimumGPA              *float64                    `json:"minimum_gpa"`
	GradingSystem           *models.GradingSystem       `json:"grading_system"`
	RequiredDocuments       []string                    `json:"required_documents"`
	TestMinimums            map[models.TestType]float64 `json:"test_minimums"`
	WorkExperienceRequired  bool                        `json:"work_experience_required"`
	MinWorkExperienceYears  *int                        `json:"min_work_experience_years"`
	MinAge                  *int                        `json:"min_age"`
	MaxAge                  *int                        `json:"max_age"`
	AdditionalRequirements  string                      `json:"additional_requirements"`
	UpdatedAt               time.Time                   `json:"updated_at"`
}

// ProgramResponse serializes an active program.
type ProgramResponse struct {
	ProgramSummary
	Requirement *ProgramRequirementResponse `json:"requirement"`
}

// NewProgramRequirementResponse converts a requirement model.
func NewProgramRequirementResponse(requirement models.ProgramRequirement) ProgramRequirementResponse {
	minimums := make(map[models.TestType]float64)
	for _, testType := range models.TestTypes {
		if minimum := requirement.TestMinimum(testType); minimum != nil {
			minimums[testType] = *minimum
		}
	}

	return ProgramRequirementResponse{
		ID:                      requirement.ID,
		ProgramID:               requirement.ProgramID,
		AcceptedEducationLevels: nonNilStrings(requirement.AcceptedEducationLevelValues()),
		MinimumGPA:              requirement.MinimumGPA,
		GradingSystem:           requirement.GradingSystem,
		RequiredDocuments:       nonNilStrings(requirement.RequiredDocumentValues()),
		TestMinimums:            minimums,
		WorkExperienceRequired:  requirement.WorkExperienceRequired,
		MinWorkExperienceYears:  requirement.MinWorkExperienceYears,
		MinAge:                  requirement.MinAge,
		MaxAge:                  requirement.MaxAge,
		AdditionalRequirements:  requirement.AdditionalRequirements,
		UpdatedAt:               requirement.UpdatedAt,
	}
}

// NewProgramResponse converts a program and its first requirement record.
func NewProgramResponse(program models.Program) ProgramResponse {
	response := ProgramResponse{ProgramSummary: NewProgramSummary(program)}
	if len(program.Requirements) > 0 {
		requirement := NewProgramRequirementResponse(program.Requirements[0])
		response.Requirement = &requirement
	}
	return response
}

// NewProgramResponseSlice converts programs preserving order.
func NewProgramResponseSlice(programs []models.Program) []ProgramResponse {
	items := make([]ProgramResponse, 0, len(programs))
	for _, program := range programs {
		items = append(items, NewProgramResponse(program))
	}
	return items
}
