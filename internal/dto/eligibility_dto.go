package dto

import (
	"time"

	"github.com/noah-isme/edutrip-api/internal/eligibility"
	"github.com/noah-isme/edutrip-api/internal/models"
)

// EligibilityResult is the scored outcome for one program.
type EligibilityResult struct {
	Score               int                        `json:"score"`
	IsEligible          bool                       `json:"is_eligible"`
	MetRequirements     []string                   `json:"met_requirements"`
	MissingRequirements []string                   `json:"missing_requirements"`
	Recommendation      string                     `json:"recommendation"`
	TotalPoints         int                        `json:"total_points,omitempty"`
	MaxPoints           int                        `json:"max_points,omitempty"`
	Breakdown           []eligibility.CheckOutcome `json:"breakdown,omitempty"`
	LastCalculatedAt    time.Time                  `json:"last_calculated_at"`
}

// ProgramSummary identifies the program an eligibility result belongs to.
type ProgramSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Country     string `json:"country"`
}

// ProgramEligibility pairs a program with the user's eligibility for it.
type ProgramEligibility struct {
	Program     ProgramSummary    `json:"program"`
	Eligibility EligibilityResult `json:"eligibility"`
}

// NewEligibilityResult converts an engine result.
func NewEligibilityResult(result eligibility.Result, calculatedAt time.Time) EligibilityResult {
	return EligibilityResult{
		Score:               result.Score,
		IsEligible:          result.IsEligible,
		MetRequirements:     nonNilStrings(result.MetRequirements),
		MissingRequirements: nonNilStrings(result.MissingRequirements),
		Recommendation:      result.Recommendation,
		TotalPoints:         result.TotalPoints,
		MaxPoints:           result.MaxPoints,
		Breakdown:           result.Breakdown,
		LastCalculatedAt:    calculatedAt,
	}
}

// NewProgramSummary converts a program model.
func NewProgramSummary(program models.Program) ProgramSummary {
	return ProgramSummary{
		ID:          program.ID,
		Name:        program.Name,
		Institution: program.Institution,
		Country:     program.Country,
	}
}

// NewProgramEligibility converts a cached eligibility row.
func NewProgramEligibility(record models.ProgramEligibility) ProgramEligibility {
	summary := NewProgramSummary(record.Program)
	summary.ID = record.ProgramID

	return ProgramEligibility{
		Program: summary,
		Eligibility: EligibilityResult{
			Score:               record.Score,
			IsEligible:          record.IsEligible,
			MetRequirements:     nonNilStrings(record.MetRequirements),
			MissingRequirements: nonNilStrings(record.MissingRequirements),
			Recommendation:      record.Recommendation,
			LastCalculatedAt:    record.LastCalculatedAt,
		},
	}
}

// NewProgramEligibilitySlice converts cached rows preserving order.
func NewProgramEligibilitySlice(records []models.ProgramEligibility) []ProgramEligibility {
	items := make([]ProgramEligibility, 0, len(records))
	for _, record := range records {
		items = append(items, NewProgramEligibility(record))
	}
	return items
}

func nonNilStrings(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	return append([]string(nil), values...)
}
