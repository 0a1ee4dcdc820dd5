package service

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/edutrip-api/internal/eligibility"
	"github.com/noah-isme/edutrip-api/internal/models"
)

// toApplicant converts a stored profile into engine input.
func toApplicant(profile models.AcademicProfile) *eligibility.Applicant {
	applicant := &eligibility.Applicant{
		CurrentLevel: profile.CurrentEducationLevel,
		HighestLevel: profile.HighestEducationLevel,
		GPA:          profile.GPA,
		History:      make([]eligibility.HistoryEntry, 0, len(profile.EducationHistory)),
		Documents:    make([]models.DocumentType, 0, len(profile.Documents)),
		TestScores:   make([]eligibility.TestScore, 0, len(profile.TestScores)),
	}

	for _, entry := range profile.EducationHistory {
		applicant.History = append(applicant.History, eligibility.HistoryEntry{
			Level:     entry.EducationLevel,
			Graduated: entry.Graduated,
			Grade:     entry.Grade,
			EndDate:   entry.EndDate,
		})
	}
	for _, doc := range profile.Documents {
		applicant.Documents = append(applicant.Documents, doc.DocumentType)
	}
	for _, record := range profile.TestScores {
		applicant.TestScores = append(applicant.TestScores, eligibility.TestScore{
			Type:         record.TestType,
			OverallScore: record.OverallScore,
		})
	}

	return applicant
}

// toRequirement parses the loosely stored requirement lists into typed sets.
// Unknown entries are logged and kept verbatim so they can never be satisfied:
// an unranked level matches no applicant and an unknown document is never
// uploaded. Duplicates collapse.
func toRequirement(requirement models.ProgramRequirement, logger zerolog.Logger) *eligibility.Requirement {
	typed := &eligibility.Requirement{
		MinimumGPA:             requirement.MinimumGPA,
		TestMinimums:           make(map[models.TestType]float64),
		WorkExperienceRequired: requirement.WorkExperienceRequired,
		MinWorkExperienceYears: requirement.MinWorkExperienceYears,
	}

	seenLevels := make(map[models.EducationLevel]struct{})
	for _, raw := range requirement.AcceptedEducationLevelValues() {
		level, ok := models.ParseEducationLevel(raw)
		if !ok {
			logger.Warn().Uint("program_id", requirement.ProgramID).Str("value", raw).Msg("unknown education level, requirement cannot be met")
			level = models.EducationLevel(strings.ToUpper(raw))
		}
		if _, dup := seenLevels[level]; dup {
			continue
		}
		seenLevels[level] = struct{}{}
		typed.AcceptedLevels = append(typed.AcceptedLevels, level)
	}

	seenDocs := make(map[models.DocumentType]struct{})
	for _, raw := range requirement.RequiredDocumentValues() {
		docType, ok := models.ParseDocumentType(raw)
		if !ok {
			logger.Warn().Uint("program_id", requirement.ProgramID).Str("value", raw).Msg("unknown document type, requirement cannot be met")
			docType = models.DocumentType(strings.ToUpper(raw))
		}
		if _, dup := seenDocs[docType]; dup {
			continue
		}
		seenDocs[docType] = struct{}{}
		typed.RequiredDocuments = append(typed.RequiredDocuments, docType)
	}

	for _, testType := range models.TestTypes {
		if minimum := requirement.TestMinimum(testType); minimum != nil {
			typed.TestMinimums[testType] = *minimum
		}
	}

	return typed
}
