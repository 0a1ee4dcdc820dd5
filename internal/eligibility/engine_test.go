package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edutrip-api/internal/models"
)

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func outcome(t *testing.T, result Result, check Check) CheckOutcome {
	t.Helper()
	for _, item := range result.Breakdown {
		if item.Check == check {
			return item
		}
	}
	t.Fatalf("check %s not present in breakdown", check)
	return CheckOutcome{}
}

func TestEvaluateEndToEndScenario(t *testing.T) {
	applicant := &Applicant{
		HighestLevel: models.EducationLevelUndergraduate,
		GPA:          "3.6",
		Documents:    []models.DocumentType{models.DocumentTypePassportCopy},
	}
	requirement := &Requirement{
		AcceptedLevels:    []models.EducationLevel{models.EducationLevelUndergraduate},
		MinimumGPA:        floatPtr(3.0),
		RequiredDocuments: []models.DocumentType{models.DocumentTypePassportCopy},
	}

	result := Evaluate(applicant, requirement)

	require.Equal(t, 90, result.MaxPoints)
	require.Equal(t, 90, result.TotalPoints)
	require.Equal(t, 100, result.Score)
	require.True(t, result.IsEligible)
	require.Empty(t, result.MissingRequirements)
	require.Len(t, result.MetRequirements, 4)
	require.Equal(t, RecommendationEligible, result.Recommendation)
	require.Len(t, result.Breakdown, 4, "work experience is not counted when not required")
	for _, line := range result.MetRequirements {
		require.Contains(t, line, MetMarker)
	}
}

func TestEvaluateMissingDataShortCircuit(t *testing.T) {
	applicant := &Applicant{HighestLevel: models.EducationLevelDoctorate, GPA: "4.0"}

	for name, result := range map[string]Result{
		"no requirement": Evaluate(applicant, nil),
		"no profile":     Evaluate(nil, &Requirement{}),
		"neither":        Evaluate(nil, nil),
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, 0, result.Score)
			require.False(t, result.IsEligible)
			require.Empty(t, result.MetRequirements)
			require.Equal(t, []string{UnavailableMessage}, result.MissingRequirements)
			require.Equal(t, RecommendationUnavailable, result.Recommendation)
		})
	}
}

func TestEvaluateVacuousSatisfaction(t *testing.T) {
	applicant := &Applicant{
		CurrentLevel: models.EducationLevelMasters,
		Documents:    []models.DocumentType{models.DocumentTypeCV, models.DocumentTypePassportCopy},
	}
	requirement := &Requirement{
		AcceptedLevels:    []models.EducationLevel{models.EducationLevelUndergraduate},
		RequiredDocuments: []models.DocumentType{models.DocumentTypeCV, models.DocumentTypePassportCopy},
	}

	result := Evaluate(applicant, requirement)

	require.Equal(t, WeightEducation+WeightDocuments+WeightTestScores, result.MaxPoints)
	require.Equal(t, 100, result.Score)
	require.True(t, outcome(t, result, CheckTestScores).Met)
	require.Contains(t, result.MetRequirements, MetMarker+" No test scores required")
}

func TestEvaluateDocumentPartialCredit(t *testing.T) {
	requirement := &Requirement{
		AcceptedLevels: []models.EducationLevel{models.EducationLevelUndergraduate},
		RequiredDocuments: []models.DocumentType{
			models.DocumentTypePassportCopy,
			models.DocumentTypeAcademicTranscript,
			models.DocumentTypeDegreeCertificate,
			models.DocumentTypeStatementOfPurpose,
		},
	}
	documents := []models.DocumentType{models.DocumentTypePassportCopy, models.DocumentTypeAcademicTranscript}

	t.Run("education passes", func(t *testing.T) {
		result := Evaluate(&Applicant{HighestLevel: models.EducationLevelUndergraduate, Documents: documents}, requirement)

		docs := outcome(t, result, CheckDocuments)
		require.Equal(t, 12, docs.Points)
		require.False(t, docs.Met)
		require.Equal(t, 70, result.MaxPoints)
		require.Equal(t, 30+12+15, result.TotalPoints)
		require.Equal(t, 81, result.Score)
		require.Contains(t, result.MissingRequirements, MissingMarker+" Required documents incomplete (2/4 uploaded)")
		require.Contains(t, result.MissingRequirements, MissingMarker+" Missing document: Degree Certificate")
		require.Contains(t, result.MissingRequirements, MissingMarker+" Missing document: Statement Of Purpose")
		require.Len(t, result.MissingRequirements, 3)
	})

	t.Run("education fails", func(t *testing.T) {
		result := Evaluate(&Applicant{HighestLevel: models.EducationLevelHighSchool, Documents: documents}, requirement)

		require.Equal(t, 12+15, result.TotalPoints)
		require.Equal(t, 39, result.Score)
		require.False(t, result.IsEligible)
		require.Equal(t, RecommendationIneligible, result.Recommendation)
	})
}

func TestEvaluateTestScorePartialCreditConstant(t *testing.T) {
	applicant := &Applicant{
		HighestLevel: models.EducationLevelUndergraduate,
		TestScores:   []TestScore{{Type: models.TestTypeTOEFL, OverallScore: "85"}},
	}
	requirement := &Requirement{
		TestMinimums: map[models.TestType]float64{
			models.TestTypeTOEFL: 80,
			models.TestTypeIELTS: 6.5,
		},
	}

	result := Evaluate(applicant, requirement)

	tests := outcome(t, result, CheckTestScores)
	require.Equal(t, PartialTestScorePoints, tests.Points)
	require.Equal(t, WeightTestScores, tests.MaxPoints)
	require.False(t, tests.Met)
	require.Contains(t, result.MetRequirements, MetMarker+" TOEFL score 85 meets minimum 80")
	require.Contains(t, result.MissingRequirements, MissingMarker+" IELTS score required (minimum 6.5)")
	require.Len(t, result.MissingRequirements, 1)
	require.Equal(t, 30+25+8, result.TotalPoints)
	require.Equal(t, 90, result.Score)
}

func TestEvaluateTestScoresNonePassed(t *testing.T) {
	requirement := &Requirement{
		TestMinimums: map[models.TestType]float64{
			models.TestTypeIELTS: 6.5,
			models.TestTypeGRE:   310,
		},
	}

	t.Run("no records at all", func(t *testing.T) {
		result := Evaluate(&Applicant{HighestLevel: models.EducationLevelUndergraduate}, requirement)

		require.Equal(t, 0, outcome(t, result, CheckTestScores).Points)
		require.Equal(t, []string{MissingMarker + " No test scores uploaded"}, result.MissingRequirements)
	})

	t.Run("records present but failing", func(t *testing.T) {
		applicant := &Applicant{
			HighestLevel: models.EducationLevelUndergraduate,
			TestScores: []TestScore{
				{Type: models.TestTypeIELTS, OverallScore: "6.0"},
				{Type: models.TestTypeGRE, OverallScore: "pending"},
			},
		}
		result := Evaluate(applicant, requirement)

		require.Equal(t, 0, outcome(t, result, CheckTestScores).Points)
		require.Equal(t, []string{
			MissingMarker + " IELTS score 6 is below minimum 6.5",
			MissingMarker + ` GRE score "pending" is not a number (minimum 310)`,
		}, result.MissingRequirements)
	})
}

func TestEvaluateTestScoresFirstRecordWins(t *testing.T) {
	applicant := &Applicant{
		HighestLevel: models.EducationLevelUndergraduate,
		TestScores: []TestScore{
			{Type: models.TestTypeIELTS, OverallScore: "5.5"},
			{Type: models.TestTypeIELTS, OverallScore: "8.0"},
		},
	}
	requirement := &Requirement{TestMinimums: map[models.TestType]float64{models.TestTypeIELTS: 6.5}}

	result := Evaluate(applicant, requirement)

	require.Equal(t, 0, outcome(t, result, CheckTestScores).Points)
}

func TestEvaluateEducationRank(t *testing.T) {
	requirement := &Requirement{AcceptedLevels: []models.EducationLevel{models.EducationLevelUndergraduate}}

	cases := []struct {
		name      string
		applicant Applicant
		met       bool
	}{
		{name: "doctorate satisfies undergraduate", applicant: Applicant{HighestLevel: models.EducationLevelDoctorate}, met: true},
		{name: "current level is enough", applicant: Applicant{CurrentLevel: models.EducationLevelMasters}, met: true},
		{name: "diploma is below", applicant: Applicant{HighestLevel: models.EducationLevelDiploma}, met: false},
		{
			name: "graduated history entry",
			applicant: Applicant{
				HighestLevel: models.EducationLevelHighSchool,
				History:      []HistoryEntry{{Level: models.EducationLevelPostgraduateDiploma, Graduated: true}},
			},
			met: true,
		},
		{
			name:      "history entry must be graduated",
			applicant: Applicant{History: []HistoryEntry{{Level: models.EducationLevelMasters}}},
			met:       false,
		},
		{name: "unknown level", applicant: Applicant{HighestLevel: "APPRENTICESHIP"}, met: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			applicant := tc.applicant
			result := Evaluate(&applicant, requirement)
			education := outcome(t, result, CheckEducation)
			require.Equal(t, tc.met, education.Met)
			if tc.met {
				require.Equal(t, WeightEducation, education.Points)
			} else {
				require.Zero(t, education.Points)
			}
		})
	}
}

func TestEvaluateEducationWithoutAcceptedLevels(t *testing.T) {
	requirement := &Requirement{}

	withHistory := Evaluate(&Applicant{History: []HistoryEntry{{Level: models.EducationLevelDiploma, Graduated: true}}}, requirement)
	require.True(t, outcome(t, withHistory, CheckEducation).Met)

	empty := Evaluate(&Applicant{}, requirement)
	require.False(t, outcome(t, empty, CheckEducation).Met)
	require.Contains(t, empty.MissingRequirements, MissingMarker+" Education background not provided")
}

func TestEvaluateGPA(t *testing.T) {
	older := time.Date(2018, time.June, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)
	requirement := &Requirement{MinimumGPA: floatPtr(3.0)}

	cases := []struct {
		name      string
		applicant Applicant
		met       bool
	}{
		{name: "profile gpa passes", applicant: Applicant{GPA: "3.0"}, met: true},
		{name: "profile gpa with scale suffix", applicant: Applicant{GPA: "3.6/4.0"}, met: true},
		{name: "profile gpa below", applicant: Applicant{GPA: "2.9"}, met: false},
		{
			name: "profile gpa below does not fall back",
			applicant: Applicant{
				GPA:     "2.5",
				History: []HistoryEntry{{Graduated: true, Grade: "3.9", EndDate: &newer}},
			},
			met: false,
		},
		{
			name: "falls back to most recent graduated grade",
			applicant: Applicant{
				GPA: "n/a",
				History: []HistoryEntry{
					{Graduated: true, Grade: "2.0", EndDate: &older},
					{Graduated: true, Grade: "3.4", EndDate: &newer},
					{Graduated: false, Grade: "1.0", EndDate: &newer},
				},
			},
			met: true,
		},
		{
			name:      "no usable value",
			applicant: Applicant{History: []HistoryEntry{{Graduated: true}}},
			met:       false,
		},
		{
			name:      "no grading system conversion",
			applicant: Applicant{GPA: "75"},
			met:       true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			applicant := tc.applicant
			result := Evaluate(&applicant, requirement)
			gpa := outcome(t, result, CheckGPA)
			require.Equal(t, tc.met, gpa.Met)
			require.Equal(t, WeightGPA, gpa.MaxPoints)
		})
	}
}

func TestEvaluateWorkExperience(t *testing.T) {
	requirement := &Requirement{WorkExperienceRequired: true, MinWorkExperienceYears: intPtr(2)}

	without := Evaluate(&Applicant{HighestLevel: models.EducationLevelUndergraduate}, requirement)
	work := outcome(t, without, CheckWorkExperience)
	require.False(t, work.Met)
	require.Equal(t, 80, without.MaxPoints)
	require.Contains(t, without.MissingRequirements, MissingMarker+" Work experience letter required (minimum 2 years)")

	with := Evaluate(&Applicant{
		HighestLevel: models.EducationLevelUndergraduate,
		Documents:    []models.DocumentType{models.DocumentTypeWorkExperienceLetter},
	}, requirement)
	require.Equal(t, WeightWorkExperience, outcome(t, with, CheckWorkExperience).Points)
	require.Equal(t, 100, with.Score)
}

func TestEvaluateInvariants(t *testing.T) {
	applicants := []Applicant{
		{},
		{HighestLevel: models.EducationLevelHighSchool, GPA: "1.2"},
		{CurrentLevel: models.EducationLevelDoctorate, GPA: "4.0", Documents: []models.DocumentType{models.DocumentTypeCV}},
		{
			HighestLevel: models.EducationLevelDiploma,
			TestScores:   []TestScore{{Type: models.TestTypeSAT, OverallScore: "1200"}},
		},
	}
	requirements := []Requirement{
		{},
		{MinimumGPA: floatPtr(3.5), WorkExperienceRequired: true},
		{
			AcceptedLevels:    []models.EducationLevel{models.EducationLevelMasters},
			RequiredDocuments: []models.DocumentType{models.DocumentTypeCV, models.DocumentTypePassportCopy, models.DocumentTypeCV},
			TestMinimums:      map[models.TestType]float64{models.TestTypeSAT: 1100, models.TestTypeACT: 24},
		},
	}

	for i := range applicants {
		for j := range requirements {
			first := Evaluate(&applicants[i], &requirements[j])
			second := Evaluate(&applicants[i], &requirements[j])

			require.Equal(t, first, second, "evaluation must be idempotent")
			require.GreaterOrEqual(t, first.Score, 0)
			require.LessOrEqual(t, first.Score, 100)
			require.Equal(t, first.Score >= EligibleThreshold, first.IsEligible)
			require.Equal(t, Recommend(first.Score), first.Recommendation)
		}
	}
}

func TestRecommendBands(t *testing.T) {
	require.Equal(t, RecommendationEligible, Recommend(70))
	require.Equal(t, RecommendationPartial, Recommend(69))
	require.Equal(t, RecommendationPartial, Recommend(50))
	require.Equal(t, RecommendationIneligible, Recommend(49))
}

func TestParseNumberLeadingFloat(t *testing.T) {
	cases := []struct {
		raw    string
		want   float64
		parsed bool
	}{
		{raw: "3.6", want: 3.6, parsed: true},
		{raw: " 3.6/4.0 ", want: 3.6, parsed: true},
		{raw: ".5", want: 0.5, parsed: true},
		{raw: "7.", want: 7, parsed: true},
		{raw: "1e2", want: 100, parsed: true},
		{raw: "8.5e1", want: 85, parsed: true},
		{raw: "6.5E-1 band", want: 0.65, parsed: true},
		{raw: "7e", want: 7, parsed: true},
		{raw: "A+", parsed: false},
		{raw: "", parsed: false},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := parseNumber(tc.raw)
			require.Equal(t, tc.parsed, ok)
			require.InDelta(t, tc.want, got, 1e-9)
		})
	}
}
