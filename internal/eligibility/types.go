// Package eligibility scores an applicant's academic record against a program's
// admission requirements. It performs no I/O; callers fetch and convert the data.
package eligibility

import (
	"time"

	"github.com/noah-isme/edutrip-api/internal/models"
)

// Weights of each check, in points.
const (
	WeightEducation      = 30
	WeightGPA            = 20
	WeightDocuments      = 25
	WeightTestScores     = 15
	WeightWorkExperience = 10

	// PartialTestScorePoints is awarded when some, but not all, test thresholds pass.
	PartialTestScorePoints = 8

	// EligibleThreshold is the minimum score considered eligible.
	EligibleThreshold = 70
	// PartialMatchThreshold is the lower bound of the partial-match band.
	PartialMatchThreshold = 50
)

// Status markers prefixed to requirement lines.
const (
	MetMarker     = "✓"
	MissingMarker = "✗"
)

// UnavailableMessage is the single missing requirement reported when data is absent.
const UnavailableMessage = "Unable to fetch data"

// Check names a scoring criterion.
type Check string

// Scoring criteria in evaluation order.
const (
	CheckEducation      Check = "education"
	CheckGPA            Check = "gpa"
	CheckDocuments      Check = "documents"
	CheckTestScores     Check = "test_scores"
	CheckWorkExperience Check = "work_experience"
)

// Applicant is the academic record being evaluated.
type Applicant struct {
	CurrentLevel models.EducationLevel
	HighestLevel models.EducationLevel
	GPA          string
	History      []HistoryEntry
	Documents    []models.DocumentType
	TestScores   []TestScore
}

// HistoryEntry is a single schooling record.
type HistoryEntry struct {
	Level     models.EducationLevel
	Graduated bool
	Grade     string
	EndDate   *time.Time
}

// TestScore is a submitted test result with its score kept as entered.
type TestScore struct {
	Type         models.TestType
	OverallScore string
}

// Requirement is the typed form of a program's admission criteria.
type Requirement struct {
	AcceptedLevels         []models.EducationLevel
	MinimumGPA             *float64
	RequiredDocuments      []models.DocumentType
	TestMinimums           map[models.TestType]float64
	WorkExperienceRequired bool
	MinWorkExperienceYears *int
}

// CheckOutcome records how a single check contributed to the score.
type CheckOutcome struct {
	Check     Check `json:"check"`
	Points    int   `json:"points"`
	MaxPoints int   `json:"max_points"`
	Met       bool  `json:"met"`
}

// Result is the outcome of an evaluation.
type Result struct {
	Score               int
	IsEligible          bool
	MetRequirements     []string
	MissingRequirements []string
	Recommendation      string
	TotalPoints         int
	MaxPoints           int
	Breakdown           []CheckOutcome
}
