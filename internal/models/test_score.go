package models

import "time"

// TestType enumerates the language and aptitude tests programs may require.
type TestType string

// Supported test types.
const (
	TestTypeTOEFL    TestType = "TOEFL"
	TestTypeIELTS    TestType = "IELTS"
	TestTypeDuolingo TestType = "DUOLINGO"
	TestTypePTE      TestType = "PTE"
	TestTypeSAT      TestType = "SAT"
	TestTypeACT      TestType = "ACT"
	TestTypeGRE      TestType = "GRE"
	TestTypeGMAT     TestType = "GMAT"
)

// TestTypes lists the test types in evaluation order.
var TestTypes = []TestType{
	TestTypeTOEFL,
	TestTypeIELTS,
	TestTypeDuolingo,
	TestTypePTE,
	TestTypeSAT,
	TestTypeACT,
	TestTypeGRE,
	TestTypeGMAT,
}

// TestScoreRecord stores a submitted test result. Scores are kept as entered.
type TestScoreRecord struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       string     `gorm:"size:128;not null;uniqueIndex:idx_test_scores_user_type" json:"user_id"`
	TestType     TestType   `gorm:"size:16;not null;uniqueIndex:idx_test_scores_user_type" json:"test_type"`
	OverallScore string     `gorm:"size:32;not null" json:"overall_score"`
	TestDate     *time.Time `json:"test_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
