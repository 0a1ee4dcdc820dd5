package models

import (
	"strings"
	"time"
)

// EducationLevel enumerates the schooling stages a profile or program can reference.
type EducationLevel string

// Recognised education levels.
const (
	EducationLevelHighSchool          EducationLevel = "HIGH_SCHOOL"
	EducationLevelCertificate         EducationLevel = "CERTIFICATE"
	EducationLevelFoundation          EducationLevel = "FOUNDATION"
	EducationLevelDiploma             EducationLevel = "DIPLOMA"
	EducationLevelProfessional        EducationLevel = "PROFESSIONAL"
	EducationLevelUndergraduate       EducationLevel = "UNDERGRADUATE"
	EducationLevelPostgraduateDiploma EducationLevel = "POSTGRADUATE_DIPLOMA"
	EducationLevelMasters             EducationLevel = "MASTERS"
	EducationLevelDoctorate           EducationLevel = "DOCTORATE"
)

// EducationLevels lists every recognised level in ascending order.
var EducationLevels = []EducationLevel{
	EducationLevelHighSchool,
	EducationLevelCertificate,
	EducationLevelFoundation,
	EducationLevelDiploma,
	EducationLevelProfessional,
	EducationLevelUndergraduate,
	EducationLevelPostgraduateDiploma,
	EducationLevelMasters,
	EducationLevelDoctorate,
}

// ParseEducationLevel normalises raw input into a known level.
func ParseEducationLevel(raw string) (EducationLevel, bool) {
	candidate := EducationLevel(normalizeEnum(raw))
	for _, level := range EducationLevels {
		if level == candidate {
			return level, true
		}
	}
	return "", false
}

// GradingSystem describes how a grade value should be read.
type GradingSystem string

// Supported grading systems.
const (
	GradingSystemGPA4        GradingSystem = "GPA_4"
	GradingSystemGPA5        GradingSystem = "GPA_5"
	GradingSystemPercentage  GradingSystem = "PERCENTAGE"
	GradingSystemLetter      GradingSystem = "LETTER"
	GradingSystemDivision    GradingSystem = "DIVISION"
	GradingSystemClassHonors GradingSystem = "CLASS_HONORS"
)

// AcademicProfile stores the academic summary of a user.
type AcademicProfile struct {
	ID                    uint                    `gorm:"primaryKey" json:"id"`
	UserID                string                  `gorm:"size:128;uniqueIndex;not null" json:"user_id"`
	CurrentEducationLevel EducationLevel          `gorm:"size:32" json:"current_education_level"`
	HighestEducationLevel EducationLevel          `gorm:"size:32" json:"highest_education_level"`
	GPA                   string                  `gorm:"size:32" json:"gpa"`
	FieldOfStudy          string                  `gorm:"size:255" json:"field_of_study"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
	EducationHistory      []EducationHistoryEntry `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"education_history"`
	Documents             []UploadedDocument      `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"documents"`
	TestScores            []TestScoreRecord       `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"test_scores"`
}

// EducationHistoryEntry captures a single school or degree attended by a user.
type EducationHistoryEntry struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          string         `gorm:"size:128;index;not null" json:"user_id"`
	InstitutionName string         `gorm:"size:255;not null" json:"institution_name"`
	Country         string         `gorm:"size:128" json:"country"`
	EducationLevel  EducationLevel `gorm:"size:32;not null" json:"education_level"`
	FieldOfStudy    string         `gorm:"size:255" json:"field_of_study"`
	StartDate       *time.Time     `json:"start_date"`
	EndDate         *time.Time     `json:"end_date"`
	Graduated       bool           `gorm:"not null;default:false" json:"graduated"`
	Grade           string         `gorm:"size:32" json:"grade"`
	GradingSystem   *GradingSystem `gorm:"size:32" json:"grading_system"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func normalizeEnum(raw string) string {
	value := strings.ToUpper(strings.TrimSpace(raw))
	value = strings.ReplaceAll(value, "-", "_")
	return strings.ReplaceAll(value, " ", "_")
}
