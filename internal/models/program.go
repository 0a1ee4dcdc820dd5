package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Program represents an admission program offered through the agency.
type Program struct {
	ID           uint                 `gorm:"primaryKey" json:"id"`
	Name         string               `gorm:"size:255;not null" json:"name"`
	Institution  string               `gorm:"size:255" json:"institution"`
	Country      string               `gorm:"size:128" json:"country"`
	IsActive     bool                 `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Requirements []ProgramRequirement `gorm:"foreignKey:ProgramID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"requirements"`
}

// ProgramRequirement holds the admission criteria of a program.
// List columns are stored as loosely shaped JSON and decoded on read.
type ProgramRequirement struct {
	ID                      uint           `gorm:"primaryKey" json:"id"`
	ProgramID               uint           `gorm:"not null;index" json:"program_id"`
	AcceptedEducationLevels datatypes.JSON `gorm:"type:json" json:"-"`
	MinimumGPA              *float64       `json:"minimum_gpa"`
	GradingSystem           *GradingSystem `gorm:"size:32" json:"grading_system"`
	RequiredDocuments       datatypes.JSON `gorm:"type:json" json:"-"`
	MinToefl                *float64       `json:"min_toefl"`
	MinIelts                *float64       `json:"min_ielts"`
	MinDuolingo             *float64       `json:"min_duolingo"`
	MinPte                  *float64       `json:"min_pte"`
	MinSat                  *float64       `json:"min_sat"`
	MinAct                  *float64       `json:"min_act"`
	MinGre                  *float64       `json:"min_gre"`
	MinGmat                 *float64       `json:"min_gmat"`
	WorkExperienceRequired  bool           `gorm:"not null;default:false" json:"work_experience_required"`
	MinWorkExperienceYears  *int           `json:"min_work_experience_years"`
	MinAge                  *int           `json:"min_age"`
	MaxAge                  *int           `json:"max_age"`
	AdditionalRequirements  string         `gorm:"type:text" json:"additional_requirements"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

// SetAcceptedEducationLevels serializes levels into the JSON column.
func (r *ProgramRequirement) SetAcceptedEducationLevels(levels []EducationLevel) {
	r.AcceptedEducationLevels = encodeStringList(levels)
}

// SetRequiredDocuments serializes document types into the JSON column.
func (r *ProgramRequirement) SetRequiredDocuments(docs []DocumentType) {
	r.RequiredDocuments = encodeStringList(docs)
}

// AcceptedEducationLevelValues returns the raw entries of the accepted levels column.
func (r ProgramRequirement) AcceptedEducationLevelValues() []string {
	return decodeLooseStringList(r.AcceptedEducationLevels)
}

// RequiredDocumentValues returns the raw entries of the required documents column.
func (r ProgramRequirement) RequiredDocumentValues() []string {
	return decodeLooseStringList(r.RequiredDocuments)
}

// TestMinimum returns the configured threshold for a test type, if any.
func (r ProgramRequirement) TestMinimum(testType TestType) *float64 {
	switch testType {
	case TestTypeTOEFL:
		return r.MinToefl
	case TestTypeIELTS:
		return r.MinIelts
	case TestTypeDuolingo:
		return r.MinDuolingo
	case TestTypePTE:
		return r.MinPte
	case TestTypeSAT:
		return r.MinSat
	case TestTypeACT:
		return r.MinAct
	case TestTypeGRE:
		return r.MinGre
	case TestTypeGMAT:
		return r.MinGmat
	default:
		return nil
	}
}

// SetTestMinimum assigns the threshold for a test type. Unknown types are ignored.
func (r *ProgramRequirement) SetTestMinimum(testType TestType, minimum *float64) {
	switch testType {
	case TestTypeTOEFL:
		r.MinToefl = minimum
	case TestTypeIELTS:
		r.MinIelts = minimum
	case TestTypeDuolingo:
		r.MinDuolingo = minimum
	case TestTypePTE:
		r.MinPte = minimum
	case TestTypeSAT:
		r.MinSat = minimum
	case TestTypeACT:
		r.MinAct = minimum
	case TestTypeGRE:
		r.MinGre = minimum
	case TestTypeGMAT:
		r.MinGmat = minimum
	}
}

func encodeStringList[T ~string](values []T) datatypes.JSON {
	items := make([]string, 0, len(values))
	for _, value := range values {
		items = append(items, string(value))
	}
	data, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}

// decodeLooseStringList accepts a JSON array, a bare JSON string (comma separated
// values allowed) or null, and flattens it into trimmed non-empty strings.
func decodeLooseStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}

	var values []string
	switch v := decoded.(type) {
	case string:
		values = strings.Split(v, ",")
	case []interface{}:
		for _, item := range v {
			switch entry := item.(type) {
			case string:
				values = append(values, entry)
			case nil:
			default:
				values = append(values, fmt.Sprint(entry))
			}
		}
	default:
		return nil
	}

	result := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
