package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProgramEligibility is the cached eligibility outcome for a (user, program) pair.
type ProgramEligibility struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	UserID              string                      `gorm:"size:128;not null;uniqueIndex:idx_eligibility_user_program" json:"user_id"`
	ProgramID           uint                        `gorm:"not null;uniqueIndex:idx_eligibility_user_program" json:"program_id"`
	Score               int                         `gorm:"not null;default:0" json:"score"`
	IsEligible          bool                        `gorm:"not null;default:false" json:"is_eligible"`
	MetRequirements     datatypes.JSONSlice[string] `gorm:"type:json" json:"met_requirements"`
	MissingRequirements datatypes.JSONSlice[string] `gorm:"type:json" json:"missing_requirements"`
	Recommendation      string                      `gorm:"type:text" json:"recommendation"`
	LastCalculatedAt    time.Time                   `gorm:"not null" json:"last_calculated_at"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
	Program             Program                     `gorm:"foreignKey:ProgramID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"program"`
}

// TableName pins the cache table name.
func (ProgramEligibility) TableName() string {
	return "program_eligibility"
}
