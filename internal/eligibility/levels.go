package eligibility

import "github.com/noah-isme/edutrip-api/internal/models"

// levelRank orders education levels. Levels sharing a rank satisfy each other.
var levelRank = map[models.EducationLevel]int{
	models.EducationLevelHighSchool:          1,
	models.EducationLevelCertificate:         2,
	models.EducationLevelFoundation:          2,
	models.EducationLevelDiploma:             3,
	models.EducationLevelProfessional:        3,
	models.EducationLevelUndergraduate:       4,
	models.EducationLevelPostgraduateDiploma: 5,
	models.EducationLevelMasters:             6,
	models.EducationLevelDoctorate:           7,
}

// Rank returns the position of a level in the hierarchy, or 0 when unknown.
func Rank(level models.EducationLevel) int {
	return levelRank[level]
}

// Meets reports whether level ranks at or above any of the accepted levels.
func Meets(level models.EducationLevel, accepted []models.EducationLevel) bool {
	rank := Rank(level)
	if rank == 0 {
		return false
	}
	for _, candidate := range accepted {
		required := Rank(candidate)
		if required > 0 && rank >= required {
			return true
		}
	}
	return false
}
