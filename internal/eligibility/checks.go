package eligibility

import (
	"fmt"
	"strings"

	"github.com/noah-isme/edutrip-api/internal/models"
)

func (s *scorecard) checkEducation(applicant *Applicant, requirement *Requirement) {
	if len(requirement.AcceptedLevels) == 0 {
		if applicant.CurrentLevel != "" || applicant.HighestLevel != "" || hasGraduated(applicant.History) {
			s.record(CheckEducation, WeightEducation, WeightEducation, true)
			s.pass("Education background provided")
			return
		}
		s.record(CheckEducation, 0, WeightEducation, false)
		s.fail("Education background not provided")
		return
	}

	satisfied := models.EducationLevel("")
	for _, level := range []models.EducationLevel{applicant.CurrentLevel, applicant.HighestLevel} {
		if Meets(level, requirement.AcceptedLevels) {
			satisfied = level
			break
		}
	}
	if satisfied == "" {
		for _, entry := range applicant.History {
			if entry.Graduated && Meets(entry.Level, requirement.AcceptedLevels) {
				satisfied = entry.Level
				break
			}
		}
	}

	if satisfied != "" {
		s.record(CheckEducation, WeightEducation, WeightEducation, true)
		s.pass(fmt.Sprintf("Education level %s meets requirement", label(satisfied)))
		return
	}

	accepted := make([]string, 0, len(requirement.AcceptedLevels))
	for _, level := range requirement.AcceptedLevels {
		accepted = append(accepted, label(level))
	}
	s.record(CheckEducation, 0, WeightEducation, false)
	s.fail(fmt.Sprintf("Education level requirement not met (accepted: %s)", strings.Join(accepted, ", ")))
}

func (s *scorecard) checkGPA(applicant *Applicant, minimum float64) {
	gpa, ok := parseNumber(applicant.GPA)
	if !ok {
		if entry := latestGradedEntry(applicant.History); entry != nil {
			gpa, ok = parseNumber(entry.Grade)
		}
	}

	switch {
	case !ok:
		s.record(CheckGPA, 0, WeightGPA, false)
		s.fail(fmt.Sprintf("GPA not provided (minimum %s)", formatNumber(minimum)))
	case gpa >= minimum:
		s.record(CheckGPA, WeightGPA, WeightGPA, true)
		s.pass(fmt.Sprintf("GPA %s meets minimum %s", formatNumber(gpa), formatNumber(minimum)))
	default:
		s.record(CheckGPA, 0, WeightGPA, false)
		s.fail(fmt.Sprintf("GPA %s is below minimum %s", formatNumber(gpa), formatNumber(minimum)))
	}
}

func (s *scorecard) checkDocuments(applicant *Applicant, requirement *Requirement) {
	required := uniqueDocuments(requirement.RequiredDocuments)
	if len(required) == 0 {
		s.record(CheckDocuments, WeightDocuments, WeightDocuments, true)
		s.pass("No documents required")
		return
	}

	uploaded := make(map[models.DocumentType]struct{}, len(applicant.Documents))
	for _, doc := range applicant.Documents {
		uploaded[doc] = struct{}{}
	}

	absent := make([]models.DocumentType, 0)
	for _, doc := range required {
		if _, ok := uploaded[doc]; !ok {
			absent = append(absent, doc)
		}
	}
	present := len(required) - len(absent)

	if len(absent) == 0 {
		s.record(CheckDocuments, WeightDocuments, WeightDocuments, true)
		s.pass(fmt.Sprintf("All required documents uploaded (%d/%d)", present, len(required)))
		return
	}

	s.record(CheckDocuments, WeightDocuments*present/len(required), WeightDocuments, false)
	s.fail(fmt.Sprintf("Required documents incomplete (%d/%d uploaded)", present, len(required)))
	for _, doc := range absent {
		s.fail(fmt.Sprintf("Missing document: %s", label(doc)))
	}
}

func (s *scorecard) checkTestScores(applicant *Applicant, requirement *Requirement) {
	var passed, failed []string
	for _, testType := range models.TestTypes {
		minimum, ok := requirement.TestMinimums[testType]
		if !ok {
			continue
		}

		record := findTestScore(applicant.TestScores, testType)
		if record == nil {
			failed = append(failed, fmt.Sprintf("%s score required (minimum %s)", testType, formatNumber(minimum)))
			continue
		}

		score, parsed := parseNumber(record.OverallScore)
		switch {
		case !parsed:
			failed = append(failed, fmt.Sprintf("%s score %q is not a number (minimum %s)", testType, record.OverallScore, formatNumber(minimum)))
		case score >= minimum:
			passed = append(passed, fmt.Sprintf("%s score %s meets minimum %s", testType, formatNumber(score), formatNumber(minimum)))
		default:
			failed = append(failed, fmt.Sprintf("%s score %s is below minimum %s", testType, formatNumber(score), formatNumber(minimum)))
		}
	}

	switch {
	case len(passed) == 0 && len(failed) == 0:
		s.record(CheckTestScores, WeightTestScores, WeightTestScores, true)
		s.pass("No test scores required")
	case len(failed) == 0:
		s.record(CheckTestScores, WeightTestScores, WeightTestScores, true)
		for _, line := range passed {
			s.pass(line)
		}
	case len(passed) > 0:
		s.record(CheckTestScores, PartialTestScorePoints, WeightTestScores, false)
		for _, line := range passed {
			s.pass(line)
		}
		for _, line := range failed {
			s.fail(line)
		}
	default:
		s.record(CheckTestScores, 0, WeightTestScores, false)
		if len(applicant.TestScores) == 0 {
			s.fail("No test scores uploaded")
			return
		}
		for _, line := range failed {
			s.fail(line)
		}
	}
}

func (s *scorecard) checkWorkExperience(applicant *Applicant, requirement *Requirement) {
	for _, doc := range applicant.Documents {
		if doc == models.DocumentTypeWorkExperienceLetter {
			s.record(CheckWorkExperience, WeightWorkExperience, WeightWorkExperience, true)
			s.pass("Work experience letter provided")
			return
		}
	}

	s.record(CheckWorkExperience, 0, WeightWorkExperience, false)
	if requirement.MinWorkExperienceYears != nil && *requirement.MinWorkExperienceYears > 0 {
		s.fail(fmt.Sprintf("Work experience letter required (minimum %d years)", *requirement.MinWorkExperienceYears))
		return
	}
	s.fail("Work experience letter required")
}

func hasGraduated(history []HistoryEntry) bool {
	for _, entry := range history {
		if entry.Graduated {
			return true
		}
	}
	return false
}

// latestGradedEntry picks the graduated entry with a grade and the latest end
// date. Entries without an end date rank oldest; ties keep input order.
func latestGradedEntry(history []HistoryEntry) *HistoryEntry {
	var latest *HistoryEntry
	for i := range history {
		entry := &history[i]
		if !entry.Graduated || strings.TrimSpace(entry.Grade) == "" {
			continue
		}
		if latest == nil || endsAfter(entry, latest) {
			latest = entry
		}
	}
	return latest
}

func endsAfter(a, b *HistoryEntry) bool {
	if a.EndDate == nil {
		return false
	}
	if b.EndDate == nil {
		return true
	}
	return a.EndDate.After(*b.EndDate)
}

func uniqueDocuments(docs []models.DocumentType) []models.DocumentType {
	seen := make(map[models.DocumentType]struct{}, len(docs))
	result := make([]models.DocumentType, 0, len(docs))
	for _, doc := range docs {
		if _, ok := seen[doc]; ok {
			continue
		}
		seen[doc] = struct{}{}
		result = append(result, doc)
	}
	return result
}

func findTestScore(scores []TestScore, testType models.TestType) *TestScore {
	for i := range scores {
		if scores[i].Type == testType {
			return &scores[i]
		}
	}
	return nil
}
