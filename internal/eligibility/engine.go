package eligibility

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Recommendation messages per score band.
const (
	RecommendationEligible    = "Congratulations! You meet the requirements for this program. You can proceed with your application."
	RecommendationPartial     = "You partially meet the requirements for this program. Complete the missing documents to improve your eligibility."
	RecommendationIneligible  = "You do not currently meet the requirements for this program. Complete your profile and upload the required documents."
	RecommendationUnavailable = "Complete your academic profile to check your eligibility for this program."
)

var (
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	titleCaser    = cases.Title(language.English)
)

// Evaluate scores applicant against requirement. A nil argument yields the
// unavailable result without running any check.
func Evaluate(applicant *Applicant, requirement *Requirement) Result {
	if applicant == nil || requirement == nil {
		return Unavailable()
	}

	card := &scorecard{}
	card.checkEducation(applicant, requirement)
	if requirement.MinimumGPA != nil {
		card.checkGPA(applicant, *requirement.MinimumGPA)
	}
	card.checkDocuments(applicant, requirement)
	card.checkTestScores(applicant, requirement)
	if requirement.WorkExperienceRequired {
		card.checkWorkExperience(applicant, requirement)
	}

	return card.result()
}

// Unavailable is the result reported when the profile or requirement record is missing.
func Unavailable() Result {
	return Result{
		Score:               0,
		IsEligible:          false,
		MetRequirements:     []string{},
		MissingRequirements: []string{UnavailableMessage},
		Recommendation:      RecommendationUnavailable,
		Breakdown:           []CheckOutcome{},
	}
}

// Recommend maps a score onto its recommendation band.
func Recommend(score int) string {
	switch {
	case score >= EligibleThreshold:
		return RecommendationEligible
	case score >= PartialMatchThreshold:
		return RecommendationPartial
	default:
		return RecommendationIneligible
	}
}

type scorecard struct {
	total     int
	max       int
	met       []string
	missing   []string
	breakdown []CheckOutcome
}

func (s *scorecard) record(check Check, points, max int, met bool) {
	s.total += points
	s.max += max
	s.breakdown = append(s.breakdown, CheckOutcome{Check: check, Points: points, MaxPoints: max, Met: met})
}

func (s *scorecard) pass(line string) {
	s.met = append(s.met, MetMarker+" "+line)
}

func (s *scorecard) fail(line string) {
	s.missing = append(s.missing, MissingMarker+" "+line)
}

func (s *scorecard) result() Result {
	score := 0
	if s.max > 0 {
		score = int(math.Round(100 * float64(s.total) / float64(s.max)))
	}

	met := s.met
	if met == nil {
		met = []string{}
	}
	missing := s.missing
	if missing == nil {
		missing = []string{}
	}

	return Result{
		Score:               score,
		IsEligible:          score >= EligibleThreshold,
		MetRequirements:     met,
		MissingRequirements: missing,
		Recommendation:      Recommend(score),
		TotalPoints:         s.total,
		MaxPoints:           s.max,
		Breakdown:           s.breakdown,
	}
}

// parseNumber reads the leading decimal number of raw, ignoring trailing text
// such as "/4.0" or "%".
func parseNumber(raw string) (float64, bool) {
	match := leadingNumber.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func label[T ~string](value T) string {
	if len(value) <= 4 && !strings.Contains(string(value), "_") {
		return string(value)
	}
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(string(value), "_", " ")))
}
