package dto

import (
	"time"

	"github.com/noah-isme/edutrip-api/internal/models"
)

// AcademicProfileUpdateRequest updates the summary fields of a profile.
type AcademicProfileUpdateRequest struct {
	CurrentEducationLevel *string `json:"current_education_level" validate:"omitempty,oneof=HIGH_SCHOOL CERTIFICATE FOUNDATION DIPLOMA PROFESSIONAL UNDERGRADUATE POSTGRADUATE_DIPLOMA MASTERS DOCTORATE"`
	HighestEducationLevel *string `json:"highest_education_level" validate:"omitempty,oneof=HIGH_SCHOOL CERTIFICATE FOUNDATION DIPLOMA PROFESSIONAL UNDERGRADUATE POSTGRADUATE_DIPLOMA MASTERS DOCTORATE"`
	GPA                   *string `json:"gpa" validate:"omitempty,max=32"`
	FieldOfStudy          *string `json:"field_of_study" validate:"omitempty,max=255"`
}

// EducationHistoryRequest adds a schooling entry.
type EducationHistoryRequest struct {
	InstitutionName string  `json:"institution_name" validate:"required,max=255"`
	Country         string  `json:"country" validate:"omitempty,max=128"`
	EducationLevel  string  `json:"education_level" validate:"required,oneof=HIGH_SCHOOL CERTIFICATE FOUNDATION DIPLOMA PROFESSIONAL UNDERGRADUATE POSTGRADUATE_DIPLOMA MASTERS DOCTORATE"`
	FieldOfStudy    string  `json:"field_of_study" validate:"omitempty,max=255"`
	StartDate       string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Graduated       bool    `json:"graduated"`
	Grade           string  `json:"grade" validate:"omitempty,max=32"`
	GradingSystem   *string `json:"grading_system" validate:"omitempty,oneof=GPA_4 GPA_5 PERCENTAGE LETTER DIVISION CLASS_HONORS"`
}

// DocumentRecordRequest registers an uploaded credential.
type DocumentRecordRequest struct {
	DocumentType string `json:"document_type" validate:"required,oneof=PASSPORT_COPY ACADEMIC_TRANSCRIPT DEGREE_CERTIFICATE HIGH_SCHOOL_CERTIFICATE LANGUAGE_TEST_RESULT RECOMMENDATION_LETTER STATEMENT_OF_PURPOSE CV WORK_EXPERIENCE_LETTER FINANCIAL_STATEMENT SPONSORSHIP_LETTER BIRTH_CERTIFICATE MEDICAL_CERTIFICATE POLICE_CLEARANCE OTHER"`
	FileURL      string `json:"file_url" validate:"omitempty,url,max=512"`
	Institution  string `json:"institution" validate:"omitempty,max=255"`
	Course       string `json:"course" validate:"omitempty,max=255"`
	StartDate    string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	FundingType  string `json:"funding_type" validate:"omitempty,max=64"`
}

// TestScoreRequest records the current result of a test.
type TestScoreRequest struct {
	TestType     string `json:"test_type" validate:"required,oneof=TOEFL IELTS DUOLINGO PTE SAT ACT GRE GMAT"`
	OverallScore string `json:"overall_score" validate:"required,max=32"`
	TestDate     string `json:"test_date" validate:"omitempty,datetime=2006-01-02"`
}

// EducationHistoryResponse serializes a schooling entry.
type EducationHistoryResponse struct {
	ID              uint                  `json:"id"`
	InstitutionName string                `json:"institution_name"`
	Country         string                `json:"country"`
	EducationLevel  models.EducationLevel `json:"education_level"`
	FieldOfStudy    string                `json:"field_of_study"`
	StartDate       *time.Time            `json:"start_date"`
	EndDate         *time.Time            `json:"end_date"`
	Graduated       bool                  `json:"graduated"`
	Grade           string                `json:"grade"`
	GradingSystem   *models.GradingSystem `json:"grading_system"`
}

// DocumentResponse serializes an uploaded credential.
type DocumentResponse struct {
	ID           uint                `json:"id"`
	DocumentType models.DocumentType `json:"document_type"`
	FileURL      string              `json:"file_url"`
	Verified     bool                `json:"verified"`
	Institution  string              `json:"institution"`
	Course       string              `json:"course"`
	StartDate    *time.Time          `json:"start_date"`
	EndDate      *time.Time          `json:"end_date"`
	FundingType  string              `json:"funding_type"`
	CreatedAt    time.Time           `json:"created_at"`
}

// TestScoreResponse serializes a test result.
type TestScoreResponse struct {
	ID           uint            `json:"id"`
	TestType     models.TestType `json:"test_type"`
	OverallScore string          `json:"overall_score"`
	TestDate     *time.Time      `json:"test_date"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AcademicProfileResponse serializes a full academic profile.
type AcademicProfileResponse struct {
	UserID                string                     `json:"user_id"`
	CurrentEducationLevel models.EducationLevel      `json:"current_education_level"`
	HighestEducationLevel models.EducationLevel      `json:"highest_education_level"`
	GPA                   string                     `json:"gpa"`
	FieldOfStudy          string                     `json:"field_of_study"`
	EducationHistory      []EducationHistoryResponse `json:"education_history"`
	Documents             []DocumentResponse         `json:"documents"`
	TestScores            []TestScoreResponse        `json:"test_scores"`
	UpdatedAt             time.Time                  `json:"updated_at"`
}

// NewEducationHistoryResponse converts a history entry.
func NewEducationHistoryResponse(entry models.EducationHistoryEntry) EducationHistoryResponse {
	return EducationHistoryResponse{
		ID:              entry.ID,
		InstitutionName: entry.InstitutionName,
		Country:         entry.Country,
		EducationLevel:  entry.EducationLevel,
		FieldOfStudy:    entry.FieldOfStudy,
		StartDate:       entry.StartDate,
		EndDate:         entry.EndDate,
		Graduated:       entry.Graduated,
		Grade:           entry.Grade,
		GradingSystem:   entry.GradingSystem,
	}
}

// NewDocumentResponse converts an uploaded document.
func NewDocumentResponse(doc models.UploadedDocument) DocumentResponse {
	return DocumentResponse{
		ID:           doc.ID,
		DocumentType: doc.DocumentType,
		FileURL:      doc.FileURL,
		Verified:     doc.Verified,
		Institution:  doc.Institution,
		Course:       doc.Course,
		StartDate:    doc.StartDate,
		EndDate:      doc.EndDate,
		FundingType:  doc.FundingType,
		CreatedAt:    doc.CreatedAt,
	}
}

// NewTestScoreResponse converts a test score record.
func NewTestScoreResponse(record models.TestScoreRecord) TestScoreResponse {
	return TestScoreResponse{
		ID:           record.ID,
		TestType:     record.TestType,
		OverallScore: record.OverallScore,
		TestDate:     record.TestDate,
		UpdatedAt:    record.UpdatedAt,
	}
}

// NewAcademicProfileResponse converts a profile with its nested records.
func NewAcademicProfileResponse(profile models.AcademicProfile) AcademicProfileResponse {
	history := make([]EducationHistoryResponse, 0, len(profile.EducationHistory))
	for _, entry := range profile.EducationHistory {
		history = append(history, NewEducationHistoryResponse(entry))
	}
	documents := make([]DocumentResponse, 0, len(profile.Documents))
	for _, doc := range profile.Documents {
		documents = append(documents, NewDocumentResponse(doc))
	}
	scores := make([]TestScoreResponse, 0, len(profile.TestScores))
	for _, record := range profile.TestScores {
		scores = append(scores, NewTestScoreResponse(record))
	}

	return AcademicProfileResponse{
		UserID:                profile.UserID,
		CurrentEducationLevel: profile.CurrentEducationLevel,
		HighestEducationLevel: profile.HighestEducationLevel,
		GPA:                   profile.GPA,
		FieldOfStudy:          profile.FieldOfStudy,
		EducationHistory:      history,
		Documents:             documents,
		TestScores:            scores,
		UpdatedAt:             profile.UpdatedAt,
	}
}
