package models

import "time"

// DocumentType is the closed set of credential categories a user can upload.
type DocumentType string

// Recognised document types.
const (
	DocumentTypePassportCopy          DocumentType = "PASSPORT_COPY"
	DocumentTypeAcademicTranscript    DocumentType = "ACADEMIC_TRANSCRIPT"
	DocumentTypeDegreeCertificate     DocumentType = "DEGREE_CERTIFICATE"
	DocumentTypeHighSchoolCertificate DocumentType = "HIGH_SCHOOL_CERTIFICATE"
	DocumentTypeLanguageTestResult    DocumentType = "LANGUAGE_TEST_RESULT"
	DocumentTypeRecommendationLetter  DocumentType = "RECOMMENDATION_LETTER"
	DocumentTypeStatementOfPurpose    DocumentType = "STATEMENT_OF_PURPOSE"
	DocumentTypeCV                    DocumentType = "CV"
	DocumentTypeWorkExperienceLetter  DocumentType = "WORK_EXPERIENCE_LETTER"
	DocumentTypeFinancialStatement    DocumentType = "FINANCIAL_STATEMENT"
	DocumentTypeSponsorshipLetter     DocumentType = "SPONSORSHIP_LETTER"
	DocumentTypeBirthCertificate      DocumentType = "BIRTH_CERTIFICATE"
	DocumentTypeMedicalCertificate    DocumentType = "MEDICAL_CERTIFICATE"
	DocumentTypePoliceClearance       DocumentType = "POLICE_CLEARANCE"
	DocumentTypeOther                 DocumentType = "OTHER"
)

// DocumentTypes lists every recognised document type.
var DocumentTypes = []DocumentType{
	DocumentTypePassportCopy,
	DocumentTypeAcademicTranscript,
	DocumentTypeDegreeCertificate,
	DocumentTypeHighSchoolCertificate,
	DocumentTypeLanguageTestResult,
	DocumentTypeRecommendationLetter,
	DocumentTypeStatementOfPurpose,
	DocumentTypeCV,
	DocumentTypeWorkExperienceLetter,
	DocumentTypeFinancialStatement,
	DocumentTypeSponsorshipLetter,
	DocumentTypeBirthCertificate,
	DocumentTypeMedicalCertificate,
	DocumentTypePoliceClearance,
	DocumentTypeOther,
}

// ParseDocumentType normalises raw input into a known document type.
func ParseDocumentType(raw string) (DocumentType, bool) {
	candidate := DocumentType(normalizeEnum(raw))
	for _, docType := range DocumentTypes {
		if docType == candidate {
			return docType, true
		}
	}
	return "", false
}

// UploadedDocument records a credential submitted by a user. The file itself lives in external storage.
type UploadedDocument struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       string       `gorm:"size:128;index;not null" json:"user_id"`
	DocumentType DocumentType `gorm:"size:64;index;not null" json:"document_type"`
	FileURL      string       `gorm:"size:512" json:"file_url"`
	Verified     bool         `gorm:"not null;default:false" json:"verified"`
	Institution  string       `gorm:"size:255" json:"institution"`
	Course       string       `gorm:"size:255" json:"course"`
	StartDate    *time.Time   `json:"start_date"`
	EndDate      *time.Time   `json:"end_date"`
	FundingType  string       `gorm:"size:64" json:"funding_type"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
