package dto

import "skillhub/internal/api/models"

type CertificateResponse struct {
	ID                   int64   `json:"id"`
	StudentID            string  `json:"student_id"`
	CourseID             int64   `json:"course_id"`
	CourseTitle          string  `json:"course_title,omitempty"`
	CertificateNumber    string  `json:"certificate_number"`
	CertificateURL       string  `json:"certificate_url"`
	CompletionPercentage float64 `json:"completion_percentage"`
	IssuedAt             string  `json:"issued_at"`
}

type EligibilityResponse struct {
	CourseID             int64   `json:"course_id"`
	Eligible             bool    `json:"eligible"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

func FromModelToCertificateResponse(cert *models.Certificate) *CertificateResponse {
	resp := &CertificateResponse{
		ID:                   cert.ID,
		StudentID:            cert.StudentID,
		CourseID:             cert.CourseID,
		CertificateNumber:    cert.CertificateNumber,
		CertificateURL:       cert.CertificateURL,
		CompletionPercentage: cert.CompletionPercentage,
		IssuedAt:             cert.IssuedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if cert.Course != nil {
		resp.CourseTitle = cert.Course.Title
	}
	return resp
}
