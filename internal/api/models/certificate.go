package models

import "time"

// Certificate is immutable once written. The composite unique index on
// (student_id, course_id) is the authoritative guard against double issuance;
// concurrent issue attempts rely on the database rejecting the second insert.
type Certificate struct {
	ID                   int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	StudentID            string    `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_student_course_cert"`
	CourseID             int64     `json:"course_id" gorm:"not null;uniqueIndex:idx_student_course_cert"`
	CertificateNumber    string    `json:"certificate_number" gorm:"uniqueIndex;not null"`
	CertificateURL       string    `json:"certificate_url" gorm:"not null"`
	CompletionPercentage float64   `json:"completion_percentage" gorm:"type:decimal(5,2)"`
	IssuedAt             time.Time `json:"issued_at"`

	// Associations
	Student *User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Certificate) TableName() string {
	return "certificates"
}
