package models

import "time"

type Enrollment struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	StudentID  string    `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_student_course"`
	CourseID   int64     `json:"course_id" gorm:"not null;uniqueIndex:idx_student_course"`
	EnrolledAt time.Time `json:"enrolled_at" gorm:"autoCreateTime"`

	// Associations
	Student *User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
