package models

import "time"

type Course struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string    `json:"title" gorm:"not null"`
	Description  *string   `json:"description,omitempty"`
	Category     *string   `json:"category,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	InstructorID string    `json:"instructor_id" gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Instructor *User    `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	Lessons    []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`
}

func (Course) TableName() string {
	return "courses"
}
