package models

import "time"

type Lesson struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	CourseID int64  `json:"course_id" gorm:"not null;uniqueIndex:idx_course_order"`
	Title    string `json:"title" gorm:"not null"`
	// 1-based position within the course; gates sequential access.
	LessonOrder int `json:"lesson_order" gorm:"not null;uniqueIndex:idx_course_order"`
	// Nominal video length in seconds. Zero when the upload pipeline has not
	// probed the file yet; progress falls back to the reported duration.
	VideoDuration int       `json:"video_duration" gorm:"default:0"`
	VideoURL      *string   `json:"video_url,omitempty"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Lesson) TableName() string {
	return "lessons"
}
