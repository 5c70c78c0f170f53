package models

import "time"

// VideoProgress is the persisted watch state for one student on one lesson.
// WatchedDuration only ever grows and IsCompleted is never reset once set.
type VideoProgress struct {
	ID              int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	StudentID       string `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_student_lesson"`
	LessonID        int64  `json:"lesson_id" gorm:"not null;uniqueIndex:idx_student_lesson"`
	WatchedDuration int    `json:"watched_duration" gorm:"default:0"`
	TotalDuration   int    `json:"total_duration" gorm:"default:0"`
	// Derived, stored with 2 decimal places; always within [0, 100].
	CompletionPercentage float64   `json:"completion_percentage" gorm:"type:decimal(5,2);default:0"`
	IsCompleted          bool      `json:"is_completed" gorm:"default:false"`
	LastWatchedAt        time.Time `json:"last_watched_at"`

	// Associations
	Student *User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Lesson  *Lesson `json:"lesson,omitempty" gorm:"foreignKey:LessonID"`
}

func (VideoProgress) TableName() string {
	return "video_progress"
}
