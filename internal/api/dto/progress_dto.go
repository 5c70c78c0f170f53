package dto

import "skillhub/internal/api/models"

// DTOs for progress-related operations in HTTP API

type UpdateProgressRequest struct {
	WatchedDuration int `json:"watched_duration" binding:"min=0"`
}

type ProgressResponse struct {
	StudentID            string  `json:"student_id"`
	LessonID             int64   `json:"lesson_id"`
	WatchedDuration      int     `json:"watched_duration"`
	TotalDuration        int     `json:"total_duration"`
	CompletionPercentage float64 `json:"completion_percentage"`
	IsCompleted          bool    `json:"is_completed"`
	LastWatchedAt        string  `json:"last_watched_at"`
}

type CourseCompletionResponse struct {
	CourseID             int64   `json:"course_id"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type LessonAccessResponse struct {
	LessonID   int64 `json:"lesson_id"`
	Accessible bool  `json:"accessible"`
}

func FromModelToProgressResponse(progress *models.VideoProgress) *ProgressResponse {
	return &ProgressResponse{
		StudentID:            progress.StudentID,
		LessonID:             progress.LessonID,
		WatchedDuration:      progress.WatchedDuration,
		TotalDuration:        progress.TotalDuration,
		CompletionPercentage: progress.CompletionPercentage,
		IsCompleted:          progress.IsCompleted,
		LastWatchedAt:        progress.LastWatchedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
