package dto

import "skillhub/internal/api/models"

type EnrollmentResponse struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	CourseTitle string `json:"course_title,omitempty"`
	EnrolledAt  string `json:"enrolled_at"`
}

func FromModelToEnrollmentResponse(enrollment *models.Enrollment) *EnrollmentResponse {
	resp := &EnrollmentResponse{
		ID:         enrollment.ID,
		CourseID:   enrollment.CourseID,
		EnrolledAt: enrollment.EnrolledAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if enrollment.Course != nil {
		resp.CourseTitle = enrollment.Course.Title
	}
	return resp
}
