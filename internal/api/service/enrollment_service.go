package service

import (
	"context"
	"errors"

	"skillhub/internal/api/models"
	"skillhub/internal/api/repository"

	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID string, courseID int64) (*models.Enrollment, error)
	StudentCourses(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
}

func NewEnrollmentService(enrollmentRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
	}
}

// Enroll registers the student on a course. Enrolling twice returns the
// existing enrollment.
func (s *enrollmentService) Enroll(ctx context.Context, studentID string, courseID int64) (*models.Enrollment, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	// The insert is a no-op on re-enrollment; read back the stored row either way.
	return s.enrollmentRepo.GetByStudentAndCourse(ctx, studentID, courseID)
}

func (s *enrollmentService) StudentCourses(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return s.enrollmentRepo.GetByStudent(ctx, studentID)
}
