package service

import (
	"context"
	"testing"

	"skillhub/internal/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestEnroll_Success(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)
	courseRepo := new(MockCourseRepository)
	svc := NewEnrollmentService(enrollmentRepo, courseRepo)

	stored := &models.Enrollment{ID: 1, StudentID: "student-1", CourseID: 1}
	courseRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Course{ID: 1}, nil)
	enrollmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Enrollment")).Return(nil)
	enrollmentRepo.On("GetByStudentAndCourse", mock.Anything, "student-1", int64(1)).Return(stored, nil)

	enrollment, err := svc.Enroll(context.Background(), "student-1", 1)

	assert.NoError(t, err)
	assert.Equal(t, stored, enrollment)
	enrollmentRepo.AssertExpectations(t)
}

func TestEnroll_CourseNotFound(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)
	courseRepo := new(MockCourseRepository)
	svc := NewEnrollmentService(enrollmentRepo, courseRepo)

	courseRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	enrollment, err := svc.Enroll(context.Background(), "student-1", 99)

	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.Nil(t, enrollment)
	enrollmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Re-enrolling is duplicate-safe: the insert no-ops and the stored row is
// returned.
func TestEnroll_AlreadyEnrolled(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)
	courseRepo := new(MockCourseRepository)
	svc := NewEnrollmentService(enrollmentRepo, courseRepo)

	stored := &models.Enrollment{ID: 1, StudentID: "student-1", CourseID: 1}
	courseRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Course{ID: 1}, nil)
	enrollmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Enrollment")).Return(nil)
	enrollmentRepo.On("GetByStudentAndCourse", mock.Anything, "student-1", int64(1)).Return(stored, nil)

	first, err := svc.Enroll(context.Background(), "student-1", 1)
	assert.NoError(t, err)
	second, err := svc.Enroll(context.Background(), "student-1", 1)
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestStudentCourses(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)
	svc := NewEnrollmentService(enrollmentRepo, new(MockCourseRepository))

	enrollments := []models.Enrollment{
		{ID: 1, StudentID: "student-1", CourseID: 1},
		{ID: 2, StudentID: "student-1", CourseID: 2},
	}
	enrollmentRepo.On("GetByStudent", mock.Anything, "student-1").Return(enrollments, nil)

	list, err := svc.StudentCourses(context.Background(), "student-1")

	assert.NoError(t, err)
	assert.Len(t, list, 2)
}
