package repository

import (
	"context"

	"skillhub/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByStudentAndCourse(ctx context.Context, studentID string, courseID int64) (*models.Enrollment, error)
	GetByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	GetCourseIDsByStudent(ctx context.Context, studentID string) ([]int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Create is duplicate-safe: re-enrolling is a no-op rather than an error.
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(enrollment).Error
}

func (r *enrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID string, courseID int64) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) GetByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	var list []models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("enrolled_at desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *enrollmentRepository) GetCourseIDsByStudent(ctx context.Context, studentID string) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Pluck("course_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
