package repository

import (
	"context"

	"skillhub/internal/api/models"

	"gorm.io/gorm"
)

// LessonRepository is the lesson catalog: ordered lesson metadata per course.
type LessonRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	GetByCourseID(ctx context.Context, courseID int64) ([]models.Lesson, error)
	GetByCourseAndOrder(ctx context.Context, courseID int64, order int) (*models.Lesson, error)
}

type lessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) GetByCourseID(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	var list []models.Lesson
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("lesson_order asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *lessonRepository) GetByCourseAndOrder(ctx context.Context, courseID int64, order int) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND lesson_order = ?", courseID, order).
		First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}
