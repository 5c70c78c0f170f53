package repository

import (
	"context"

	"skillhub/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	GetByStudentAndLesson(ctx context.Context, studentID string, lessonID int64) (*models.VideoProgress, error)
	GetByStudent(ctx context.Context, studentID string) ([]models.VideoProgress, error)
	GetByStudentAndCourse(ctx context.Context, studentID string, courseID int64) ([]models.VideoProgress, error)
	Save(ctx context.Context, progress *models.VideoProgress) error
	AverageCompletionForCourse(ctx context.Context, studentID string, courseID int64) (float64, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetByStudentAndLesson(ctx context.Context, studentID string, lessonID int64) (*models.VideoProgress, error) {
	var progress models.VideoProgress
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) GetByStudent(ctx context.Context, studentID string) ([]models.VideoProgress, error) {
	var list []models.VideoProgress
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *progressRepository) GetByStudentAndCourse(ctx context.Context, studentID string, courseID int64) ([]models.VideoProgress, error) {
	var list []models.VideoProgress
	if err := r.db.WithContext(ctx).
		Joins("JOIN lessons ON lessons.id = video_progress.lesson_id").
		Where("video_progress.student_id = ? AND lessons.course_id = ?", studentID, courseID).
		Order("lessons.lesson_order asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save upserts the row keyed on (student_id, lesson_id) and merges in SQL, so
// overlapping reports from stale snapshots cannot regress watched_duration or
// clear is_completed, and concurrent first reports converge instead of
// tripping the unique index.
func (r *progressRepository) Save(ctx context.Context, progress *models.VideoProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"watched_duration":      gorm.Expr("GREATEST(video_progress.watched_duration, excluded.watched_duration)"),
				"total_duration":        gorm.Expr("CASE WHEN video_progress.total_duration > 0 THEN video_progress.total_duration ELSE excluded.total_duration END"),
				"completion_percentage": gorm.Expr("GREATEST(video_progress.completion_percentage, excluded.completion_percentage)"),
				"is_completed":          gorm.Expr("video_progress.is_completed OR excluded.is_completed"),
				"last_watched_at":       gorm.Expr("GREATEST(video_progress.last_watched_at, excluded.last_watched_at)"),
			}),
		}).
		Omit("id").
		Create(progress).Error
}

// AverageCompletionForCourse computes the course completion percentage as the
// arithmetic mean over the student's progress rows for that course's lessons.
// No rows means 0. Every lesson weighs the same regardless of duration.
func (r *progressRepository) AverageCompletionForCourse(ctx context.Context, studentID string, courseID int64) (float64, error) {
	var result struct {
		Average float64
	}

	err := r.db.WithContext(ctx).
		Model(&models.VideoProgress{}).
		Select("COALESCE(AVG(completion_percentage), 0) as average").
		Joins("JOIN lessons ON lessons.id = video_progress.lesson_id").
		Where("video_progress.student_id = ? AND lessons.course_id = ?", studentID, courseID).
		Scan(&result).Error

	if err != nil {
		return 0, err
	}

	return result.Average, nil
}
