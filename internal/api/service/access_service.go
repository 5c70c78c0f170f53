package service

import (
	"context"
	"errors"

	"skillhub/internal/api/models"
	"skillhub/internal/api/repository"

	"gorm.io/gorm"
)

// AccessService enforces sequential unlocking: a lesson opens only once the
// lesson before it is completed.
type AccessService interface {
	IsLessonAccessible(ctx context.Context, studentID string, lessonID int64) (bool, error)
	NextAccessibleLesson(ctx context.Context, studentID string, courseID int64) (*models.Lesson, error)
}

type accessService struct {
	lessonRepo   repository.LessonRepository
	progressRepo repository.ProgressRepository
}

func NewAccessService(lessonRepo repository.LessonRepository, progressRepo repository.ProgressRepository) AccessService {
	return &accessService{
		lessonRepo:   lessonRepo,
		progressRepo: progressRepo,
	}
}

func (s *accessService) IsLessonAccessible(ctx context.Context, studentID string, lessonID int64) (bool, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrLessonNotFound
		}
		return false, err
	}

	// The first lesson has no prerequisite.
	if lesson.LessonOrder == 1 {
		return true, nil
	}

	// A numbering gap means there is no previous lesson to complete; fail closed.
	previous, err := s.lessonRepo.GetByCourseAndOrder(ctx, lesson.CourseID, lesson.LessonOrder-1)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	progress, err := s.progressRepo.GetByStudentAndLesson(ctx, studentID, previous.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return progress.IsCompleted, nil
}

// NextAccessibleLesson returns the first lesson, in course order, that the
// student can open but has not completed. Nil means the course is either
// finished or locked at the current position.
func (s *accessService) NextAccessibleLesson(ctx context.Context, studentID string, courseID int64) (*models.Lesson, error) {
	lessons, err := s.lessonRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, nil
	}

	records, err := s.progressRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	completed := make(map[int64]bool, len(records))
	for _, record := range records {
		completed[record.LessonID] = record.IsCompleted
	}

	byOrder := make(map[int]*models.Lesson, len(lessons))
	for i := range lessons {
		byOrder[lessons[i].LessonOrder] = &lessons[i]
	}

	for i := range lessons {
		lesson := &lessons[i]

		accessible := lesson.LessonOrder == 1
		if !accessible {
			previous, ok := byOrder[lesson.LessonOrder-1]
			accessible = ok && completed[previous.ID]
		}

		if accessible && !completed[lesson.ID] {
			return lesson, nil
		}
	}

	return nil, nil
}
