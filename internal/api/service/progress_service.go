package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"skillhub/internal/api/cache"
	"skillhub/internal/api/models"
	"skillhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrLessonNotFound         = errors.New("lesson not found")
	ErrProgressNotFound       = errors.New("progress not found")
	ErrInvalidWatchedDuration = errors.New("watched duration must not be negative")
)

// Completion policy. Short clips need a much higher watched share so a single
// seek through a 10-second video does not count as finishing it.
const (
	shortContentCutoffSeconds = 20
	longContentThresholdPct   = 50.0
	shortContentThresholdPct  = 90.0

	// Used by MarkCompleted when the catalog has no duration for the lesson.
	defaultLessonDurationSeconds = 600
)

type ProgressService interface {
	UpdateProgress(ctx context.Context, studentID string, lessonID int64, watchedSeconds int) (*models.VideoProgress, error)
	GetProgress(ctx context.Context, studentID string, lessonID int64) (*models.VideoProgress, error)
	MarkCompleted(ctx context.Context, studentID string, lessonID int64) (*models.VideoProgress, error)
	CourseCompletion(ctx context.Context, studentID string, courseID int64) (float64, error)
	StudentProgress(ctx context.Context, studentID string) ([]models.VideoProgress, error)
	CourseProgressRecords(ctx context.Context, studentID string, courseID int64) ([]models.VideoProgress, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	lessonRepo   repository.LessonRepository
	completions  cache.CompletionCache
	issueQueue   CertificateIssueQueue
	logger       *slog.Logger
}

func NewProgressService(
	progressRepo repository.ProgressRepository,
	lessonRepo repository.LessonRepository,
	completions cache.CompletionCache,
	issueQueue CertificateIssueQueue,
	logger *slog.Logger,
) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		lessonRepo:   lessonRepo,
		completions:  completions,
		issueQueue:   issueQueue,
		logger:       logger,
	}
}

// UpdateProgress merges a reported watched duration into the stored record.
// The merge is max-wins: a stale update delivered late can never move
// WatchedDuration backwards, so concurrent reports converge regardless of
// arrival order.
func (s *progressService) UpdateProgress(ctx context.Context, studentID string, lessonID int64, watchedSeconds int) (*models.VideoProgress, error) {
	if watchedSeconds < 0 {
		return nil, ErrInvalidWatchedDuration
	}

	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	progress, err := s.progressRepo.GetByStudentAndLesson(ctx, studentID, lessonID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		total := lesson.VideoDuration
		if total == 0 {
			// Catalog has no duration yet, treat the report as the full length.
			total = watchedSeconds
		}
		progress = &models.VideoProgress{
			StudentID:       studentID,
			LessonID:        lessonID,
			WatchedDuration: watchedSeconds,
			TotalDuration:   total,
		}
	} else {
		if watchedSeconds > progress.WatchedDuration {
			progress.WatchedDuration = watchedSeconds
		}
		if progress.TotalDuration == 0 {
			if lesson.VideoDuration > 0 {
				progress.TotalDuration = lesson.VideoDuration
			} else {
				progress.TotalDuration = progress.WatchedDuration
			}
		}
	}

	wasCompleted := progress.IsCompleted

	// Full float64 precision for the policy check; rounding happens only for
	// storage so 49.996% cannot masquerade as 50%.
	pct := completionPercentage(progress.WatchedDuration, progress.TotalDuration)
	progress.CompletionPercentage = round2(pct)

	if !progress.IsCompleted {
		if progress.TotalDuration >= shortContentCutoffSeconds {
			progress.IsCompleted = pct >= longContentThresholdPct
		} else {
			progress.IsCompleted = pct >= shortContentThresholdPct
		}
	}
	progress.LastWatchedAt = time.Now()

	if err := s.progressRepo.Save(ctx, progress); err != nil {
		return nil, err
	}

	s.completions.Invalidate(ctx, studentID, lesson.CourseID)

	if !wasCompleted && progress.IsCompleted {
		s.logger.Info("lesson completed",
			"student_id", studentID,
			"lesson_id", lessonID,
			"course_id", lesson.CourseID,
		)
		// Fire-and-forget: the certificate re-check runs on the worker pool
		// and never affects this caller's result or latency.
		s.issueQueue.Enqueue(studentID)
	}

	return progress, nil
}

func (s *progressService) GetProgress(ctx context.Context, studentID string, lessonID int64) (*models.VideoProgress, error) {
	progress, err := s.progressRepo.GetByStudentAndLesson(ctx, studentID, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return progress, nil
}

// MarkCompleted is the administrative override: it forces the completed state
// without running the threshold policy.
func (s *progressService) MarkCompleted(ctx context.Context, studentID string, lessonID int64) (*models.VideoProgress, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	progress, err := s.progressRepo.GetByStudentAndLesson(ctx, studentID, lessonID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		total := lesson.VideoDuration
		if total == 0 {
			total = defaultLessonDurationSeconds
		}
		progress = &models.VideoProgress{
			StudentID:       studentID,
			LessonID:        lessonID,
			WatchedDuration: total,
			TotalDuration:   total,
		}
	}

	wasCompleted := progress.IsCompleted
	progress.IsCompleted = true
	progress.CompletionPercentage = 100
	progress.LastWatchedAt = time.Now()

	if err := s.progressRepo.Save(ctx, progress); err != nil {
		return nil, err
	}

	s.completions.Invalidate(ctx, studentID, lesson.CourseID)

	if !wasCompleted {
		s.issueQueue.Enqueue(studentID)
	}

	return progress, nil
}

// CourseCompletion returns the mean of the student's lesson completion
// percentages within the course, clamped to [0, 100]. Zero when the student
// has no records in the course.
func (s *progressService) CourseCompletion(ctx context.Context, studentID string, courseID int64) (float64, error) {
	if pct, ok := s.completions.Get(ctx, studentID, courseID); ok {
		return pct, nil
	}

	avg, err := s.progressRepo.AverageCompletionForCourse(ctx, studentID, courseID)
	if err != nil {
		return 0, err
	}

	pct := clampPercentage(avg)
	s.completions.Set(ctx, studentID, courseID, pct)
	return pct, nil
}

func (s *progressService) StudentProgress(ctx context.Context, studentID string) ([]models.VideoProgress, error) {
	return s.progressRepo.GetByStudent(ctx, studentID)
}

func (s *progressService) CourseProgressRecords(ctx context.Context, studentID string, courseID int64) ([]models.VideoProgress, error) {
	return s.progressRepo.GetByStudentAndCourse(ctx, studentID, courseID)
}

func completionPercentage(watched, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(watched) / float64(total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

func clampPercentage(pct float64) float64 {
	return math.Min(math.Max(pct, 0), 100)
}

func round2(pct float64) float64 {
	return math.Round(pct*100) / 100
}
