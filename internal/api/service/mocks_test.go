package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"skillhub/internal/api/models"

	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Shared testify mocks for the repository and cache interfaces used across the
// service tests in this package.

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) GetByCourseID(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) GetByCourseAndOrder(ctx context.Context, courseID int64, order int) (*models.Lesson, error) {
	args := m.Called(ctx, courseID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID string, courseID int64) (*models.Enrollment, error) {
	args := m.Called(ctx, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) GetByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) GetCourseIDsByStudent(ctx context.Context, studentID string) ([]int64, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetByStudentAndLesson(ctx context.Context, studentID string, lessonID int64) (*models.VideoProgress, error) {
	args := m.Called(ctx, studentID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoProgress), args.Error(1)
}

func (m *MockProgressRepository) GetByStudent(ctx context.Context, studentID string) ([]models.VideoProgress, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VideoProgress), args.Error(1)
}

func (m *MockProgressRepository) GetByStudentAndCourse(ctx context.Context, studentID string, courseID int64) ([]models.VideoProgress, error) {
	args := m.Called(ctx, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VideoProgress), args.Error(1)
}

func (m *MockProgressRepository) Save(ctx context.Context, progress *models.VideoProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) AverageCompletionForCourse(ctx context.Context, studentID string, courseID int64) (float64, error) {
	args := m.Called(ctx, studentID, courseID)
	return args.Get(0).(float64), args.Error(1)
}

type MockCertificateRepository struct {
	mock.Mock
}

func (m *MockCertificateRepository) CreateIfAbsent(ctx context.Context, cert *models.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}

func (m *MockCertificateRepository) GetByStudentAndCourse(ctx context.Context, studentID string, courseID int64) (*models.Certificate, error) {
	args := m.Called(ctx, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) GetByStudent(ctx context.Context, studentID string) ([]models.Certificate, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) GetByNumber(ctx context.Context, certificateNumber string) (*models.Certificate, error) {
	args := m.Called(ctx, certificateNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) ExistsByStudentAndCourse(ctx context.Context, studentID string, courseID int64) (bool, error) {
	args := m.Called(ctx, studentID, courseID)
	return args.Bool(0), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendCertificateIssued(ctx context.Context, email, name, courseTitle, certificateNumber, certificateURL string) error {
	args := m.Called(ctx, email, name, courseTitle, certificateNumber, certificateURL)
	return args.Error(0)
}

// fakeCompletionCache is an in-memory CompletionCache for observing cache
// interactions without redis.
type fakeCompletionCache struct {
	values      map[string]float64
	invalidated int
}

func newFakeCompletionCache() *fakeCompletionCache {
	return &fakeCompletionCache{values: make(map[string]float64)}
}

func (c *fakeCompletionCache) key(studentID string, courseID int64) string {
	return fmt.Sprintf("%s/%d", studentID, courseID)
}

func (c *fakeCompletionCache) Get(ctx context.Context, studentID string, courseID int64) (float64, bool) {
	pct, ok := c.values[c.key(studentID, courseID)]
	return pct, ok
}

func (c *fakeCompletionCache) Set(ctx context.Context, studentID string, courseID int64, percentage float64) {
	c.values[c.key(studentID, courseID)] = percentage
}

func (c *fakeCompletionCache) Invalidate(ctx context.Context, studentID string, courseID int64) {
	delete(c.values, c.key(studentID, courseID))
	c.invalidated++
}

type MockIssueQueue struct {
	mock.Mock
}

func (m *MockIssueQueue) Enqueue(studentID string) {
	m.Called(studentID)
}
