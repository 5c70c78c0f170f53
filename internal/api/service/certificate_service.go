package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"skillhub/internal/api/models"
	"skillhub/internal/api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificationThreshold is the course completion percentage required before
// a certificate can be issued.
const CertificationThreshold = 80.0

var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrStudentNotFound     = errors.New("student not found")
	ErrCertificateNotFound = errors.New("certificate not found")
)

// IneligibleError reports an explicit issuance request below the threshold,
// carrying the current percentage for user feedback.
type IneligibleError struct {
	Completion float64
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("course not completed: %.2f%%, required: %.0f%%", e.Completion, CertificationThreshold)
}

type CertificateService interface {
	// IssueCertificate is the synchronous, user-facing issuance path.
	// requestHost is the inbound request's host, used for certificate URL
	// resolution when no base URL is configured; empty for non-request paths.
	IssueCertificate(ctx context.Context, studentID string, courseID int64, requestHost string) (*models.Certificate, error)
	// CheckAndIssueForStudent re-checks every enrolled course. It is invoked
	// by the worker pool after lesson completions; redundant and concurrent
	// invocations are safe and converge to the same end state.
	CheckAndIssueForStudent(ctx context.Context, studentID string)
	Eligibility(ctx context.Context, studentID string, courseID int64) (bool, float64, error)
	StudentCertificates(ctx context.Context, studentID string) ([]models.Certificate, error)
	CertificateByNumber(ctx context.Context, certificateNumber string) (*models.Certificate, error)
}

type certificateService struct {
	certRepo       repository.CertificateRepository
	courseRepo     repository.CourseRepository
	userRepo       repository.UserRepository
	enrollmentRepo repository.EnrollmentRepository
	progressRepo   repository.ProgressRepository
	email          EmailService
	appBaseURL     string
	backendPort    int
	publicPort     int
	logger         *slog.Logger
}

func NewCertificateService(
	certRepo repository.CertificateRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	enrollmentRepo repository.EnrollmentRepository,
	progressRepo repository.ProgressRepository,
	email EmailService,
	appBaseURL string,
	backendPort, publicPort int,
	logger *slog.Logger,
) CertificateService {
	return &certificateService{
		certRepo:       certRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		email:          email,
		appBaseURL:     appBaseURL,
		backendPort:    backendPort,
		publicPort:     publicPort,
		logger:         logger,
	}
}

func (s *certificateService) IssueCertificate(ctx context.Context, studentID string, courseID int64, requestHost string) (*models.Certificate, error) {
	// Fast path: an existing certificate is returned, never an error.
	existing, err := s.certRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	student, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	completion, err := s.courseCompletion(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if completion < CertificationThreshold {
		return nil, &IneligibleError{Completion: completion}
	}

	return s.issue(ctx, student, course, completion, requestHost)
}

func (s *certificateService) CheckAndIssueForStudent(ctx context.Context, studentID string) {
	courseIDs, err := s.enrollmentRepo.GetCourseIDsByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("certificate check: listing enrollments failed",
			"student_id", studentID, "error", err)
		return
	}

	for _, courseID := range courseIDs {
		exists, err := s.certRepo.ExistsByStudentAndCourse(ctx, studentID, courseID)
		if err != nil {
			s.logger.Error("certificate check: existence lookup failed",
				"student_id", studentID, "course_id", courseID, "error", err)
			continue
		}
		if exists {
			continue
		}

		completion, err := s.courseCompletion(ctx, studentID, courseID)
		if err != nil {
			s.logger.Error("certificate check: completion lookup failed",
				"student_id", studentID, "course_id", courseID, "error", err)
			continue
		}
		if completion < CertificationThreshold {
			continue
		}

		course, err := s.courseRepo.GetByID(ctx, courseID)
		if err != nil {
			s.logger.Error("certificate check: course lookup failed",
				"student_id", studentID, "course_id", courseID, "error", err)
			continue
		}
		student, err := s.userRepo.FindByID(ctx, studentID)
		if err != nil {
			s.logger.Error("certificate check: student lookup failed",
				"student_id", studentID, "error", err)
			return
		}

		if _, err := s.issue(ctx, student, course, completion, ""); err != nil {
			s.logger.Error("certificate check: issuance failed",
				"student_id", studentID, "course_id", courseID, "error", err)
			continue
		}
		s.logger.Info("certificate issued",
			"student_id", studentID, "course_id", courseID, "completion", completion)
	}
}

func (s *certificateService) Eligibility(ctx context.Context, studentID string, courseID int64) (bool, float64, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrCourseNotFound
		}
		return false, 0, err
	}

	completion, err := s.courseCompletion(ctx, studentID, courseID)
	if err != nil {
		return false, 0, err
	}

	if completion >= CertificationThreshold {
		return true, completion, nil
	}

	// Already holding a certificate also counts as eligible.
	exists, err := s.certRepo.ExistsByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return false, 0, err
	}
	return exists, completion, nil
}

func (s *certificateService) StudentCertificates(ctx context.Context, studentID string) ([]models.Certificate, error) {
	return s.certRepo.GetByStudent(ctx, studentID)
}

func (s *certificateService) CertificateByNumber(ctx context.Context, certificateNumber string) (*models.Certificate, error) {
	cert, err := s.certRepo.GetByNumber(ctx, certificateNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}

// issue persists a new certificate, resolving a concurrent insert by another
// issuer to the stored row. The existence check callers perform beforehand is
// only an optimization; the unique constraint is the real guard.
func (s *certificateService) issue(ctx context.Context, student *models.User, course *models.Course, completion float64, requestHost string) (*models.Certificate, error) {
	number := newCertificateNumber()
	cert := &models.Certificate{
		StudentID:            student.ID,
		CourseID:             course.ID,
		CertificateNumber:    number,
		CertificateURL:       s.resolveBaseURL(requestHost) + "/certificate/" + number,
		CompletionPercentage: round2(completion),
		IssuedAt:             time.Now(),
	}

	if err := s.certRepo.CreateIfAbsent(ctx, cert); err != nil {
		if errors.Is(err, repository.ErrCertificateExists) {
			// Lost the race: another check wrote first. Same end state.
			return s.certRepo.GetByStudentAndCourse(ctx, student.ID, course.ID)
		}
		return nil, err
	}

	// Best-effort notification; a failed email never fails the issuance.
	if err := s.email.SendCertificateIssued(ctx, student.Email, student.Name, course.Title, cert.CertificateNumber, cert.CertificateURL); err != nil {
		s.logger.Error("failed to send certificate email",
			"student_id", student.ID, "certificate_number", cert.CertificateNumber, "error", err)
	}

	return cert, nil
}

func (s *certificateService) courseCompletion(ctx context.Context, studentID string, courseID int64) (float64, error) {
	avg, err := s.progressRepo.AverageCompletionForCourse(ctx, studentID, courseID)
	if err != nil {
		return 0, err
	}
	return clampPercentage(avg), nil
}

// resolveBaseURL picks the public base URL for certificate links:
// configuration first, then the inbound request's host with the backend port
// mapped to the public one, then the local development default.
func (s *certificateService) resolveBaseURL(requestHost string) string {
	if s.appBaseURL != "" {
		return strings.TrimRight(s.appBaseURL, "/")
	}

	if requestHost != "" {
		host := requestHost
		if h, port, err := net.SplitHostPort(requestHost); err == nil && port == fmt.Sprint(s.backendPort) {
			host = h
		}
		if host == "localhost" || strings.HasPrefix(host, "127.0.0.1") {
			return fmt.Sprintf("http://%s:%d", host, s.publicPort)
		}
		// Production deployments front the app on the default HTTP port.
		return "http://" + host
	}

	return fmt.Sprintf("http://localhost:%d", s.publicPort)
}

// newCertificateNumber builds a human-shareable unique number, e.g.
// SH-20260829-4F2A91BC.
func newCertificateNumber() string {
	stamp := time.Now().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("SH-%s-%s", stamp, suffix)
}
