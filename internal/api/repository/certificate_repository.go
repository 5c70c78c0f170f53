package repository

import (
	"context"
	"errors"

	"skillhub/internal/api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCertificateExists reports a write-time uniqueness conflict on
// (student_id, course_id). Callers treat it as "already issued": fetch the
// existing row and return that instead of failing.
var ErrCertificateExists = errors.New("certificate already exists for student and course")

type CertificateRepository interface {
	// CreateIfAbsent inserts the certificate unless one already exists for the
	// (student, course) pair. Returns ErrCertificateExists when the insert was
	// skipped or rejected by the unique constraint.
	CreateIfAbsent(ctx context.Context, cert *models.Certificate) error
	GetByStudentAndCourse(ctx context.Context, studentID string, courseID int64) (*models.Certificate, error)
	GetByStudent(ctx context.Context, studentID string) ([]models.Certificate, error)
	GetByNumber(ctx context.Context, certificateNumber string) (*models.Certificate, error)
	ExistsByStudentAndCourse(ctx context.Context, studentID string, courseID int64) (bool, error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) CreateIfAbsent(ctx context.Context, cert *models.Certificate) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(cert)

	if result.Error != nil {
		// The certificate_number unique index can still fire a 23505 that the
		// targeted ON CONFLICT clause does not absorb.
		if isUniqueViolation(result.Error) {
			return ErrCertificateExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCertificateExists
	}
	return nil
}

func (r *certificateRepository) GetByStudentAndCourse(ctx context.Context, studentID string, courseID int64) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepository) GetByStudent(ctx context.Context, studentID string) ([]models.Certificate, error) {
	var list []models.Certificate
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("issued_at desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *certificateRepository) GetByNumber(ctx context.Context, certificateNumber string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Student").
		Where("certificate_number = ?", certificateNumber).
		First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepository) ExistsByStudentAndCourse(ctx context.Context, studentID string, courseID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Certificate{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
