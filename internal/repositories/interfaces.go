package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates the per-entity repositories and the transaction
// boundary. WithTransaction runs fn against a repository bound to one
// transaction; any error rolls everything back, so grade mutations stay
// all-or-nothing.
type Repository interface {
	Exam() ExamRepository
	Component() ComponentRepository
	Grade() GradeRepository
	GradingScale() GradingScaleRepository
	Enrollment() EnrollmentRepository
	AuditLog() AuditLogRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// ===== SHARED FILTER STRUCTS =====

type GradeFilters struct {
	EnrollmentID *uint  `json:"enrollment_id"`
	ExamID       *uint  `json:"exam_id"`
	CourseID     *uint  `json:"course_id"` // via the grade's exam
	IsFinal      *bool  `json:"is_final"`
	Limit        int    `json:"limit"`
	Offset       int    `json:"offset"`
	SortBy       string `json:"sort_by"`    // "graded_at", "points", "grade_value"
	SortOrder    string `json:"sort_order"` // "asc", "desc"
}

type ExamFilters struct {
	CourseID  *uint  `json:"course_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"` // "exam_date", "name"
	SortOrder string `json:"sort_order"`
}

type ScaleFilters struct {
	UniversityID *uint `json:"university_id"`
	IsDefault    *bool `json:"is_default"`
	Limit        int   `json:"limit"`
	Offset       int   `json:"offset"`
}

// ===== ERROR CLASSIFICATION =====

// IsNotFoundError reports whether a repository error means the record does
// not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether a write lost against a uniqueness
// constraint. The unique index on (enrollment_id, exam_id, component_id)
// turns a duplicate-check race into this error instead of a silent second row.
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
