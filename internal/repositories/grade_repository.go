package repositories

import (
	"context"

	"github.com/SAP-F-2025/grading-service/internal/models"
)

// GradeRepository persists grade records. Create relies on the store's unique
// constraint over (enrollment_id, exam_id, component_id) as the last line of
// defense against concurrent duplicate inserts.
type GradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	GetByID(ctx context.Context, id uint) (*models.Grade, error)
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters GradeFilters) ([]*models.Grade, int64, error)

	// Exists checks the (enrollment, exam, component) slot; a nil componentID
	// addresses the exam-level slot.
	Exists(ctx context.Context, enrollmentID, examID uint, componentID *uint) (bool, error)

	// GetFinalForEnrollment returns all final grades of an enrollment with
	// Exam and Component preloaded, optionally restricted to one course.
	GetFinalForEnrollment(ctx context.Context, enrollmentID uint, courseID *uint) ([]*models.Grade, error)

	// GetExamLevel returns only grades recorded directly against the exam
	// (component_id IS NULL).
	GetExamLevel(ctx context.Context, examID uint) ([]*models.Grade, error)
}

type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	GetByIDWithCourse(ctx context.Context, id uint) (*models.Exam, error)
	GetCourse(ctx context.Context, courseID uint) (*models.Course, error)
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters ExamFilters) ([]*models.Exam, int64, error)
}

type ComponentRepository interface {
	Create(ctx context.Context, component *models.ExamComponent) error
	GetByID(ctx context.Context, id uint) (*models.ExamComponent, error)
	Update(ctx context.Context, component *models.ExamComponent) error
	Delete(ctx context.Context, id uint) error

	// ListByExam returns an exam's components ordered by display order.
	ListByExam(ctx context.Context, examID uint) ([]*models.ExamComponent, error)

	// SumWeights sums the component weights of an exam, optionally excluding
	// one component (the one being updated).
	SumWeights(ctx context.Context, examID uint, excludeID *uint) (float64, error)
}

type GradingScaleRepository interface {
	Create(ctx context.Context, scale *models.GradingScale) error
	GetByID(ctx context.Context, id uint) (*models.GradingScale, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters ScaleFilters) ([]*models.GradingScale, int64, error)

	// GetDefault returns the default scale for a university, or the generic
	// default when universityID is nil. Thresholds come preloaded.
	GetDefault(ctx context.Context, universityID *uint) (*models.GradingScale, error)
	ClearDefault(ctx context.Context, universityID *uint) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	GetByIDWithStudent(ctx context.Context, id uint) (*models.Enrollment, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByTarget(ctx context.Context, targetType string, targetID uint) ([]*models.AuditLog, error)
}
