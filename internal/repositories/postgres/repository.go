package postgres

import (
	"context"

	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"gorm.io/gorm"
)

// GormRepository wires the per-entity repositories over one *gorm.DB. The DB
// must be opened with TranslateError enabled so unique-constraint violations
// surface as gorm.ErrDuplicatedKey.
type GormRepository struct {
	db           *gorm.DB
	exam         repositories.ExamRepository
	component    repositories.ComponentRepository
	grade        repositories.GradeRepository
	gradingScale repositories.GradingScaleRepository
	enrollment   repositories.EnrollmentRepository
	auditLog     repositories.AuditLogRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &GormRepository{
		db:           db,
		exam:         NewExamPostgreSQL(db),
		component:    NewComponentPostgreSQL(db),
		grade:        NewGradePostgreSQL(db),
		gradingScale: NewGradingScalePostgreSQL(db),
		enrollment:   NewEnrollmentPostgreSQL(db),
		auditLog:     NewAuditLogPostgreSQL(db),
	}
}

func (r *GormRepository) Exam() repositories.ExamRepository                 { return r.exam }
func (r *GormRepository) Component() repositories.ComponentRepository      { return r.component }
func (r *GormRepository) Grade() repositories.GradeRepository              { return r.grade }
func (r *GormRepository) GradingScale() repositories.GradingScaleRepository {
	return r.gradingScale
}
func (r *GormRepository) Enrollment() repositories.EnrollmentRepository { return r.enrollment }
func (r *GormRepository) AuditLog() repositories.AuditLogRepository     { return r.auditLog }

// WithTransaction executes fn against a repository bound to a single
// transaction. A returned error rolls back every write made through fn.
func (r *GormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
