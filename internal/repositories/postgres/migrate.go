package postgres

import (
	"fmt"

	"github.com/SAP-F-2025/grading-service/internal/models"
	"gorm.io/gorm"
)

// Migrate creates the schema for all grading entities.
//
// The grade-slot uniqueness is enforced here rather than via a struct tag: a
// plain unique index over (enrollment_id, exam_id, component_id) would treat
// NULL component IDs as distinct, so two exam-level grades for the same
// enrollment and exam could both insert. Collapsing the NULL slot with
// COALESCE(component_id, 0) makes the exam-level slot conflict with itself;
// component ID 0 is never a real component (gorm primary keys start at 1).
// The expression index works on both Postgres and SQLite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Course{},
		&models.Exam{},
		&models.ExamComponent{},
		&models.Student{},
		&models.Enrollment{},
		&models.GradingScale{},
		&models.GradeThreshold{},
		&models.Grade{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_grade_enrollment_exam_component
		 ON grades (enrollment_id, exam_id, COALESCE(component_id, 0))`,
	).Error; err != nil {
		return fmt.Errorf("failed to create grade slot index: %w", err)
	}

	return nil
}
