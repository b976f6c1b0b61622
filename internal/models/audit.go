package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditGradeRecorded    AuditAction = "grade_recorded"
	AuditGradeUpdated     AuditAction = "grade_updated"
	AuditGradeDeleted     AuditAction = "grade_deleted"
	AuditExamCreated      AuditAction = "exam_created"
	AuditExamUpdated      AuditAction = "exam_updated"
	AuditExamDeleted      AuditAction = "exam_deleted"
	AuditComponentCreated AuditAction = "component_created"
	AuditComponentUpdated AuditAction = "component_updated"
	AuditComponentDeleted AuditAction = "component_deleted"
	AuditScaleCreated     AuditAction = "scale_created"
	AuditDataExported     AuditAction = "data_exported"
)

// AuditLog records one mutation against the grade store. Details holds the
// changed fields as JSON (before/after for updates, the created values for
// inserts).
type AuditLog struct {
	ID     uint        `json:"id" gorm:"primaryKey"`
	Action AuditAction `json:"action" gorm:"not null;index;size:50"`

	TargetType string `json:"target_type" gorm:"not null;size:50;index"`
	TargetID   uint   `json:"target_id" gorm:"not null;index"`

	Actor   *string        `json:"actor" gorm:"size:100"`
	Details datatypes.JSON `json:"details" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
