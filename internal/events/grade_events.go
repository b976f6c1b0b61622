package events

import (
	"time"

	"github.com/google/uuid"
)

type GradeEventType string

const (
	GradeRecorded GradeEventType = "grade.recorded"
	GradeUpdated  GradeEventType = "grade.updated"
	GradeDeleted  GradeEventType = "grade.deleted"
)

// GradeEvent notifies downstream consumers (transcript builders, notification
// services) that a grade record changed. Derived values are included so
// consumers do not need to re-resolve the scale.
type GradeEvent struct {
	ID        string         `json:"id"`
	Type      GradeEventType `json:"type"`
	Source    string         `json:"source"`
	Version   string         `json:"version"`
	Timestamp time.Time      `json:"timestamp"`

	GradeID      uint    `json:"grade_id"`
	EnrollmentID uint    `json:"enrollment_id"`
	ExamID       uint    `json:"exam_id"`
	ComponentID  *uint   `json:"component_id,omitempty"`
	Points       float64 `json:"points"`
	Percentage   float64 `json:"percentage"`
	GradeValue   float64 `json:"grade_value"`
	GradeLabel   string  `json:"grade_label"`
	IsFinal      bool    `json:"is_final"`
}

const (
	eventSource  = "grading-service"
	eventVersion = "1.0"
)

// NewGradeEvent builds an event envelope with a fresh ID and timestamp.
func NewGradeEvent(eventType GradeEventType) *GradeEvent {
	return &GradeEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
	}
}
