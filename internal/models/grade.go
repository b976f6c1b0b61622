package models

import (
	"time"
)

// GradingScale is a named, ordered set of percentage thresholds. A scale may be
// scoped to one university or left generic; at most one scale per scope is the
// default. When no scale is configured the engine falls back to the built-in
// German table in the grading package.
type GradingScale struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Name         string  `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	UniversityID *uint   `json:"university_id" gorm:"index"`
	IsDefault    bool    `json:"is_default" gorm:"not null;default:false"`
	Description  *string `json:"description" gorm:"size:500" validate:"omitempty,max=500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Thresholds []GradeThreshold `json:"thresholds,omitempty" gorm:"foreignKey:ScaleID;constraint:OnDelete:CASCADE"`
}

// GradeThreshold is one entry of a scale: the minimum percentage required to
// earn a grade value/label. Grade values are unique within a scale.
type GradeThreshold struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	ScaleID       uint    `json:"scale_id" gorm:"not null;index;uniqueIndex:uq_threshold_scale_grade,priority:1"`
	GradeValue    float64 `json:"grade_value" gorm:"not null;uniqueIndex:uq_threshold_scale_grade,priority:2"`
	GradeLabel    string  `json:"grade_label" gorm:"not null;size:50" validate:"required,max=50"`
	MinPercentage float64 `json:"min_percentage" gorm:"not null;index" validate:"min=0,max=100"`
	Description   *string `json:"description" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Grade records the points an enrollment achieved on an exam or on one of its
// components. Percentage, grade value and label are derived from points and
// recomputed whenever points change. At most one grade exists per
// (enrollment, exam, component) triple; component NULL occupies its own slot.
// The slot uniqueness lives in an expression index over
// COALESCE(component_id, 0) created by postgres.Migrate, because a plain
// composite unique index treats NULL component IDs as distinct rows.
type Grade struct {
	ID           uint  `json:"id" gorm:"primaryKey"`
	EnrollmentID uint  `json:"enrollment_id" gorm:"not null;index"`
	ExamID       uint  `json:"exam_id" gorm:"not null;index"`
	ComponentID  *uint `json:"component_id" gorm:"index"`

	Points     float64 `json:"points" gorm:"not null"`
	Percentage float64 `json:"percentage" gorm:"not null"`
	GradeValue float64 `json:"grade_value" gorm:"not null"`
	GradeLabel string  `json:"grade_label" gorm:"not null;size:50"`

	GradedAt time.Time `json:"graded_at" gorm:"not null"`
	GradedBy *string   `json:"graded_by" gorm:"size:100"`
	IsFinal  bool      `json:"is_final" gorm:"not null;default:false;index"`
	Notes    *string   `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Enrollment Enrollment     `json:"enrollment,omitempty" gorm:"foreignKey:EnrollmentID"`
	Exam       Exam           `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	Component  *ExamComponent `json:"component,omitempty" gorm:"foreignKey:ComponentID"`
}

func (GradingScale) TableName() string {
	return "grading_scales"
}

func (GradeThreshold) TableName() string {
	return "grade_thresholds"
}

func (Grade) TableName() string {
	return "grades"
}
