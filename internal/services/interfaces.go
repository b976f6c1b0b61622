package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
)

// ===== SERVICE INTERFACES =====

// GradeService records, updates and removes individual grade records.
// Percentage, grade value and label are derived on every points change.
type GradeService interface {
	Record(ctx context.Context, req *RecordGradeRequest) (*models.Grade, error)
	Update(ctx context.Context, id uint, req *UpdateGradeRequest) (*models.Grade, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Grade, error)
	List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Grade, int64, error)
}

// ComponentService manages the weighted sub-parts of an exam and guards the
// 100-percent weight budget.
type ComponentService interface {
	Create(ctx context.Context, req *CreateComponentRequest) (*models.ExamComponent, error)
	Update(ctx context.Context, id uint, req *UpdateComponentRequest) (*models.ExamComponent, error)
	Delete(ctx context.Context, id uint) error
	ListByExam(ctx context.Context, examID uint) ([]*models.ExamComponent, error)

	// AvailableWeight returns 100 minus the current weight sum of the exam's
	// components, optionally excluding the component being updated.
	AvailableWeight(ctx context.Context, examID uint, excludeComponentID *uint) (float64, error)
}

// AggregationService rolls final grades up into a course-level weighted
// average per enrollment.
type AggregationService interface {
	WeightedAverage(ctx context.Context, enrollmentID uint, courseID *uint) (*AggregateResult, error)
}

// StatisticsService computes distributional statistics over the exam-level
// grades of one exam.
type StatisticsService interface {
	ExamStatistics(ctx context.Context, examID uint) (*ExamStatistics, error)
}

type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest) (*models.Exam, error)
	Update(ctx context.Context, id uint, req *UpdateExamRequest) (*models.Exam, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	List(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error)
}

type ScaleService interface {
	Create(ctx context.Context, req *CreateScaleRequest) (*models.GradingScale, error)
	CreateDefaultScale(ctx context.Context, universityID *uint) (*models.GradingScale, error)
	GetByID(ctx context.Context, id uint) (*models.GradingScale, error)
	List(ctx context.Context, filters repositories.ScaleFilters) ([]*models.GradingScale, int64, error)
	Delete(ctx context.Context, id uint) error
}

// ExportService renders grade sheets as spreadsheets for the surrounding
// layers to serve or archive.
type ExportService interface {
	ExportExamGrades(ctx context.Context, examID uint) ([]byte, error)
}

type AuditService interface {
	Log(ctx context.Context, repo repositories.Repository, action models.AuditAction, targetType string, targetID uint, actor *string, details map[string]interface{})
	History(ctx context.Context, targetType string, targetID uint) ([]*models.AuditLog, error)
}

// ===== REQUEST DTOS =====

type RecordGradeRequest struct {
	EnrollmentID uint    `json:"enrollment_id" validate:"required"`
	ExamID       uint    `json:"exam_id" validate:"required"`
	Points       float64 `json:"points" validate:"min=0"`
	ComponentID  *uint   `json:"component_id"`
	GradedBy     *string `json:"graded_by" validate:"omitempty,max=100"`
	IsFinal      bool    `json:"is_final"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateGradeRequest struct {
	Points   *float64 `json:"points" validate:"omitempty,min=0"`
	IsFinal  *bool    `json:"is_final"`
	Notes    *string  `json:"notes" validate:"omitempty,max=2000"`
	GradedBy *string  `json:"graded_by" validate:"omitempty,max=100"`
}

type CreateComponentRequest struct {
	ExamID      uint    `json:"exam_id" validate:"required"`
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	MaxPoints   float64 `json:"max_points" validate:"required,gt=0"`
	Weight      float64 `json:"weight" validate:"weight_range"`
	Order       int     `json:"order" validate:"min=0"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type UpdateComponentRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	MaxPoints   *float64 `json:"max_points" validate:"omitempty,gt=0"`
	Weight      *float64 `json:"weight" validate:"omitempty,weight_range"`
	Order       *int     `json:"order" validate:"omitempty,min=0"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
}

type CreateExamRequest struct {
	CourseID    uint      `json:"course_id" validate:"required"`
	Name        string    `json:"name" validate:"required,min=1,max=255"`
	ExamDate    time.Time `json:"exam_date" validate:"required"`
	MaxPoints   float64   `json:"max_points" validate:"required,gt=0"`
	Weight      float64   `json:"weight" validate:"min=0,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
}

type UpdateExamRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=255"`
	ExamDate    *time.Time `json:"exam_date"`
	MaxPoints   *float64   `json:"max_points" validate:"omitempty,gt=0"`
	Weight      *float64   `json:"weight" validate:"omitempty,min=0,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
}

type CreateScaleRequest struct {
	Name         string                   `json:"name" validate:"required,min=1,max=100"`
	UniversityID *uint                    `json:"university_id"`
	IsDefault    bool                     `json:"is_default"`
	Description  *string                  `json:"description" validate:"omitempty,max=500"`
	Thresholds   []CreateThresholdRequest `json:"thresholds" validate:"required,min=1,dive"`
}

type CreateThresholdRequest struct {
	GradeValue    float64 `json:"grade_value" validate:"min=0"`
	GradeLabel    string  `json:"grade_label" validate:"required,max=50"`
	MinPercentage float64 `json:"min_percentage" validate:"percentage_range"`
	Description   *string `json:"description" validate:"omitempty,max=255"`
}

// ===== RESULT STRUCTS =====

// AggregateResult is the course-level rollup for one enrollment. The exam
// breakdown reflects exactly the grades that fed the arithmetic.
type AggregateResult struct {
	EnrollmentID    uint             `json:"enrollment_id"`
	StudentName     string           `json:"student_name,omitempty"`
	WeightedAverage float64          `json:"weighted_average"`
	GradeLabel      string           `json:"grade_label"`
	TotalWeight     float64          `json:"total_weight"` // percent of course weight covered
	IsPassing       bool             `json:"is_passing"`
	Exams           []*ExamBreakdown `json:"exams"`
}

// ExamBreakdown shows whether an exam's contribution came from components or
// from a single exam-level grade.
type ExamBreakdown struct {
	ExamID     uint         `json:"exam_id"`
	ExamName   string       `json:"exam_name"`
	ExamWeight float64      `json:"exam_weight"`
	Components []GradeEntry `json:"components,omitempty"`
	ExamLevel  *GradeEntry  `json:"exam_level,omitempty"`
}

type GradeEntry struct {
	ComponentID   *uint   `json:"component_id,omitempty"`
	ComponentName string  `json:"component_name,omitempty"`
	Points        float64 `json:"points"`
	Percentage    float64 `json:"percentage"`
	GradeValue    float64 `json:"grade_value"`
}

type ExamStatistics struct {
	ExamID       uint           `json:"exam_id"`
	ExamName     string         `json:"exam_name"`
	Count        int            `json:"count"`
	PassingCount int            `json:"passing_count"`
	FailingCount int            `json:"failing_count"`
	PassRate     float64        `json:"pass_rate"`
	Points       ValueStats     `json:"points"`
	Percentage   ValueStats     `json:"percentage"`
	GradeValues  ValueStats     `json:"grade_values"`
	Distribution map[string]int `json:"distribution"`
}

type ValueStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}
