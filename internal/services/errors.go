package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/grading-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Lookup errors
	ErrExamNotFound       = errors.New("exam not found")
	ErrComponentNotFound  = errors.New("exam component not found")
	ErrGradeNotFound      = errors.New("grade not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrScaleNotFound      = errors.New("grading scale not found")
	ErrCourseNotFound     = errors.New("course not found")

	// Grade recording errors
	ErrDuplicateGrade = errors.New("grade already exists for this enrollment, exam and component")

	// Aggregation errors - distinct from a valid zero-value result
	ErrNoFinalGrades = errors.New("no final grades recorded for enrollment")
	ErrNoGrades      = errors.New("no grades recorded for exam")

	// Scale errors
	ErrDuplicateGradeValue = errors.New("grading scale has duplicate grade values")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// PointsOutOfRangeError signals points outside [0, MaxPoints] for the graded
// scope. MaxPoints carries the violated bound so callers can self-correct.
type PointsOutOfRangeError struct {
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"max_points"`
}

func (e *PointsOutOfRangeError) Error() string {
	return fmt.Sprintf("points must be between 0 and %g, got %g", e.MaxPoints, e.Points)
}

// WeightExceededError signals a component weight that would push the exam's
// component-weight sum above 100. Available carries the remaining budget.
type WeightExceededError struct {
	ExamID    uint    `json:"exam_id"`
	Proposed  float64 `json:"proposed"`
	Available float64 `json:"available"`
}

func (e *WeightExceededError) Error() string {
	return fmt.Sprintf("component weight %g exceeds available weight %g for exam %d",
		e.Proposed, e.Available, e.ExamID)
}

// ComponentMismatchError signals a component that does not belong to the
// given exam.
type ComponentMismatchError struct {
	ComponentID uint `json:"component_id"`
	ExamID      uint `json:"exam_id"`
}

func (e *ComponentMismatchError) Error() string {
	return fmt.Sprintf("component %d does not belong to exam %d", e.ComponentID, e.ExamID)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrComponentNotFound) ||
		errors.Is(err, ErrGradeNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound) ||
		errors.Is(err, ErrScaleNotFound) ||
		errors.Is(err, ErrCourseNotFound)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrDuplicateGrade) ||
		errors.Is(err, ErrDuplicateGradeValue)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var pointsErr *PointsOutOfRangeError
	if errors.As(err, &pointsErr) {
		return true
	}
	var weightErr *WeightExceededError
	if errors.As(err, &weightErr) {
		return true
	}
	var mismatchErr *ComponentMismatchError
	return errors.As(err, &mismatchErr)
}

// IsEmptyResult checks if error means a query found no qualifying data
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrNoFinalGrades) || errors.Is(err, ErrNoGrades)
}
