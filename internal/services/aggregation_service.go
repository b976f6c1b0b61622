package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/grading-service/internal/grading"
	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
)

type aggregationService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAggregationService(repo repositories.Repository, logger *slog.Logger) AggregationService {
	return &aggregationService{
		repo:   repo,
		logger: logger,
	}
}

// WeightedAverage composes all final grades of an enrollment into one
// course-level average. Component grades contribute
// (component.weight/100)*(exam.weight/100); exam-level grades contribute
// exam.weight/100. A zero total weight means nothing contributed and yields
// ErrNoFinalGrades rather than a numeric zero.
func (s *aggregationService) WeightedAverage(ctx context.Context, enrollmentID uint, courseID *uint) (*AggregateResult, error) {
	enrollment, err := s.repo.Enrollment().GetByIDWithStudent(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	grades, err := s.repo.Grade().GetFinalForEnrollment(ctx, enrollmentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get final grades: %w", err)
	}
	if len(grades) == 0 {
		return nil, ErrNoFinalGrades
	}

	var (
		totalWeight float64
		weightedSum float64
	)
	breakdowns := make(map[uint]*ExamBreakdown)
	examOrder := make([]uint, 0)

	for _, grade := range grades {
		// A component-tagged grade without its component record is a
		// dangling reference; falling back to the full exam weight would
		// overstate its contribution, so leave it out entirely.
		if grade.ComponentID != nil && grade.Component == nil {
			s.logger.Warn("Skipping grade with missing component record",
				"grade_id", grade.ID,
				"enrollment_id", enrollmentID,
				"component_id", *grade.ComponentID)
			continue
		}

		weight := effectiveWeight(grade)
		weightedSum += grade.GradeValue * weight
		totalWeight += weight

		breakdown, ok := breakdowns[grade.ExamID]
		if !ok {
			breakdown = &ExamBreakdown{
				ExamID:     grade.ExamID,
				ExamName:   grade.Exam.Name,
				ExamWeight: grade.Exam.Weight,
			}
			breakdowns[grade.ExamID] = breakdown
			examOrder = append(examOrder, grade.ExamID)
		}

		entry := GradeEntry{
			Points:     grade.Points,
			Percentage: grade.Percentage,
			GradeValue: grade.GradeValue,
		}
		if grade.ComponentID != nil {
			entry.ComponentID = grade.ComponentID
			entry.ComponentName = grade.Component.Name
			breakdown.Components = append(breakdown.Components, entry)
		} else {
			breakdown.ExamLevel = &entry
		}
	}

	if totalWeight == 0 {
		return nil, ErrNoFinalGrades
	}

	average := grading.Round2(weightedSum / totalWeight)

	result := &AggregateResult{
		EnrollmentID:    enrollmentID,
		StudentName:     studentName(enrollment),
		WeightedAverage: average,
		GradeLabel:      grading.ApproximateLabel(average),
		TotalWeight:     grading.Round1(totalWeight * 100),
		IsPassing:       grading.IsPassing(average),
		Exams:           make([]*ExamBreakdown, 0, len(examOrder)),
	}
	for _, examID := range examOrder {
		result.Exams = append(result.Exams, breakdowns[examID])
	}

	s.logger.Info("Weighted average computed",
		"enrollment_id", enrollmentID,
		"weighted_average", average,
		"total_weight", result.TotalWeight,
		"is_passing", result.IsPassing,
		"grade_count", len(grades))

	return result, nil
}

// effectiveWeight derives a grade's contribution as a fraction of the course
// outcome. The tagged variant is the presence of ComponentID: component
// grades compose the component and exam weight fractions, exam-level grades
// use the exam fraction alone. Callers must have filtered out component
// grades whose Component record is missing.
func effectiveWeight(grade *models.Grade) float64 {
	if grade.ComponentID != nil {
		return (grade.Component.Weight / 100) * (grade.Exam.Weight / 100)
	}
	return grade.Exam.Weight / 100
}

func studentName(enrollment *models.Enrollment) string {
	if enrollment.Student.ID == 0 {
		return ""
	}
	return fmt.Sprintf("%s, %s", enrollment.Student.LastName, enrollment.Student.FirstName)
}
