package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/grading-service/internal/cache"
	"github.com/SAP-F-2025/grading-service/internal/events"
	"github.com/SAP-F-2025/grading-service/internal/grading"
	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"github.com/SAP-F-2025/grading-service/internal/utils"
)

type gradeService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	publisher events.Publisher
	cache     cache.CacheService
	audit     AuditService
}

func NewGradeService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator, publisher events.Publisher, cacheService cache.CacheService, audit AuditService) GradeService {
	return &gradeService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		cache:     cacheService,
		audit:     audit,
	}
}

// Record creates a grade for an (enrollment, exam, component) slot. All
// validation runs before any write; the create and its audit entry share one
// transaction so a failure leaves no partial record.
func (s *gradeService) Record(ctx context.Context, req *RecordGradeRequest) (*models.Grade, error) {
	s.logger.Info("Recording grade",
		"enrollment_id", req.EnrollmentID,
		"exam_id", req.ExamID,
		"component_id", req.ComponentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Enrollment().GetByID(ctx, req.EnrollmentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	exam, err := s.repo.Exam().GetByIDWithCourse(ctx, req.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	maxPoints, err := s.resolveMaxPoints(ctx, exam, req.ComponentID)
	if err != nil {
		return nil, err
	}

	if !grading.ValidatePoints(req.Points, maxPoints) {
		return nil, &PointsOutOfRangeError{Points: req.Points, MaxPoints: maxPoints}
	}

	exists, err := s.repo.Grade().Exists(ctx, req.EnrollmentID, req.ExamID, req.ComponentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing grade: %w", err)
	}
	if exists {
		return nil, ErrDuplicateGrade
	}

	percentage := grading.CalculatePercentage(req.Points, maxPoints)
	gradeValue, gradeLabel := grading.ResolveScale(percentage, s.lookupScale(ctx, exam))

	grade := &models.Grade{
		EnrollmentID: req.EnrollmentID,
		ExamID:       req.ExamID,
		ComponentID:  req.ComponentID,
		Points:       req.Points,
		Percentage:   percentage,
		GradeValue:   gradeValue,
		GradeLabel:   gradeLabel,
		GradedAt:     time.Now().UTC(),
		GradedBy:     req.GradedBy,
		IsFinal:      req.IsFinal,
		Notes:        req.Notes,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Grade().Create(ctx, grade); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				// Lost a concurrent race; the unique constraint caught it.
				return ErrDuplicateGrade
			}
			return fmt.Errorf("failed to create grade: %w", err)
		}
		s.audit.Log(ctx, txRepo, models.AuditGradeRecorded, "Grade", grade.ID, req.GradedBy, map[string]interface{}{
			"enrollment_id": grade.EnrollmentID,
			"exam_id":       grade.ExamID,
			"component_id":  grade.ComponentID,
			"points":        grade.Points,
			"percentage":    grade.Percentage,
			"grade_value":   grade.GradeValue,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Grade recorded",
		"grade_id", grade.ID,
		"points", grade.Points,
		"max_points", maxPoints,
		"percentage", grade.Percentage,
		"grade_value", grade.GradeValue,
		"grade_label", grade.GradeLabel)

	s.publishEvent(ctx, events.GradeRecorded, grade)
	s.invalidateStats(ctx, grade.ExamID)

	return grade, nil
}

// Update modifies an existing grade in place. Percentage, grade value and
// label are recomputed only when points change; notes, final flag and grader
// updates leave the derived fields untouched.
func (s *gradeService) Update(ctx context.Context, id uint, req *UpdateGradeRequest) (*models.Grade, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	grade, err := s.repo.Grade().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGradeNotFound
		}
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}

	changes := map[string]interface{}{}

	if req.Points != nil {
		exam, err := s.repo.Exam().GetByIDWithCourse(ctx, grade.ExamID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrExamNotFound
			}
			return nil, fmt.Errorf("failed to get exam: %w", err)
		}

		maxPoints, err := s.resolveMaxPoints(ctx, exam, grade.ComponentID)
		if err != nil {
			return nil, err
		}
		if !grading.ValidatePoints(*req.Points, maxPoints) {
			return nil, &PointsOutOfRangeError{Points: *req.Points, MaxPoints: maxPoints}
		}

		changes["points"] = map[string]interface{}{"old": grade.Points, "new": *req.Points}
		grade.Points = *req.Points
		grade.Percentage = grading.CalculatePercentage(*req.Points, maxPoints)
		grade.GradeValue, grade.GradeLabel = grading.ResolveScale(grade.Percentage, s.lookupScale(ctx, exam))
	}

	if req.IsFinal != nil && *req.IsFinal != grade.IsFinal {
		changes["is_final"] = map[string]interface{}{"old": grade.IsFinal, "new": *req.IsFinal}
		grade.IsFinal = *req.IsFinal
	}
	if req.Notes != nil {
		grade.Notes = req.Notes
	}
	if req.GradedBy != nil {
		grade.GradedBy = req.GradedBy
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Grade().Update(ctx, grade); err != nil {
			return fmt.Errorf("failed to update grade: %w", err)
		}
		s.audit.Log(ctx, txRepo, models.AuditGradeUpdated, "Grade", grade.ID, req.GradedBy, changes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Grade updated", "grade_id", grade.ID)

	s.publishEvent(ctx, events.GradeUpdated, grade)
	s.invalidateStats(ctx, grade.ExamID)

	return grade, nil
}

// Delete removes a grade record. No cascading effects beyond the record.
func (s *gradeService) Delete(ctx context.Context, id uint) error {
	grade, err := s.repo.Grade().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrGradeNotFound
		}
		return fmt.Errorf("failed to get grade: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Grade().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete grade: %w", err)
		}
		s.audit.Log(ctx, txRepo, models.AuditGradeDeleted, "Grade", id, nil, map[string]interface{}{
			"enrollment_id": grade.EnrollmentID,
			"exam_id":       grade.ExamID,
			"points":        grade.Points,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Grade deleted", "grade_id", id)

	s.publishEvent(ctx, events.GradeDeleted, grade)
	s.invalidateStats(ctx, grade.ExamID)

	return nil
}

func (s *gradeService) GetByID(ctx context.Context, id uint) (*models.Grade, error) {
	grade, err := s.repo.Grade().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGradeNotFound
		}
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	return grade, nil
}

func (s *gradeService) List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Grade, int64, error) {
	grades, total, err := s.repo.Grade().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, total, nil
}

// resolveMaxPoints returns the maximum points of the graded scope: the
// component's when componentID is set, the exam's otherwise. A component
// belonging to a different exam is a mismatch, not a lookup failure.
func (s *gradeService) resolveMaxPoints(ctx context.Context, exam *models.Exam, componentID *uint) (float64, error) {
	if componentID == nil {
		return exam.MaxPoints, nil
	}

	component, err := s.repo.Component().GetByID(ctx, *componentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, ErrComponentNotFound
		}
		return 0, fmt.Errorf("failed to get component: %w", err)
	}
	if component.ExamID != exam.ID {
		return 0, &ComponentMismatchError{ComponentID: component.ID, ExamID: exam.ID}
	}
	return component.MaxPoints, nil
}

// lookupScale finds the configured scale for the exam's university, falling
// back to the generic default and finally to nil, which makes the resolver
// use the built-in table.
func (s *gradeService) lookupScale(ctx context.Context, exam *models.Exam) *models.GradingScale {
	if exam.Course.UniversityID != nil {
		scale, err := s.repo.GradingScale().GetDefault(ctx, exam.Course.UniversityID)
		if err == nil {
			return scale
		}
		if !repositories.IsNotFoundError(err) {
			s.logger.Warn("Failed to look up university grading scale", "exam_id", exam.ID, "error", err)
		}
	}

	scale, err := s.repo.GradingScale().GetDefault(ctx, nil)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			s.logger.Warn("Failed to look up default grading scale", "exam_id", exam.ID, "error", err)
		}
		return nil
	}
	return scale
}

func (s *gradeService) publishEvent(ctx context.Context, eventType events.GradeEventType, grade *models.Grade) {
	if s.publisher == nil {
		return
	}

	event := events.NewGradeEvent(eventType)
	event.GradeID = grade.ID
	event.EnrollmentID = grade.EnrollmentID
	event.ExamID = grade.ExamID
	event.ComponentID = grade.ComponentID
	event.Points = grade.Points
	event.Percentage = grade.Percentage
	event.GradeValue = grade.GradeValue
	event.GradeLabel = grade.GradeLabel
	event.IsFinal = grade.IsFinal

	if err := s.publisher.PublishGradeEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish grade event", "event_type", eventType, "grade_id", grade.ID, "error", err)
	}
}

func (s *gradeService) invalidateStats(ctx context.Context, examID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ExamStatsKey(examID)); err != nil {
		s.logger.Warn("Failed to invalidate statistics cache", "exam_id", examID, "error", err)
	}
}
