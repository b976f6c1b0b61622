package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"github.com/SAP-F-2025/grading-service/internal/utils"
)

type examService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	audit     AuditService
}

func NewExamService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator, audit AuditService) ExamService {
	return &examService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		audit:     audit,
	}
}

func (s *examService) Create(ctx context.Context, req *CreateExamRequest) (*models.Exam, error) {
	s.logger.Info("Creating exam", "course_id", req.CourseID, "name", req.Name)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Exam().GetCourse(ctx, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	exam := &models.Exam{
		CourseID:    req.CourseID,
		Name:        req.Name,
		ExamDate:    req.ExamDate,
		MaxPoints:   req.MaxPoints,
		Weight:      req.Weight,
		Description: req.Description,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Exam().Create(ctx, exam); err != nil {
			return fmt.Errorf("failed to create exam: %w", err)
		}
		s.audit.Log(ctx, txRepo, models.AuditExamCreated, "Exam", exam.ID, nil, map[string]interface{}{
			"course_id":  exam.CourseID,
			"name":       exam.Name,
			"max_points": exam.MaxPoints,
			"weight":     exam.Weight,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam created", "exam_id", exam.ID, "course_id", exam.CourseID)
	return exam, nil
}

// Update applies partial changes. Lowering MaxPoints does not touch already
// recorded grades; their stored percentages stay as computed at grading time.
func (s *examService) Update(ctx context.Context, id uint, req *UpdateExamRequest) (*models.Exam, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	changes := map[string]interface{}{}

	if req.Name != nil && *req.Name != exam.Name {
		changes["name"] = map[string]interface{}{"old": exam.Name, "new": *req.Name}
		exam.Name = *req.Name
	}
	if req.ExamDate != nil {
		exam.ExamDate = *req.ExamDate
	}
	if req.MaxPoints != nil && *req.MaxPoints != exam.MaxPoints {
		changes["max_points"] = map[string]interface{}{"old": exam.MaxPoints, "new": *req.MaxPoints}
		exam.MaxPoints = *req.MaxPoints
	}
	if req.Weight != nil && *req.Weight != exam.Weight {
		changes["weight"] = map[string]interface{}{"old": exam.Weight, "new": *req.Weight}
		exam.Weight = *req.Weight
	}
	if req.Description != nil {
		exam.Description = req.Description
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Exam().Update(ctx, exam); err != nil {
			return fmt.Errorf("failed to update exam: %w", err)
		}
		s.audit.Log(ctx, txRepo, models.AuditExamUpdated, "Exam", exam.ID, nil, changes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam updated", "exam_id", exam.ID)
	return exam, nil
}

func (s *examService) Delete(ctx context.Context, id uint) error {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrExamNotFound
		}
		return fmt.Errorf("failed to get exam: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Exam().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete exam: %w", err)
		}
		s.audit.Log(ctx, txRepo, models.AuditExamDeleted, "Exam", id, nil, map[string]interface{}{
			"course_id": exam.CourseID,
			"name":      exam.Name,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Exam deleted", "exam_id", id, "course_id", exam.CourseID)
	return nil
}

func (s *examService) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return exam, nil
}

func (s *examService) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	exams, total, err := s.repo.Exam().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exams: %w", err)
	}
	return exams, total, nil
}
