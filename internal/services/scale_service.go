package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/grading-service/internal/grading"
	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"github.com/SAP-F-2025/grading-service/internal/utils"
)

type scaleService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	audit     AuditService
}

func NewScaleService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator, audit AuditService) ScaleService {
	return &scaleService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		audit:     audit,
	}
}

// Create stores a custom grading scale with its thresholds. Grade values must
// be unique within the scale; ordering of the submitted thresholds is
// irrelevant because resolution sorts by minimum percentage.
func (s *scaleService) Create(ctx context.Context, req *CreateScaleRequest) (*models.GradingScale, error) {
	s.logger.Info("Creating grading scale", "name", req.Name, "university_id", req.UniversityID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	seen := make(map[float64]bool, len(req.Thresholds))
	for _, t := range req.Thresholds {
		if seen[t.GradeValue] {
			return nil, ErrDuplicateGradeValue
		}
		seen[t.GradeValue] = true
	}

	scale := &models.GradingScale{
		Name:         req.Name,
		UniversityID: req.UniversityID,
		IsDefault:    req.IsDefault,
		Description:  req.Description,
		Thresholds:   make([]models.GradeThreshold, 0, len(req.Thresholds)),
	}
	for _, t := range req.Thresholds {
		scale.Thresholds = append(scale.Thresholds, models.GradeThreshold{
			GradeValue:    t.GradeValue,
			GradeLabel:    t.GradeLabel,
			MinPercentage: t.MinPercentage,
			Description:   t.Description,
		})
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if scale.IsDefault {
			// Only one default per scope.
			if err := txRepo.GradingScale().ClearDefault(ctx, scale.UniversityID); err != nil {
				return fmt.Errorf("failed to clear previous default scale: %w", err)
			}
		}
		if err := txRepo.GradingScale().Create(ctx, scale); err != nil {
			return fmt.Errorf("failed to create grading scale: %w", err)
		}
		s.audit.Log(ctx, txRepo, models.AuditScaleCreated, "GradingScale", scale.ID, nil, map[string]interface{}{
			"name":          scale.Name,
			"university_id": scale.UniversityID,
			"is_default":    scale.IsDefault,
			"thresholds":    len(scale.Thresholds),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Grading scale created", "scale_id", scale.ID, "thresholds", len(scale.Thresholds))
	return scale, nil
}

// CreateDefaultScale seeds the built-in German table as the default scale for
// a scope, so installations start with a working configuration.
func (s *scaleService) CreateDefaultScale(ctx context.Context, universityID *uint) (*models.GradingScale, error) {
	req := &CreateScaleRequest{
		Name:         "Deutsche Notenskala",
		UniversityID: universityID,
		IsDefault:    true,
		Thresholds:   make([]CreateThresholdRequest, 0, len(grading.DefaultGermanScale)),
	}
	for _, t := range grading.DefaultGermanScale {
		req.Thresholds = append(req.Thresholds, CreateThresholdRequest{
			GradeValue:    t.GradeValue,
			GradeLabel:    t.GradeLabel,
			MinPercentage: t.MinPercentage,
		})
	}
	return s.Create(ctx, req)
}

func (s *scaleService) GetByID(ctx context.Context, id uint) (*models.GradingScale, error) {
	scale, err := s.repo.GradingScale().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrScaleNotFound
		}
		return nil, fmt.Errorf("failed to get grading scale: %w", err)
	}
	return scale, nil
}

func (s *scaleService) List(ctx context.Context, filters repositories.ScaleFilters) ([]*models.GradingScale, int64, error) {
	scales, total, err := s.repo.GradingScale().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list grading scales: %w", err)
	}
	return scales, total, nil
}

func (s *scaleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GradingScale().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrScaleNotFound
		}
		return fmt.Errorf("failed to get grading scale: %w", err)
	}

	if err := s.repo.GradingScale().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete grading scale: %w", err)
	}

	s.logger.Info("Grading scale deleted", "scale_id", id)
	return nil
}
