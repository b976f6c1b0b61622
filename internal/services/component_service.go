package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"github.com/SAP-F-2025/grading-service/internal/utils"
)

// weightEpsilon absorbs floating-point drift when comparing component weight
// sums against the 100-percent budget. Used on both the create and the
// update path.
const weightEpsilon = 1e-3

type componentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	audit     AuditService
}

func NewComponentService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator, audit AuditService) ComponentService {
	return &componentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		audit:     audit,
	}
}

// Create adds a component to an exam after checking the weight budget.
// Components may be added in any order as long as the running sum never
// exceeds 100.
func (s *componentService) Create(ctx context.Context, req *CreateComponentRequest) (*models.ExamComponent, error) {
	s.logger.Info("Creating exam component", "exam_id", req.ExamID, "name", req.Name, "weight", req.Weight)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Exam().GetByID(ctx, req.ExamID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	if err := s.validateWeight(ctx, req.ExamID, req.Weight, nil); err != nil {
		return nil, err
	}

	component := &models.ExamComponent{
		ExamID:      req.ExamID,
		Name:        req.Name,
		MaxPoints:   req.MaxPoints,
		Weight:      req.Weight,
		Order:       req.Order,
		Description: req.Description,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Component().Create(ctx, component); err != nil {
			return fmt.Errorf("failed to create component: %w", err)
		}
		s.audit.Log(ctx, txRepo, models.AuditComponentCreated, "ExamComponent", component.ID, nil, map[string]interface{}{
			"exam_id":    component.ExamID,
			"name":       component.Name,
			"weight":     component.Weight,
			"max_points": component.MaxPoints,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam component created", "component_id", component.ID, "exam_id", component.ExamID)
	return component, nil
}

// Update applies partial changes. A weight change is validated against the
// budget with the component's own current weight excluded from the sum.
func (s *componentService) Update(ctx context.Context, id uint, req *UpdateComponentRequest) (*models.ExamComponent, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	component, err := s.repo.Component().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrComponentNotFound
		}
		return nil, fmt.Errorf("failed to get component: %w", err)
	}

	changes := map[string]interface{}{}

	if req.Weight != nil && *req.Weight != component.Weight {
		if err := s.validateWeight(ctx, component.ExamID, *req.Weight, &component.ID); err != nil {
			return nil, err
		}
		changes["weight"] = map[string]interface{}{"old": component.Weight, "new": *req.Weight}
		component.Weight = *req.Weight
	}
	if req.Name != nil && *req.Name != component.Name {
		changes["name"] = map[string]interface{}{"old": component.Name, "new": *req.Name}
		component.Name = *req.Name
	}
	if req.MaxPoints != nil && *req.MaxPoints != component.MaxPoints {
		changes["max_points"] = map[string]interface{}{"old": component.MaxPoints, "new": *req.MaxPoints}
		component.MaxPoints = *req.MaxPoints
	}
	if req.Order != nil {
		component.Order = *req.Order
	}
	if req.Description != nil {
		component.Description = req.Description
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Component().Update(ctx, component); err != nil {
			return fmt.Errorf("failed to update component: %w", err)
		}
		s.audit.Log(ctx, txRepo, models.AuditComponentUpdated, "ExamComponent", component.ID, nil, changes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam component updated", "component_id", component.ID)
	return component, nil
}

func (s *componentService) Delete(ctx context.Context, id uint) error {
	component, err := s.repo.Component().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrComponentNotFound
		}
		return fmt.Errorf("failed to get component: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Component().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete component: %w", err)
		}
		s.audit.Log(ctx, txRepo, models.AuditComponentDeleted, "ExamComponent", id, nil, map[string]interface{}{
			"exam_id": component.ExamID,
			"name":    component.Name,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Exam component deleted", "component_id", id, "exam_id", component.ExamID)
	return nil
}

func (s *componentService) ListByExam(ctx context.Context, examID uint) ([]*models.ExamComponent, error) {
	components, err := s.repo.Component().ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	return components, nil
}

// AvailableWeight returns the remaining weight budget of an exam:
// 100 minus the sum of its component weights, optionally excluding one
// component (the record being updated).
func (s *componentService) AvailableWeight(ctx context.Context, examID uint, excludeComponentID *uint) (float64, error) {
	sum, err := s.repo.Component().SumWeights(ctx, examID, excludeComponentID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum component weights: %w", err)
	}
	return 100 - sum, nil
}

func (s *componentService) validateWeight(ctx context.Context, examID uint, proposed float64, excludeID *uint) error {
	available, err := s.AvailableWeight(ctx, examID, excludeID)
	if err != nil {
		return err
	}
	if proposed > available+weightEpsilon {
		return &WeightExceededError{ExamID: examID, Proposed: proposed, Available: available}
	}
	return nil
}
