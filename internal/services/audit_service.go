package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"gorm.io/datatypes"
)

type auditService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAuditService(repo repositories.Repository, logger *slog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger,
	}
}

// Log writes an audit entry through the given repository, which is the
// caller's transaction when invoked inside WithTransaction. Failures are
// logged and swallowed: a grade mutation must not roll back because its
// audit entry could not be serialized.
func (s *auditService) Log(ctx context.Context, repo repositories.Repository, action models.AuditAction, targetType string, targetID uint, actor *string, details map[string]interface{}) {
	entry := &models.AuditLog{
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Actor:      actor,
	}

	if len(details) > 0 {
		data, err := json.Marshal(details)
		if err != nil {
			s.logger.Error("Failed to marshal audit details", "action", action, "target_type", targetType, "target_id", targetID, "error", err)
		} else {
			entry.Details = datatypes.JSON(data)
		}
	}

	if err := repo.AuditLog().Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write audit entry", "action", action, "target_type", targetType, "target_id", targetID, "error", err)
	}
}

func (s *auditService) History(ctx context.Context, targetType string, targetID uint) ([]*models.AuditLog, error) {
	entries, err := s.repo.AuditLog().ListByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
