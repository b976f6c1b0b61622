package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"gorm.io/gorm"
)

type GradingScalePostgreSQL struct {
	db *gorm.DB
}

func NewGradingScalePostgreSQL(db *gorm.DB) repositories.GradingScaleRepository {
	return &GradingScalePostgreSQL{db: db}
}

// Create stores the scale together with its thresholds in one transaction.
func (s *GradingScalePostgreSQL) Create(ctx context.Context, scale *models.GradingScale) error {
	return s.db.WithContext(ctx).Create(scale).Error
}

func (s *GradingScalePostgreSQL) GetByID(ctx context.Context, id uint) (*models.GradingScale, error) {
	var scale models.GradingScale
	err := s.db.WithContext(ctx).
		Preload("Thresholds", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_percentage DESC")
		}).
		First(&scale, id).Error
	if err != nil {
		return nil, err
	}
	return &scale, nil
}

func (s *GradingScalePostgreSQL) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scale_id = ?", id).Delete(&models.GradeThreshold{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.GradingScale{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (s *GradingScalePostgreSQL) List(ctx context.Context, filters repositories.ScaleFilters) ([]*models.GradingScale, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.GradingScale{})

	if filters.UniversityID != nil {
		query = query.Where("university_id = ?", *filters.UniversityID)
	}
	if filters.IsDefault != nil {
		query = query.Where("is_default = ?", *filters.IsDefault)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count grading scales: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var scales []*models.GradingScale
	err := query.
		Preload("Thresholds", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_percentage DESC")
		}).
		Order("name ASC").
		Find(&scales).Error
	if err != nil {
		return nil, 0, err
	}
	return scales, total, nil
}

func (s *GradingScalePostgreSQL) GetDefault(ctx context.Context, universityID *uint) (*models.GradingScale, error) {
	query := s.db.WithContext(ctx).Where("is_default = ?", true)

	if universityID != nil {
		query = query.Where("university_id = ?", *universityID)
	} else {
		query = query.Where("university_id IS NULL")
	}

	var scale models.GradingScale
	err := query.
		Preload("Thresholds", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_percentage DESC")
		}).
		First(&scale).Error
	if err != nil {
		return nil, err
	}
	return &scale, nil
}

// ClearDefault unsets the default flag within one scope before a new default
// is stored, so exactly one scale per scope stays marked.
func (s *GradingScalePostgreSQL) ClearDefault(ctx context.Context, universityID *uint) error {
	query := s.db.WithContext(ctx).Model(&models.GradingScale{}).Where("is_default = ?", true)

	if universityID != nil {
		query = query.Where("university_id = ?", *universityID)
	} else {
		query = query.Where("university_id IS NULL")
	}

	return query.Update("is_default", false).Error
}
