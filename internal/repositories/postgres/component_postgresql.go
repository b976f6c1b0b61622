package postgres

import (
	"context"

	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"gorm.io/gorm"
)

type ComponentPostgreSQL struct {
	db *gorm.DB
}

func NewComponentPostgreSQL(db *gorm.DB) repositories.ComponentRepository {
	return &ComponentPostgreSQL{db: db}
}

func (c *ComponentPostgreSQL) Create(ctx context.Context, component *models.ExamComponent) error {
	return c.db.WithContext(ctx).Create(component).Error
}

func (c *ComponentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.ExamComponent, error) {
	var component models.ExamComponent
	if err := c.db.WithContext(ctx).First(&component, id).Error; err != nil {
		return nil, err
	}
	return &component, nil
}

func (c *ComponentPostgreSQL) Update(ctx context.Context, component *models.ExamComponent) error {
	return c.db.WithContext(ctx).Save(component).Error
}

func (c *ComponentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&models.ExamComponent{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *ComponentPostgreSQL) ListByExam(ctx context.Context, examID uint) ([]*models.ExamComponent, error) {
	var components []*models.ExamComponent
	err := c.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("display_order ASC").
		Find(&components).Error
	if err != nil {
		return nil, err
	}
	return components, nil
}

func (c *ComponentPostgreSQL) SumWeights(ctx context.Context, examID uint, excludeID *uint) (float64, error) {
	query := c.db.WithContext(ctx).Model(&models.ExamComponent{}).
		Where("exam_id = ?", examID)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var sum float64
	err := query.Select("COALESCE(SUM(weight), 0)").Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}
