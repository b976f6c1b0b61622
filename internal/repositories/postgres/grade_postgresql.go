package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"gorm.io/gorm"
)

type GradePostgreSQL struct {
	db *gorm.DB
}

func NewGradePostgreSQL(db *gorm.DB) repositories.GradeRepository {
	return &GradePostgreSQL{db: db}
}

func (g *GradePostgreSQL) Create(ctx context.Context, grade *models.Grade) error {
	return g.db.WithContext(ctx).Create(grade).Error
}

func (g *GradePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Grade, error) {
	var grade models.Grade
	err := g.db.WithContext(ctx).
		Preload("Exam").
		Preload("Component").
		First(&grade, id).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (g *GradePostgreSQL) Update(ctx context.Context, grade *models.Grade) error {
	return g.db.WithContext(ctx).Save(grade).Error
}

func (g *GradePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := g.db.WithContext(ctx).Delete(&models.Grade{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (g *GradePostgreSQL) List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Grade, int64, error) {
	query := g.db.WithContext(ctx).Model(&models.Grade{})

	if filters.EnrollmentID != nil {
		query = query.Where("grades.enrollment_id = ?", *filters.EnrollmentID)
	}
	if filters.ExamID != nil {
		query = query.Where("grades.exam_id = ?", *filters.ExamID)
	}
	if filters.CourseID != nil {
		query = query.Joins("JOIN exams ON exams.id = grades.exam_id").
			Where("exams.course_id = ?", *filters.CourseID)
	}
	if filters.IsFinal != nil {
		query = query.Where("grades.is_final = ?", *filters.IsFinal)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count grades: %w", err)
	}

	query = query.Order(buildGradeOrder(filters))
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var grades []*models.Grade
	if err := query.Preload("Enrollment.Student").Preload("Exam").Preload("Component").Find(&grades).Error; err != nil {
		return nil, 0, err
	}
	return grades, total, nil
}

func (g *GradePostgreSQL) Exists(ctx context.Context, enrollmentID, examID uint, componentID *uint) (bool, error) {
	query := g.db.WithContext(ctx).Model(&models.Grade{}).
		Where("enrollment_id = ? AND exam_id = ?", enrollmentID, examID)

	if componentID != nil {
		query = query.Where("component_id = ?", *componentID)
	} else {
		query = query.Where("component_id IS NULL")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *GradePostgreSQL) GetFinalForEnrollment(ctx context.Context, enrollmentID uint, courseID *uint) ([]*models.Grade, error) {
	query := g.db.WithContext(ctx).Model(&models.Grade{}).
		Where("grades.enrollment_id = ? AND grades.is_final = ?", enrollmentID, true)

	if courseID != nil {
		query = query.Joins("JOIN exams ON exams.id = grades.exam_id").
			Where("exams.course_id = ?", *courseID)
	}

	var grades []*models.Grade
	err := query.
		Preload("Exam").
		Preload("Component").
		Order("grades.exam_id ASC, grades.component_id ASC").
		Find(&grades).Error
	if err != nil {
		return nil, err
	}
	return grades, nil
}

func (g *GradePostgreSQL) GetExamLevel(ctx context.Context, examID uint) ([]*models.Grade, error) {
	var grades []*models.Grade
	err := g.db.WithContext(ctx).
		Where("exam_id = ? AND component_id IS NULL", examID).
		Order("graded_at DESC").
		Find(&grades).Error
	if err != nil {
		return nil, err
	}
	return grades, nil
}

func buildGradeOrder(filters repositories.GradeFilters) string {
	column := "graded_at"
	switch filters.SortBy {
	case "points":
		column = "points"
	case "grade_value":
		column = "grade_value"
	}

	direction := "DESC"
	if filters.SortOrder == "asc" {
		direction = "ASC"
	}
	return fmt.Sprintf("grades.%s %s", column, direction)
}
