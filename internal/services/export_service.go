package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	stats  StatisticsService
	audit  AuditService
}

func NewExportService(repo repositories.Repository, logger *slog.Logger, stats StatisticsService, audit AuditService) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
		stats:  stats,
		audit:  audit,
	}
}

// ExportExamGrades renders all grades of an exam as an xlsx workbook: one
// sheet with the grade rows, one with the exam statistics. The statistics
// sheet is skipped when the exam has no exam-level grades.
func (s *exportService) ExportExamGrades(ctx context.Context, examID uint) ([]byte, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	grades, _, err := s.repo.Grade().List(ctx, repositories.GradeFilters{
		ExamID:    &examID,
		SortBy:    "grade_value",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Grades"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Student", "Matricula Number", "Component", "Points", "Percentage",
		"Grade", "Label", "Final", "Graded At", "Graded By",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, grade := range grades {
		row := s.gradeToRow(grade)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	if err := s.writeStatisticsSheet(ctx, f, exam); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.audit.Log(ctx, s.repo, models.AuditDataExported, "Exam", examID, nil, map[string]interface{}{
		"format": "xlsx",
		"rows":   len(grades),
	})

	s.logger.Info("Exam grades exported", "exam_id", examID, "rows", len(grades))
	return buf.Bytes(), nil
}

func (s *exportService) writeStatisticsSheet(ctx context.Context, f *excelize.File, exam *models.Exam) error {
	stats, err := s.stats.ExamStatistics(ctx, exam.ID)
	if err != nil {
		if IsEmptyResult(err) {
			return nil
		}
		return fmt.Errorf("failed to compute exam statistics: %w", err)
	}

	sheetName := "Statistics"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Exam", stats.ExamName},
		{"Graded", stats.Count},
		{"Passing", stats.PassingCount},
		{"Failing", stats.FailingCount},
		{"Pass Rate (%)", stats.PassRate},
		{},
		{"", "Min", "Max", "Avg"},
		{"Points", stats.Points.Min, stats.Points.Max, stats.Points.Avg},
		{"Percentage", stats.Percentage.Min, stats.Percentage.Max, stats.Percentage.Avg},
		{"Grade Value", stats.GradeValues.Min, stats.GradeValues.Max, stats.GradeValues.Avg},
	}
	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+1)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	return nil
}

func (s *exportService) gradeToRow(grade *models.Grade) []interface{} {
	student := ""
	matricula := ""
	if grade.Enrollment.Student.ID != 0 {
		student = fmt.Sprintf("%s, %s", grade.Enrollment.Student.LastName, grade.Enrollment.Student.FirstName)
		matricula = grade.Enrollment.Student.MatriculaNum
	}

	component := ""
	if grade.Component != nil {
		component = grade.Component.Name
	}

	gradedBy := ""
	if grade.GradedBy != nil {
		gradedBy = *grade.GradedBy
	}

	final := "No"
	if grade.IsFinal {
		final = "Yes"
	}

	return []interface{}{
		student,
		matricula,
		component,
		grade.Points,
		grade.Percentage,
		grade.GradeValue,
		grade.GradeLabel,
		final,
		grade.GradedAt.Format("2006-01-02 15:04:05"),
		gradedBy,
	}
}
