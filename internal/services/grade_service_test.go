package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/grading-service/internal/events"
	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newGradeServiceForTest(repo *MockRepository, publisher events.Publisher) GradeService {
	logger := utils.NewDevelopmentLogger()
	audit := NewAuditService(repo, logger)
	return NewGradeService(repo, logger, utils.NewValidator(), publisher, nil, audit)
}

func TestGradeService_Record(t *testing.T) {
	ctx := context.Background()

	exam := &models.Exam{
		ID:        1,
		CourseID:  1,
		Name:      "Klausur 1",
		MaxPoints: 100,
		Weight:    100,
	}

	t.Run("exam-level grade derives percentage and grade", func(t *testing.T) {
		repo := NewMockRepository()
		publisher := events.NewMockPublisher()
		service := newGradeServiceForTest(repo, publisher)

		repo.EnrollmentRepo.On("GetByID", ctx, uint(1)).Return(&models.Enrollment{ID: 1}, nil)
		repo.ExamRepo.On("GetByIDWithCourse", ctx, uint(1)).Return(exam, nil)
		repo.GradeRepo.On("Exists", ctx, uint(1), uint(1), (*uint)(nil)).Return(false, nil)
		repo.ScaleRepo.On("GetDefault", ctx, (*uint)(nil)).Return(nil, gorm.ErrRecordNotFound)
		repo.GradeRepo.On("Create", ctx, mock.AnythingOfType("*models.Grade")).Return(nil)
		repo.AuditRepo.On("Create", ctx, mock.AnythingOfType("*models.AuditLog")).Return(nil)

		grade, err := service.Record(ctx, &RecordGradeRequest{
			EnrollmentID: 1,
			ExamID:       1,
			Points:       95,
			IsFinal:      true,
		})

		assert.NoError(t, err)
		assert.Equal(t, 95.0, grade.Percentage)
		assert.Equal(t, 1.0, grade.GradeValue)
		assert.Equal(t, "sehr gut", grade.GradeLabel)
		assert.True(t, grade.IsFinal)
		assert.False(t, grade.GradedAt.IsZero())

		assert.Len(t, publisher.Events, 1)
		assert.Equal(t, events.GradeRecorded, publisher.Events[0].Type)
		repo.AssertExpectations(t)
	})

	t.Run("half points on odd maximum", func(t *testing.T) {
		repo := NewMockRepository()
		service := newGradeServiceForTest(repo, events.NewMockPublisher())

		oddExam := &models.Exam{ID: 2, CourseID: 1, Name: "Klausur 2", MaxPoints: 90, Weight: 100}
		repo.EnrollmentRepo.On("GetByID", ctx, uint(1)).Return(&models.Enrollment{ID: 1}, nil)
		repo.ExamRepo.On("GetByIDWithCourse", ctx, uint(2)).Return(oddExam, nil)
		repo.GradeRepo.On("Exists", ctx, uint(1), uint(2), (*uint)(nil)).Return(false, nil)
		repo.ScaleRepo.On("GetDefault", ctx, (*uint)(nil)).Return(nil, gorm.ErrRecordNotFound)
		repo.GradeRepo.On("Create", ctx, mock.AnythingOfType("*models.Grade")).Return(nil)
		repo.AuditRepo.On("Create", ctx, mock.AnythingOfType("*models.AuditLog")).Return(nil)

		grade, err := service.Record(ctx, &RecordGradeRequest{
			EnrollmentID: 1,
			ExamID:       2,
			Points:       45,
		})

		assert.NoError(t, err)
		assert.Equal(t, 50.0, grade.Percentage)
		assert.Equal(t, 4.0, grade.GradeValue)
		assert.Equal(t, "ausreichend", grade.GradeLabel)
	})

	t.Run("component grade validates against component maximum", func(t *testing.T) {
		repo := NewMockRepository()
		service := newGradeServiceForTest(repo, events.NewMockPublisher())

		componentID := uint(10)
		component := &models.ExamComponent{ID: 10, ExamID: 1, Name: "Schriftlich", MaxPoints: 60, Weight: 60}

		repo.EnrollmentRepo.On("GetByID", ctx, uint(1)).Return(&models.Enrollment{ID: 1}, nil)
		repo.ExamRepo.On("GetByIDWithCourse", ctx, uint(1)).Return(exam, nil)
		repo.ComponentRepo.On("GetByID", ctx, uint(10)).Return(component, nil)

		_, err := service.Record(ctx, &RecordGradeRequest{
			EnrollmentID: 1,
			ExamID:       1,
			ComponentID:  &componentID,
			Points:       70, // above the component's 60
		})

		var pointsErr *PointsOutOfRangeError
		assert.ErrorAs(t, err, &pointsErr)
		assert.Equal(t, 60.0, pointsErr.MaxPoints)
	})

	t.Run("component of another exam is rejected", func(t *testing.T) {
		repo := NewMockRepository()
		service := newGradeServiceForTest(repo, events.NewMockPublisher())

		componentID := uint(11)
		foreign := &models.ExamComponent{ID: 11, ExamID: 99, Name: "Fremd", MaxPoints: 60, Weight: 60}

		repo.EnrollmentRepo.On("GetByID", ctx, uint(1)).Return(&models.Enrollment{ID: 1}, nil)
		repo.ExamRepo.On("GetByIDWithCourse", ctx, uint(1)).Return(exam, nil)
		repo.ComponentRepo.On("GetByID", ctx, uint(11)).Return(foreign, nil)

		_, err := service.Record(ctx, &RecordGradeRequest{
			EnrollmentID: 1,
			ExamID:       1,
			ComponentID:  &componentID,
			Points:       30,
		})

		var mismatchErr *ComponentMismatchError
		assert.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, uint(11), mismatchErr.ComponentID)
	})

	t.Run("duplicate slot is rejected", func(t *testing.T) {
		repo := NewMockRepository()
		service := newGradeServiceForTest(repo, events.NewMockPublisher())

		repo.EnrollmentRepo.On("GetByID", ctx, uint(1)).Return(&models.Enrollment{ID: 1}, nil)
		repo.ExamRepo.On("GetByIDWithCourse", ctx, uint(1)).Return(exam, nil)
		repo.GradeRepo.On("Exists", ctx, uint(1), uint(1), (*uint)(nil)).Return(true, nil)

		_, err := service.Record(ctx, &RecordGradeRequest{
			EnrollmentID: 1,
			ExamID:       1,
			Points:       50,
		})

		assert.ErrorIs(t, err, ErrDuplicateGrade)
		assert.True(t, IsConflict(err))
	})

	t.Run("lost insert race surfaces as duplicate", func(t *testing.T) {
		repo := NewMockRepository()
		service := newGradeServiceForTest(repo, events.NewMockPublisher())

		repo.EnrollmentRepo.On("GetByID", ctx, uint(1)).Return(&models.Enrollment{ID: 1}, nil)
		repo.ExamRepo.On("GetByIDWithCourse", ctx, uint(1)).Return(exam, nil)
		repo.GradeRepo.On("Exists", ctx, uint(1), uint(1), (*uint)(nil)).Return(false, nil)
		repo.ScaleRepo.On("GetDefault", ctx, (*uint)(nil)).Return(nil, gorm.ErrRecordNotFound)
		repo.GradeRepo.On("Create", ctx, mock.AnythingOfType("*models.Grade")).Return(gorm.ErrDuplicatedKey)

		_, err := service.Record(ctx, &RecordGradeRequest{
			EnrollmentID: 1,
			ExamID:       1,
			Points:       50,
		})

		assert.ErrorIs(t, err, ErrDuplicateGrade)
	})

	t.Run("unknown enrollment", func(t *testing.T) {
		repo := NewMockRepository()
		service := newGradeServiceForTest(repo, events.NewMockPublisher())

		repo.EnrollmentRepo.On("GetByID", ctx, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.Record(ctx, &RecordGradeRequest{
			EnrollmentID: 404,
			ExamID:       1,
			Points:       50,
		})

		assert.ErrorIs(t, err, ErrEnrollmentNotFound)
	})

	t.Run("custom university scale wins", func(t *testing.T) {
		repo := NewMockRepository()
		service := newGradeServiceForTest(repo, events.NewMockPublisher())

		universityID := uint(7)
		scopedExam := &models.Exam{
			ID:        3,
			CourseID:  1,
			Name:      "Klausur 3",
			MaxPoints: 100,
			Weight:    100,
			Course:    models.Course{ID: 1, Name: "Mathe", UniversityID: &universityID},
		}
		passFail := &models.GradingScale{
			ID:   5,
			Name: "pass/fail",
			Thresholds: []models.GradeThreshold{
				{GradeValue: 1.0, GradeLabel: "bestanden", MinPercentage: 60},
				{GradeValue: 5.0, GradeLabel: "nicht bestanden", MinPercentage: 0},
			},
		}

		repo.EnrollmentRepo.On("GetByID", ctx, uint(1)).Return(&models.Enrollment{ID: 1}, nil)
		repo.ExamRepo.On("GetByIDWithCourse", ctx, uint(3)).Return(scopedExam, nil)
		repo.GradeRepo.On("Exists", ctx, uint(1), uint(3), (*uint)(nil)).Return(false, nil)
		repo.ScaleRepo.On("GetDefault", ctx, &universityID).Return(passFail, nil)
		repo.GradeRepo.On("Create", ctx, mock.AnythingOfType("*models.Grade")).Return(nil)
		repo.AuditRepo.On("Create", ctx, mock.AnythingOfType("*models.AuditLog")).Return(nil)

		grade, err := service.Record(ctx, &RecordGradeRequest{
			EnrollmentID: 1,
			ExamID:       3,
			Points:       65,
		})

		assert.NoError(t, err)
		assert.Equal(t, 1.0, grade.GradeValue)
		assert.Equal(t, "bestanden", grade.GradeLabel)
	})
}

func TestGradeService_Update(t *testing.T) {
	ctx := context.Background()

	exam := &models.Exam{ID: 1, CourseID: 1, Name: "Klausur 1", MaxPoints: 100, Weight: 100}

	t.Run("points change recomputes derived fields", func(t *testing.T) {
		repo := NewMockRepository()
		publisher := events.NewMockPublisher()
		service := newGradeServiceForTest(repo, publisher)

		stored := &models.Grade{
			ID:           1,
			EnrollmentID: 1,
			ExamID:       1,
			Points:       50,
			Percentage:   50,
			GradeValue:   4.0,
			GradeLabel:   "ausreichend",
		}

		repo.GradeRepo.On("GetByID", ctx, uint(1)).Return(stored, nil)
		repo.ExamRepo.On("GetByIDWithCourse", ctx, uint(1)).Return(exam, nil)
		repo.ScaleRepo.On("GetDefault", ctx, (*uint)(nil)).Return(nil, gorm.ErrRecordNotFound)
		repo.GradeRepo.On("Update", ctx, mock.AnythingOfType("*models.Grade")).Return(nil)
		repo.AuditRepo.On("Create", ctx, mock.AnythingOfType("*models.AuditLog")).Return(nil)

		points := 92.0
		grade, err := service.Update(ctx, 1, &UpdateGradeRequest{Points: &points})

		assert.NoError(t, err)
		assert.Equal(t, 92.0, grade.Points)
		assert.Equal(t, 92.0, grade.Percentage)
		assert.Equal(t, 1.3, grade.GradeValue)
		assert.Equal(t, "sehr gut", grade.GradeLabel)
		assert.Len(t, publisher.Events, 1)
		assert.Equal(t, events.GradeUpdated, publisher.Events[0].Type)
	})

	t.Run("notes-only change leaves derived fields alone", func(t *testing.T) {
		repo := NewMockRepository()
		service := newGradeServiceForTest(repo, events.NewMockPublisher())

		stored := &models.Grade{
			ID:           1,
			EnrollmentID: 1,
			ExamID:       1,
			Points:       50,
			Percentage:   50,
			GradeValue:   4.0,
			GradeLabel:   "ausreichend",
		}

		repo.GradeRepo.On("GetByID", ctx, uint(1)).Return(stored, nil)
		repo.GradeRepo.On("Update", ctx, mock.AnythingOfType("*models.Grade")).Return(nil)
		repo.AuditRepo.On("Create", ctx, mock.AnythingOfType("*models.AuditLog")).Return(nil)

		notes := "Nachkorrektur folgt"
		grade, err := service.Update(ctx, 1, &UpdateGradeRequest{Notes: &notes})

		assert.NoError(t, err)
		assert.Equal(t, 4.0, grade.GradeValue)
		assert.Equal(t, "ausreichend", grade.GradeLabel)
		assert.Equal(t, &notes, grade.Notes)
		repo.ExamRepo.AssertNotCalled(t, "GetByIDWithCourse", ctx, mock.Anything)
	})

	t.Run("unknown grade", func(t *testing.T) {
		repo := NewMockRepository()
		service := newGradeServiceForTest(repo, events.NewMockPublisher())

		repo.GradeRepo.On("GetByID", ctx, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.Update(ctx, 404, &UpdateGradeRequest{})
		assert.ErrorIs(t, err, ErrGradeNotFound)
	})
}

func TestGradeService_Delete(t *testing.T) {
	ctx := context.Background()

	repo := NewMockRepository()
	publisher := events.NewMockPublisher()
	service := newGradeServiceForTest(repo, publisher)

	stored := &models.Grade{ID: 1, EnrollmentID: 1, ExamID: 1, Points: 50}

	repo.GradeRepo.On("GetByID", ctx, uint(1)).Return(stored, nil)
	repo.GradeRepo.On("Delete", ctx, uint(1)).Return(nil)
	repo.AuditRepo.On("Create", ctx, mock.AnythingOfType("*models.AuditLog")).Return(nil)

	err := service.Delete(ctx, 1)

	assert.NoError(t, err)
	assert.Len(t, publisher.Events, 1)
	assert.Equal(t, events.GradeDeleted, publisher.Events[0].Type)
	repo.AssertExpectations(t)
}
