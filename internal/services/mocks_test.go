package services

import (
	"context"

	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockRepository aggregates the per-entity mocks and runs WithTransaction
// callbacks against itself, so transactional paths are exercised without a
// database.
type MockRepository struct {
	mock.Mock
	ExamRepo       *MockExamRepository
	ComponentRepo  *MockComponentRepository
	GradeRepo      *MockGradeRepository
	ScaleRepo      *MockGradingScaleRepository
	EnrollmentRepo *MockEnrollmentRepository
	AuditRepo      *MockAuditLogRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		ExamRepo:       new(MockExamRepository),
		ComponentRepo:  new(MockComponentRepository),
		GradeRepo:      new(MockGradeRepository),
		ScaleRepo:      new(MockGradingScaleRepository),
		EnrollmentRepo: new(MockEnrollmentRepository),
		AuditRepo:      new(MockAuditLogRepository),
	}
}

func (m *MockRepository) Exam() repositories.ExamRepository               { return m.ExamRepo }
func (m *MockRepository) Component() repositories.ComponentRepository     { return m.ComponentRepo }
func (m *MockRepository) Grade() repositories.GradeRepository             { return m.GradeRepo }
func (m *MockRepository) GradingScale() repositories.GradingScaleRepository {
	return m.ScaleRepo
}
func (m *MockRepository) Enrollment() repositories.EnrollmentRepository { return m.EnrollmentRepo }
func (m *MockRepository) AuditLog() repositories.AuditLogRepository     { return m.AuditRepo }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

func (m *MockRepository) AssertExpectations(t mock.TestingT) {
	m.ExamRepo.AssertExpectations(t)
	m.ComponentRepo.AssertExpectations(t)
	m.GradeRepo.AssertExpectations(t)
	m.ScaleRepo.AssertExpectations(t)
	m.EnrollmentRepo.AssertExpectations(t)
	m.AuditRepo.AssertExpectations(t)
}

// ===== EXAM =====

type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetByIDWithCourse(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetCourse(ctx context.Context, courseID uint) (*models.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExamRepository) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Exam), args.Get(1).(int64), args.Error(2)
}

// ===== COMPONENT =====

type MockComponentRepository struct {
	mock.Mock
}

func (m *MockComponentRepository) Create(ctx context.Context, component *models.ExamComponent) error {
	args := m.Called(ctx, component)
	return args.Error(0)
}

func (m *MockComponentRepository) GetByID(ctx context.Context, id uint) (*models.ExamComponent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamComponent), args.Error(1)
}

func (m *MockComponentRepository) Update(ctx context.Context, component *models.ExamComponent) error {
	args := m.Called(ctx, component)
	return args.Error(0)
}

func (m *MockComponentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockComponentRepository) ListByExam(ctx context.Context, examID uint) ([]*models.ExamComponent, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExamComponent), args.Error(1)
}

func (m *MockComponentRepository) SumWeights(ctx context.Context, examID uint, excludeID *uint) (float64, error) {
	args := m.Called(ctx, examID, excludeID)
	return args.Get(0).(float64), args.Error(1)
}

// ===== GRADE =====

type MockGradeRepository struct {
	mock.Mock
}

func (m *MockGradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	args := m.Called(ctx, grade)
	return args.Error(0)
}

func (m *MockGradeRepository) GetByID(ctx context.Context, id uint) (*models.Grade, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Grade), args.Error(1)
}

func (m *MockGradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	args := m.Called(ctx, grade)
	return args.Error(0)
}

func (m *MockGradeRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGradeRepository) List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Grade, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Grade), args.Get(1).(int64), args.Error(2)
}

func (m *MockGradeRepository) Exists(ctx context.Context, enrollmentID, examID uint, componentID *uint) (bool, error) {
	args := m.Called(ctx, enrollmentID, examID, componentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGradeRepository) GetFinalForEnrollment(ctx context.Context, enrollmentID uint, courseID *uint) ([]*models.Grade, error) {
	args := m.Called(ctx, enrollmentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Grade), args.Error(1)
}

func (m *MockGradeRepository) GetExamLevel(ctx context.Context, examID uint) ([]*models.Grade, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Grade), args.Error(1)
}

// ===== GRADING SCALE =====

type MockGradingScaleRepository struct {
	mock.Mock
}

func (m *MockGradingScaleRepository) Create(ctx context.Context, scale *models.GradingScale) error {
	args := m.Called(ctx, scale)
	return args.Error(0)
}

func (m *MockGradingScaleRepository) GetByID(ctx context.Context, id uint) (*models.GradingScale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GradingScale), args.Error(1)
}

func (m *MockGradingScaleRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGradingScaleRepository) List(ctx context.Context, filters repositories.ScaleFilters) ([]*models.GradingScale, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.GradingScale), args.Get(1).(int64), args.Error(2)
}

func (m *MockGradingScaleRepository) GetDefault(ctx context.Context, universityID *uint) (*models.GradingScale, error) {
	args := m.Called(ctx, universityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GradingScale), args.Error(1)
}

func (m *MockGradingScaleRepository) ClearDefault(ctx context.Context, universityID *uint) error {
	args := m.Called(ctx, universityID)
	return args.Error(0)
}

// ===== ENROLLMENT =====

type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) GetByIDWithStudent(ctx context.Context, id uint) (*models.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

// ===== AUDIT LOG =====

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListByTarget(ctx context.Context, targetType string, targetID uint) ([]*models.AuditLog, error) {
	args := m.Called(ctx, targetType, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}
