package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/grading-service/internal/cache"
	"github.com/SAP-F-2025/grading-service/internal/grading"
	"github.com/SAP-F-2025/grading-service/internal/models"
	"github.com/SAP-F-2025/grading-service/internal/repositories"
)

// statsCacheTTL bounds staleness of cached statistics; grade writes
// invalidate eagerly, the TTL only covers invalidation failures.
const statsCacheTTL = 10 * time.Minute

type statisticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  cache.CacheService
}

func NewStatisticsService(repo repositories.Repository, logger *slog.Logger, cacheService cache.CacheService) StatisticsService {
	return &statisticsService{
		repo:   repo,
		logger: logger,
		cache:  cacheService,
	}
}

// ExamStatistics computes distributional statistics over the exam-level
// grades of one exam. Component grades are excluded: statistics are per
// scope, never blended across scopes. Returns ErrNoGrades for an empty set
// so callers never see divide-by-zero artifacts.
func (s *statisticsService) ExamStatistics(ctx context.Context, examID uint) (*ExamStatistics, error) {
	if s.cache != nil {
		var cached ExamStatistics
		err := s.cache.Get(ctx, cache.ExamStatsKey(examID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Statistics cache read failed", "exam_id", examID, "error", err)
		}
	}

	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	grades, err := s.repo.Grade().GetExamLevel(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam grades: %w", err)
	}
	if len(grades) == 0 {
		return nil, ErrNoGrades
	}

	stats := computeStatistics(exam, grades)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.ExamStatsKey(examID), stats, statsCacheTTL); err != nil {
			s.logger.Warn("Statistics cache write failed", "exam_id", examID, "error", err)
		}
	}

	s.logger.Info("Exam statistics computed",
		"exam_id", examID,
		"count", stats.Count,
		"pass_rate", stats.PassRate)

	return stats, nil
}

func computeStatistics(exam *models.Exam, grades []*models.Grade) *ExamStatistics {
	stats := &ExamStatistics{
		ExamID:       exam.ID,
		ExamName:     exam.Name,
		Count:        len(grades),
		Distribution: make(map[string]int),
	}

	points := make([]float64, 0, len(grades))
	percentages := make([]float64, 0, len(grades))
	values := make([]float64, 0, len(grades))

	for _, grade := range grades {
		points = append(points, grade.Points)
		percentages = append(percentages, grade.Percentage)
		values = append(values, grade.GradeValue)
		stats.Distribution[grade.GradeLabel]++
		if grading.IsPassing(grade.GradeValue) {
			stats.PassingCount++
		}
	}

	stats.FailingCount = stats.Count - stats.PassingCount
	stats.PassRate = grading.Round1(float64(stats.PassingCount) / float64(stats.Count) * 100)
	stats.Points = summarize(points)
	stats.Percentage = summarize(percentages)
	stats.GradeValues = summarize(values)

	return stats
}

func summarize(values []float64) ValueStats {
	stats := ValueStats{Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		sum += v
	}
	stats.Avg = grading.Round2(sum / float64(len(values)))
	return stats
}
