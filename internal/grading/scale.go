// Package grading holds the pure scale-resolution core: percentage math and
// threshold lookup. It has no store access and no side effects; the services
// layer feeds it data and persists the results.
package grading

import (
	"math"
	"sort"

	"github.com/SAP-F-2025/grading-service/internal/models"
)

// Threshold is one resolved scale entry.
type Threshold struct {
	GradeValue    float64
	GradeLabel    string
	MinPercentage float64
}

// DefaultGermanScale is the built-in grading table (1.0 best, 5.0 worst),
// ordered by descending minimum percentage. Callers must treat it as
// read-only; Resolve copies before sorting so shared state never mutates.
var DefaultGermanScale = []Threshold{
	{GradeValue: 1.0, GradeLabel: "sehr gut", MinPercentage: 95},
	{GradeValue: 1.3, GradeLabel: "sehr gut", MinPercentage: 90},
	{GradeValue: 1.7, GradeLabel: "gut", MinPercentage: 85},
	{GradeValue: 2.0, GradeLabel: "gut", MinPercentage: 80},
	{GradeValue: 2.3, GradeLabel: "gut", MinPercentage: 75},
	{GradeValue: 2.7, GradeLabel: "befriedigend", MinPercentage: 70},
	{GradeValue: 3.0, GradeLabel: "befriedigend", MinPercentage: 65},
	{GradeValue: 3.3, GradeLabel: "befriedigend", MinPercentage: 60},
	{GradeValue: 3.7, GradeLabel: "ausreichend", MinPercentage: 55},
	{GradeValue: 4.0, GradeLabel: "ausreichend", MinPercentage: 50},
	{GradeValue: 5.0, GradeLabel: "nicht ausreichend", MinPercentage: 0},
}

// WorstGradeValue and WorstGradeLabel are the documented fallback when a
// malformed scale has no threshold at or below the given percentage.
const (
	WorstGradeValue = 5.0
	WorstGradeLabel = "nicht ausreichend"
)

// PassingGradeValue is the inclusive pass bound: a numeric grade value of at
// most 4.0 counts as passing. The bound is fixed even under custom scales
// because passing is defined on the numeric value, not the label.
const PassingGradeValue = 4.0

// CalculatePercentage converts achieved points into a percentage rounded to
// two decimals. A non-positive maximum yields 0.0 instead of dividing by zero.
func CalculatePercentage(points, maxPoints float64) float64 {
	if maxPoints <= 0 {
		return 0.0
	}
	return Round2(points / maxPoints * 100)
}

// ValidatePoints reports whether points lie in [0, maxPoints].
func ValidatePoints(points, maxPoints float64) bool {
	return points >= 0 && points <= maxPoints
}

// Resolve maps a percentage to a grade value and label. Thresholds are scanned
// from the highest minimum percentage downward and the first entry whose
// minimum is at or below the percentage wins. The slice is copied and sorted
// descending before the scan, so unordered caller data resolves correctly.
func Resolve(percentage float64, thresholds []Threshold) (float64, string) {
	if len(thresholds) == 0 {
		thresholds = DefaultGermanScale
	}

	sorted := make([]Threshold, len(thresholds))
	copy(sorted, thresholds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinPercentage > sorted[j].MinPercentage
	})

	for _, t := range sorted {
		if percentage >= t.MinPercentage {
			return t.GradeValue, t.GradeLabel
		}
	}
	return WorstGradeValue, WorstGradeLabel
}

// ResolveScale resolves against a stored scale, falling back to the built-in
// table when the scale is nil or has no thresholds.
func ResolveScale(percentage float64, scale *models.GradingScale) (float64, string) {
	if scale == nil || len(scale.Thresholds) == 0 {
		return Resolve(percentage, DefaultGermanScale)
	}

	thresholds := make([]Threshold, 0, len(scale.Thresholds))
	for _, t := range scale.Thresholds {
		thresholds = append(thresholds, Threshold{
			GradeValue:    t.GradeValue,
			GradeLabel:    t.GradeLabel,
			MinPercentage: t.MinPercentage,
		})
	}
	return Resolve(percentage, thresholds)
}

// IsPassing reports whether a numeric grade value counts as passed.
func IsPassing(gradeValue float64) bool {
	return gradeValue <= PassingGradeValue
}

// ApproximateLabel maps an aggregated grade value back to a label by inverting
// the default table's value-to-percentage relation (value 1.0 ~ 100%, each
// grade step ~ 25% / 4). The inversion is approximate and only meant for
// display next to a weighted average.
func ApproximateLabel(gradeValue float64) string {
	_, label := Resolve(100-((gradeValue-1)*25), DefaultGermanScale)
	return label
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
