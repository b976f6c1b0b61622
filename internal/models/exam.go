package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Name         string  `json:"name" gorm:"not null;size:255;index" validate:"required,min=1,max=255"`
	Semester     *string `json:"semester" gorm:"size:50"`
	UniversityID *uint   `json:"university_id" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Exams []Exam `json:"exams,omitempty" gorm:"foreignKey:CourseID"`
}

// Exam is a gradable event within a course. Weight expresses the exam's
// contribution to the course outcome as a percentage (0-100).
type Exam struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CourseID    uint      `json:"course_id" gorm:"not null;index" validate:"required"`
	Name        string    `json:"name" gorm:"not null;size:255" validate:"required,min=1,max=255"`
	ExamDate    time.Time `json:"exam_date" gorm:"not null"`
	MaxPoints   float64   `json:"max_points" gorm:"not null" validate:"required,gt=0"`
	Weight      float64   `json:"weight" gorm:"not null;default:100" validate:"min=0,max=100"`
	Description *string   `json:"description" gorm:"size:500" validate:"omitempty,max=500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course     Course          `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Components []ExamComponent `json:"components,omitempty" gorm:"foreignKey:ExamID"`
}

// ExamComponent is a weighted sub-part of an exam ("written part", "oral part").
// The weights of all components of one exam may never sum above 100.
type ExamComponent struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	ExamID      uint    `json:"exam_id" gorm:"not null;index;uniqueIndex:uq_component_exam_order,priority:1" validate:"required"`
	Name        string  `json:"name" gorm:"not null;size:255" validate:"required,min=1,max=255"`
	MaxPoints   float64 `json:"max_points" gorm:"not null" validate:"required,gt=0"`
	Weight      float64 `json:"weight" gorm:"not null" validate:"gt=0,max=100"`
	Order       int     `json:"order" gorm:"column:display_order;not null;default:1;uniqueIndex:uq_component_exam_order,priority:2"`
	Description *string `json:"description" gorm:"size:500" validate:"omitempty,max=500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Exam Exam `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
}

func (Course) TableName() string {
	return "courses"
}

func (Exam) TableName() string {
	return "exams"
}

func (ExamComponent) TableName() string {
	return "exam_components"
}
