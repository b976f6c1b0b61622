package models

import (
	"time"

	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

type Student struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	FirstName    string `json:"first_name" gorm:"not null;size:100" validate:"required,max=100"`
	LastName     string `json:"last_name" gorm:"not null;size:100" validate:"required,max=100"`
	MatriculaNum string `json:"matricula_number" gorm:"size:20;uniqueIndex"`
	Email        string `json:"email" gorm:"size:255" validate:"omitempty,email"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Enrollment links a student to a course. Grades hang off the enrollment, not
// off the student directly, so re-taking a course keeps grade sets apart.
type Enrollment struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	StudentID        uint             `json:"student_id" gorm:"not null;index;uniqueIndex:uq_enrollment_student_course,priority:1" validate:"required"`
	CourseID         uint             `json:"course_id" gorm:"not null;index;uniqueIndex:uq_enrollment_student_course,priority:2" validate:"required"`
	EnrolledAt       time.Time        `json:"enrolled_at" gorm:"not null"`
	UnenrolledAt     *time.Time       `json:"unenrolled_at"`
	Status           EnrollmentStatus `json:"status" gorm:"not null;default:active;index" validate:"omitempty,oneof=active completed dropped"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  Course  `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Student) TableName() string {
	return "students"
}

func (Enrollment) TableName() string {
	return "enrollments"
}
