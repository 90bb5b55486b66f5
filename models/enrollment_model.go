package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EnrollmentPendingPayment = "pending_payment"
	EnrollmentActive         = "active"
	EnrollmentCompleted      = "completed"
	EnrollmentCancelled      = "cancelled"
)

type Enrollment struct {
	Base
	LearnerID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_learner_course" json:"learner_id"`
	CourseID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_learner_course" json:"course_id"`
	Status         string     `gorm:"size:20;not null;default:'pending_payment'" json:"status"`
	Progress       int        `gorm:"not null;default:0" json:"progress"`
	HoursCompleted float64    `gorm:"not null;default:0" json:"hours_completed"`
	CompletedAt    *time.Time `json:"completed_at"`
	CertificateURL *string    `gorm:"type:text" json:"certificate_url"`

	Learner User   `gorm:"foreignKey:LearnerID" json:"learner,omitempty"`
	Course  Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
