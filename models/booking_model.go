package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingPending   = "pending"
	BookingAccepted  = "accepted"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"

	BookingTypeTrial   = "trial"
	BookingTypeSession = "session"
)

type Booking struct {
	Base
	LearnerID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"learner_id"`
	TutorID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"tutor_id"`
	CourseID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	SessionDate     time.Time  `gorm:"not null;index" json:"session_date"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	BookingType     string     `gorm:"size:20;not null;default:'session'" json:"booking_type"`
	Status          string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	Price           float64    `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency        string     `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Notes           *string    `gorm:"type:text" json:"notes"`
	MeetingLink     *string    `gorm:"size:255" json:"meeting_link"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason"`
	ReminderSentAt  *time.Time `json:"-"`

	Learner User   `gorm:"foreignKey:LearnerID" json:"learner,omitempty"`
	Tutor   User   `gorm:"foreignKey:TutorID" json:"tutor,omitempty"`
	Course  Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// EndsAt is the end of the session.
func (b Booking) EndsAt() time.Time {
	return b.SessionDate.Add(time.Duration(b.DurationMinutes) * time.Minute)
}
