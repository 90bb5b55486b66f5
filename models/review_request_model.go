package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReviewRequestPending   = "pending"
	ReviewRequestResponded = "responded"
)

type ReviewRequest struct {
	Base
	TutorID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_review_request_pair" json:"tutor_id"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_review_request_pair" json:"student_id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_review_request_pair" json:"course_id"`
	BookingID   *uuid.UUID `gorm:"type:uuid" json:"booking_id"`
	Message     *string    `gorm:"type:text" json:"message"`
	Status      string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	ReviewID    *uuid.UUID `gorm:"type:uuid" json:"review_id"`
	RespondedAt *time.Time `json:"responded_at"`
	RemindedAt  *time.Time `json:"-"`

	Tutor   User   `gorm:"foreignKey:TutorID" json:"tutor,omitempty"`
	Student User   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course  Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
