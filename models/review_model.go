package models

import "github.com/google/uuid"

const (
	ReviewPublished = "published"
	ReviewHidden    = "hidden"
)

type Review struct {
	Base
	LearnerID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"learner_id"`
	TutorID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"tutor_id"`
	CourseID        *uuid.UUID `gorm:"type:uuid;index" json:"course_id"`
	BookingID       *uuid.UUID `gorm:"type:uuid" json:"booking_id"`
	ReviewRequestID *uuid.UUID `gorm:"type:uuid" json:"review_request_id"`
	Rating          int        `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment         string     `gorm:"type:text" json:"comment"`
	Status          string     `gorm:"size:20;not null;default:'published'" json:"status"`

	Learner User `gorm:"foreignKey:LearnerID" json:"learner,omitempty"`
}
