package models

import "github.com/google/uuid"

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

type Course struct {
	Base
	TutorID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"tutor_id"`
	CategoryID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Difficulty     string     `gorm:"size:20;not null;default:'beginner'" json:"difficulty"`
	Schedule       []TimeSlot `gorm:"type:text;serializer:json" json:"schedule"`
	TrialRate      float64    `gorm:"type:numeric(10,2);not null;default:0" json:"trial_rate"`
	FullCourseRate float64    `gorm:"type:numeric(10,2);not null;default:0" json:"full_course_rate"`
	Currency       string     `gorm:"size:3;not null;default:'USD'" json:"currency"`
	DurationWeeks  int        `gorm:"not null;default:1" json:"duration_weeks"`
	SessionMinutes int        `gorm:"not null;default:60" json:"session_minutes"`
	MaxStudents    int        `gorm:"not null;default:0" json:"max_students"`
	ThumbnailURL   *string    `gorm:"size:255" json:"thumbnail_url"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`

	Tutor    User           `gorm:"foreignKey:TutorID" json:"tutor,omitempty"`
	Category CourseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
