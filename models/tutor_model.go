package models

import (
	"time"

	"github.com/google/uuid"
)

type Tutor struct {
	UserID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	Headline        *string    `gorm:"size:255" json:"headline"`
	Bio             *string    `gorm:"type:text" json:"bio"`
	HourlyRate      float64    `gorm:"type:numeric(10,2);not null;default:0" json:"hourly_rate"`
	Specialties     []string   `gorm:"type:text;serializer:json" json:"specialties"`
	Availability    []TimeSlot `gorm:"type:text;serializer:json" json:"availability"`
	ExperienceYears int        `gorm:"not null;default:0" json:"experience_years"`
	AvgRating       float64    `gorm:"not null;default:0" json:"avg_rating"`
	TotalReviews    int        `gorm:"not null;default:0" json:"total_reviews"`
	Balance         float64    `gorm:"type:numeric(10,2);not null;default:0" json:"-"`

	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
