package models

import "github.com/google/uuid"

type Resource struct {
	Base
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	FileName string    `gorm:"size:255;not null" json:"file_name"`
	FileURL  string    `gorm:"type:text;not null" json:"file_url"`
}
