package models

type CourseCategory struct {
	Base
	Name        string `gorm:"size:100;not null;unique" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}
