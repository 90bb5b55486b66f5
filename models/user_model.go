package models

import "time"

const (
	RoleLearner = "learner"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

type User struct {
	Base
	FullName  string  `gorm:"size:255;not null" json:"full_name"`
	Email     string  `gorm:"size:255;not null;unique" json:"email"`
	Password  string  `gorm:"not null" json:"-"`
	Role      string  `gorm:"size:20;not null;default:'learner'" json:"role"`
	Phone     *string `gorm:"size:30" json:"phone"`
	AvatarURL *string `gorm:"size:255" json:"avatar_url"`
	IsActive  bool    `gorm:"not null;default:true" json:"is_active"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
}
