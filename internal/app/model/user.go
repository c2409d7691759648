package model

import (
	"time"
)

type User struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	Username            string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email               *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	PasswordHash        string    `gorm:"not null" json:"-"`
	IsAdmin             bool      `gorm:"default:false;not null" json:"is_admin"`
	ForcePasswordChange bool      `gorm:"default:false;not null" json:"force_password_change"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Templates []Template `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Workouts  []Workout  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
