package model

import (
	"time"
)

type Template struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Exercises []TemplateExercise `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"exercises"`
}

func (Template) TableName() string {
	return "templates"
}

type TemplateExercise struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	TemplateID    uint    `gorm:"not null;index" json:"template_id"`
	ExerciseName  string  `gorm:"size:100;not null" json:"exercise_name"`
	DefaultWeight float64 `gorm:"default:0" json:"default_weight"`
	DefaultReps   int     `gorm:"default:0" json:"default_reps"`
	DefaultSets   int     `gorm:"default:0" json:"default_sets"`
	OrderIndex    int     `gorm:"default:0" json:"order_index"`
}

func (TemplateExercise) TableName() string {
	return "template_exercises"
}
