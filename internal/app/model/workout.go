package model

import (
	"time"
)

type Workout struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	TemplateID  *uint     `gorm:"index" json:"template_id,omitempty"`
	PerformedAt time.Time `gorm:"not null;index" json:"performed_at"`
	Notes       string    `gorm:"size:1000;default:''" json:"notes"`

	// Template is a non-owning reference: deleting the template keeps the
	// workout and nulls the reference.
	Template  *Template         `gorm:"foreignKey:TemplateID;constraint:OnDelete:SET NULL" json:"-"`
	Exercises []WorkoutExercise `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"exercises"`
}

func (Workout) TableName() string {
	return "workouts"
}

type WorkoutExercise struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	WorkoutID    uint    `gorm:"not null;index" json:"workout_id"`
	ExerciseName string  `gorm:"size:100;not null;index" json:"exercise_name"`
	Weight       float64 `gorm:"default:0" json:"weight"`
	Reps         int     `gorm:"default:0" json:"reps"`
	Sets         int     `gorm:"default:0" json:"sets"`
	OrderIndex   int     `gorm:"default:0" json:"order_index"`
}

func (WorkoutExercise) TableName() string {
	return "workout_exercises"
}
