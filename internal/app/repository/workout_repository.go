package repository

import (
	"github.com/liftlog/liftlog-backend/internal/app/model"
	"github.com/liftlog/liftlog-backend/pkg/logger"
	"gorm.io/gorm"
)

type WorkoutRepository interface {
	Create(workout *model.Workout) error
	FindByIDAndUser(id, userID uint) (*model.Workout, error)
	FindByUser(userID uint, limit int) ([]model.Workout, error)
	FindLatestExerciseByName(userID uint, exerciseName string) (*model.WorkoutExercise, error)
	Update(workout *model.Workout, replaceExercises bool) error
	Delete(id uint) error
}

type workoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

// Create inserts the workout and its exercises in one transaction.
func (r *workoutRepository) Create(workout *model.Workout) error {
	logger.Debug("Creating workout in database", map[string]interface{}{
		"user_id":        workout.UserID,
		"template_id":    workout.TemplateID,
		"exercise_count": len(workout.Exercises),
	})

	if err := r.db.Create(workout).Error; err != nil {
		logger.Error("Failed to create workout in database", err, map[string]interface{}{
			"user_id": workout.UserID,
		})
		return err
	}
	return nil
}

func (r *workoutRepository) FindByIDAndUser(id, userID uint) (*model.Workout, error) {
	var workout model.Workout
	err := r.db.Preload("Exercises", orderedExercises).
		Where("id = ? AND user_id = ?", id, userID).
		First(&workout).Error
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

func (r *workoutRepository) FindByUser(userID uint, limit int) ([]model.Workout, error) {
	var workouts []model.Workout
	err := r.db.Preload("Exercises", orderedExercises).
		Where("user_id = ?", userID).
		Order("performed_at DESC").
		Limit(limit).
		Find(&workouts).Error
	if err != nil {
		logger.Error("Failed to list workouts from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return workouts, nil
}

// FindLatestExerciseByName returns the most recently performed exercise with
// the given name across all of the user's workouts, newest performed_at first.
func (r *workoutRepository) FindLatestExerciseByName(userID uint, exerciseName string) (*model.WorkoutExercise, error) {
	var exercise model.WorkoutExercise
	err := r.db.
		Joins("JOIN workouts ON workouts.id = workout_exercises.workout_id").
		Where("workouts.user_id = ? AND workout_exercises.exercise_name = ?", userID, exerciseName).
		Order("workouts.performed_at DESC").
		First(&exercise).Error
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

// Update saves the workout row and, when replaceExercises is set, swaps the
// whole exercise list for workout.Exercises in the same transaction.
func (r *workoutRepository) Update(workout *model.Workout, replaceExercises bool) error {
	logger.Debug("Updating workout in database", map[string]interface{}{
		"workout_id":        workout.ID,
		"replace_exercises": replaceExercises,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Exercises").Save(workout).Error; err != nil {
			return err
		}

		if !replaceExercises {
			return nil
		}

		if err := tx.Where("workout_id = ?", workout.ID).Delete(&model.WorkoutExercise{}).Error; err != nil {
			return err
		}
		if len(workout.Exercises) == 0 {
			return nil
		}
		for i := range workout.Exercises {
			workout.Exercises[i].ID = 0
			workout.Exercises[i].WorkoutID = workout.ID
		}
		return tx.Create(&workout.Exercises).Error
	})
	if err != nil {
		logger.Error("Failed to update workout in database", err, map[string]interface{}{
			"workout_id": workout.ID,
		})
		return err
	}
	return nil
}

// Delete removes the workout and its exercises together.
func (r *workoutRepository) Delete(id uint) error {
	logger.Debug("Deleting workout from database", map[string]interface{}{
		"workout_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", id).Delete(&model.WorkoutExercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Workout{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete workout from database", err, map[string]interface{}{
			"workout_id": id,
		})
		return err
	}
	return nil
}
