package service

import (
	"testing"
	"time"

	"github.com/liftlog/liftlog-backend/internal/app/model"
	"github.com/liftlog/liftlog-backend/internal/app/repository"
	"github.com/liftlog/liftlog-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWorkoutServiceTest(t *testing.T) (WorkoutService, TemplateService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	templateRepo := repository.NewTemplateRepository(testDB)
	workoutRepo := repository.NewWorkoutRepository(testDB)

	workoutService := NewWorkoutService(workoutRepo, templateRepo)
	templateService := NewTemplateService(templateRepo)
	return workoutService, templateService, testDB
}

func TestWorkoutService_Start_WithoutTemplate(t *testing.T) {
	workoutService, _, testDB := setupWorkoutServiceTest(t)
	owner, _ := createTestUsers(t, testDB)

	workout, err := workoutService.Start(owner.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, workout)

	assert.Nil(t, workout.TemplateID)
	assert.Empty(t, workout.Exercises)
	assert.WithinDuration(t, time.Now(), workout.PerformedAt, time.Minute)
}

func TestWorkoutService_Start_CopiesTemplateDefaults(t *testing.T) {
	workoutService, templateService, testDB := setupWorkoutServiceTest(t)
	owner, _ := createTestUsers(t, testDB)

	template, err := templateService.Create(owner.ID, "Push Day", pushDayExercises())
	require.NoError(t, err)

	// No history yet, so the template defaults carry over as-is
	workout, err := workoutService.Start(owner.ID, &template.ID)
	require.NoError(t, err)

	require.Len(t, workout.Exercises, 3)
	assert.Equal(t, "Bench Press", workout.Exercises[0].ExerciseName)
	assert.Equal(t, 80.0, workout.Exercises[0].Weight)
	assert.Equal(t, 8, workout.Exercises[0].Reps)
	assert.Equal(t, 3, workout.Exercises[0].Sets)
	for i, ex := range workout.Exercises {
		assert.Equal(t, i, ex.OrderIndex)
	}
}

func TestWorkoutService_Start_LastPerformedOverridesDefaults(t *testing.T) {
	workoutService, templateService, testDB := setupWorkoutServiceTest(t)
	owner, other := createTestUsers(t, testDB)

	template, err := templateService.Create(owner.ID, "Leg Day", []TemplateExerciseInput{
		{ExerciseName: "Squats", DefaultWeight: 100, DefaultReps: 5, DefaultSets: 5},
		{ExerciseName: "Leg Press", DefaultWeight: 150, DefaultReps: 10, DefaultSets: 3},
	})
	require.NoError(t, err)

	// Two past workouts recorded Squats; the most recent one must win.
	older := &model.Workout{
		UserID:      owner.ID,
		PerformedAt: time.Now().Add(-48 * time.Hour),
		Exercises: []model.WorkoutExercise{
			{ExerciseName: "Squats", Weight: 110, Reps: 5, Sets: 5, OrderIndex: 0},
		},
	}
	newer := &model.Workout{
		UserID:      owner.ID,
		PerformedAt: time.Now().Add(-24 * time.Hour),
		Exercises: []model.WorkoutExercise{
			{ExerciseName: "Squats", Weight: 120, Reps: 4, Sets: 5, OrderIndex: 0},
		},
	}
	require.NoError(t, testDB.Create(older).Error)
	require.NoError(t, testDB.Create(newer).Error)

	// Another user's heavier Squats must not leak into this user's session.
	foreign := &model.Workout{
		UserID:      other.ID,
		PerformedAt: time.Now(),
		Exercises: []model.WorkoutExercise{
			{ExerciseName: "Squats", Weight: 200, Reps: 1, Sets: 1, OrderIndex: 0},
		},
	}
	require.NoError(t, testDB.Create(foreign).Error)

	workout, err := workoutService.Start(owner.ID, &template.ID)
	require.NoError(t, err)
	require.Len(t, workout.Exercises, 2)

	squats := workout.Exercises[0]
	assert.Equal(t, "Squats", squats.ExerciseName)
	assert.Equal(t, 120.0, squats.Weight)
	assert.Equal(t, 4, squats.Reps)
	assert.Equal(t, 5, squats.Sets)

	// No history for Leg Press, defaults stay
	legPress := workout.Exercises[1]
	assert.Equal(t, 150.0, legPress.Weight)
	assert.Equal(t, 10, legPress.Reps)
	assert.Equal(t, 3, legPress.Sets)
}

func TestWorkoutService_Start_TemplateNotFound(t *testing.T) {
	workoutService, templateService, testDB := setupWorkoutServiceTest(t)
	owner, other := createTestUsers(t, testDB)

	template, err := templateService.Create(other.ID, "Not Yours", nil)
	require.NoError(t, err)

	t.Run("Unknown template", func(t *testing.T) {
		missing := uint(9999)
		_, err := workoutService.Start(owner.ID, &missing)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("Another user's template", func(t *testing.T) {
		_, err := workoutService.Start(owner.ID, &template.ID)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}

func TestWorkoutService_Get_OwnershipIsolation(t *testing.T) {
	workoutService, _, testDB := setupWorkoutServiceTest(t)
	owner, other := createTestUsers(t, testDB)

	workout, err := workoutService.Start(owner.ID, nil)
	require.NoError(t, err)

	_, err = workoutService.Get(workout.ID, other.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	found, err := workoutService.Get(workout.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, workout.ID, found.ID)
}

func TestWorkoutService_List(t *testing.T) {
	workoutService, _, testDB := setupWorkoutServiceTest(t)
	owner, _ := createTestUsers(t, testDB)

	for i := 0; i < 3; i++ {
		w := &model.Workout{
			UserID:      owner.ID,
			PerformedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		}
		require.NoError(t, testDB.Create(w).Error)
	}

	t.Run("Newest first", func(t *testing.T) {
		workouts, err := workoutService.List(owner.ID, 0)
		require.NoError(t, err)
		require.Len(t, workouts, 3)
		assert.True(t, workouts[0].PerformedAt.After(workouts[1].PerformedAt))
		assert.True(t, workouts[1].PerformedAt.After(workouts[2].PerformedAt))
	})

	t.Run("Limit applies", func(t *testing.T) {
		workouts, err := workoutService.List(owner.ID, 2)
		require.NoError(t, err)
		assert.Len(t, workouts, 2)
	})
}

func TestWorkoutService_Update(t *testing.T) {
	workoutService, templateService, testDB := setupWorkoutServiceTest(t)
	owner, other := createTestUsers(t, testDB)

	template, err := templateService.Create(owner.ID, "Push Day", pushDayExercises())
	require.NoError(t, err)
	workout, err := workoutService.Start(owner.ID, &template.ID)
	require.NoError(t, err)

	t.Run("Notes only", func(t *testing.T) {
		notes := "Felt strong today"
		updated, err := workoutService.Update(workout.ID, owner.ID, UpdateWorkoutInput{Notes: &notes})
		require.NoError(t, err)
		assert.Equal(t, notes, updated.Notes)
		assert.Len(t, updated.Exercises, 3)
	})

	t.Run("Replace exercises", func(t *testing.T) {
		exercises := []WorkoutExerciseInput{
			{ExerciseName: "Bench Press", Weight: 85, Reps: 6, Sets: 4},
		}
		updated, err := workoutService.Update(workout.ID, owner.ID, UpdateWorkoutInput{Exercises: &exercises})
		require.NoError(t, err)
		require.Len(t, updated.Exercises, 1)
		assert.Equal(t, 85.0, updated.Exercises[0].Weight)
		assert.Equal(t, 0, updated.Exercises[0].OrderIndex)
	})

	t.Run("Invalid exercise rejects update", func(t *testing.T) {
		exercises := []WorkoutExerciseInput{
			{ExerciseName: "", Weight: 85, Reps: 6, Sets: 4},
		}
		_, err := workoutService.Update(workout.ID, owner.ID, UpdateWorkoutInput{Exercises: &exercises})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
	})

	t.Run("Another user cannot update", func(t *testing.T) {
		notes := "hijack"
		_, err := workoutService.Update(workout.ID, other.ID, UpdateWorkoutInput{Notes: &notes})
		assert.ErrorIs(t, err, ErrWorkoutNotFound)
	})
}

func TestWorkoutService_Complete_StampsPerformedAt(t *testing.T) {
	workoutService, _, testDB := setupWorkoutServiceTest(t)
	owner, _ := createTestUsers(t, testDB)

	workout, err := workoutService.Start(owner.ID, nil)
	require.NoError(t, err)

	// Push the session into the past so the completion stamp is visible
	require.NoError(t, testDB.Model(&model.Workout{}).Where("id = ?", workout.ID).
		Update("performed_at", time.Now().Add(-2*time.Hour)).Error)

	exercises := []WorkoutExerciseInput{
		{ExerciseName: "Deadlift", Weight: 140, Reps: 5, Sets: 3},
	}
	completed, err := workoutService.Complete(workout.ID, owner.ID, UpdateWorkoutInput{Exercises: &exercises})
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now(), completed.PerformedAt, time.Minute)
	require.Len(t, completed.Exercises, 1)
	assert.Equal(t, "Deadlift", completed.Exercises[0].ExerciseName)
}

func TestWorkoutService_Delete(t *testing.T) {
	workoutService, _, testDB := setupWorkoutServiceTest(t)
	owner, other := createTestUsers(t, testDB)

	workout, err := workoutService.Start(owner.ID, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, workoutService.Delete(workout.ID, other.ID), ErrWorkoutNotFound)

	require.NoError(t, workoutService.Delete(workout.ID, owner.ID))
	_, err = workoutService.Get(workout.ID, owner.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestWorkoutService_Export(t *testing.T) {
	workoutService, _, testDB := setupWorkoutServiceTest(t)
	owner, _ := createTestUsers(t, testDB)

	w := &model.Workout{
		UserID:      owner.ID,
		PerformedAt: time.Now(),
		Notes:       "Export me",
		Exercises: []model.WorkoutExercise{
			{ExerciseName: "Bench Press", Weight: 80, Reps: 8, Sets: 3, OrderIndex: 0},
		},
	}
	require.NoError(t, testDB.Create(w).Error)

	data, err := workoutService.Export(owner.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// xlsx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
