package service

import (
	"errors"
	"strings"
	"time"

	"github.com/liftlog/liftlog-backend/internal/app/model"
	"github.com/liftlog/liftlog-backend/internal/app/repository"
	"github.com/liftlog/liftlog-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ErrWorkoutNotFound covers both a missing workout and a workout owned by
// another user.
var ErrWorkoutNotFound = errors.New("workout not found")

// DefaultWorkoutListLimit caps history queries when the caller gives no limit.
const DefaultWorkoutListLimit = 50

// WorkoutExerciseInput is one exercise of a workout update request.
type WorkoutExerciseInput struct {
	ExerciseName string  `json:"exercise_name"`
	Weight       float64 `json:"weight"`
	Reps         int     `json:"reps"`
	Sets         int     `json:"sets"`
}

// UpdateWorkoutInput carries the optional fields of a workout update. A nil
// Exercises leaves the recorded list untouched; a non-nil one replaces it
// wholesale with freshly assigned order indices.
type UpdateWorkoutInput struct {
	Notes     *string
	Exercises *[]WorkoutExerciseInput
}

type WorkoutService interface {
	Start(userID uint, templateID *uint) (*model.Workout, error)
	Get(id, userID uint) (*model.Workout, error)
	List(userID uint, limit int) ([]model.Workout, error)
	Update(id, userID uint, input UpdateWorkoutInput) (*model.Workout, error)
	Complete(id, userID uint, input UpdateWorkoutInput) (*model.Workout, error)
	Delete(id, userID uint) error
	Export(userID uint) ([]byte, error)
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	templateRepo repository.TemplateRepository
}

func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	templateRepo repository.TemplateRepository,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		templateRepo: templateRepo,
	}
}

// Start opens a new workout session. With a template, every template exercise
// is copied in order; when the user has performed an exercise of the same
// name before, the most recent recorded weight/reps/sets win over the
// template defaults, so logged progress carries forward automatically. The
// template's order indices are preserved. A missing or foreign template is a
// hard failure, not a silent skip.
func (s *workoutService) Start(userID uint, templateID *uint) (*model.Workout, error) {
	logger.Info("Starting workout", map[string]interface{}{
		"user_id":     userID,
		"template_id": templateID,
	})

	workout := &model.Workout{
		UserID:      userID,
		TemplateID:  templateID,
		PerformedAt: time.Now(),
		Notes:       "",
	}

	if templateID != nil {
		template, err := s.templateRepo.FindByIDAndUser(*templateID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Workout start rejected: template not found", map[string]interface{}{
					"template_id": *templateID,
					"user_id":     userID,
				})
				return nil, ErrTemplateNotFound
			}
			logger.Error("Failed to resolve template for workout", err, map[string]interface{}{
				"template_id": *templateID,
				"user_id":     userID,
			})
			return nil, err
		}

		exercises, err := s.seedExercisesFromTemplate(userID, template)
		if err != nil {
			return nil, err
		}
		workout.Exercises = exercises
	}

	if err := s.workoutRepo.Create(workout); err != nil {
		return nil, err
	}

	logger.Info("Workout started", map[string]interface{}{
		"workout_id":     workout.ID,
		"user_id":        userID,
		"exercise_count": len(workout.Exercises),
	})
	return workout, nil
}

// seedExercisesFromTemplate copies the template's exercises, overriding the
// defaults with the user's most recent recorded values per exercise name.
func (s *workoutService) seedExercisesFromTemplate(userID uint, template *model.Template) ([]model.WorkoutExercise, error) {
	exercises := make([]model.WorkoutExercise, 0, len(template.Exercises))

	for _, te := range template.Exercises {
		weight := te.DefaultWeight
		reps := te.DefaultReps
		sets := te.DefaultSets

		last, err := s.workoutRepo.FindLatestExerciseByName(userID, te.ExerciseName)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to look up last performed values", err, map[string]interface{}{
				"user_id":       userID,
				"exercise_name": te.ExerciseName,
			})
			return nil, err
		}
		if last != nil {
			weight = last.Weight
			reps = last.Reps
			sets = last.Sets
		}

		exercises = append(exercises, model.WorkoutExercise{
			ExerciseName: te.ExerciseName,
			Weight:       weight,
			Reps:         reps,
			Sets:         sets,
			OrderIndex:   te.OrderIndex,
		})
	}

	return exercises, nil
}

func (s *workoutService) Get(id, userID uint) (*model.Workout, error) {
	workout, err := s.workoutRepo.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		logger.Error("Failed to fetch workout", err, map[string]interface{}{
			"workout_id": id,
			"user_id":    userID,
		})
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) List(userID uint, limit int) ([]model.Workout, error) {
	if limit <= 0 {
		limit = DefaultWorkoutListLimit
	}
	return s.workoutRepo.FindByUser(userID, limit)
}

func (s *workoutService) Update(id, userID uint, input UpdateWorkoutInput) (*model.Workout, error) {
	return s.applyUpdate(id, userID, input, false)
}

// Complete applies the same update semantics and stamps performed_at with the
// completion time, so a completed workout displays when it was finished.
func (s *workoutService) Complete(id, userID uint, input UpdateWorkoutInput) (*model.Workout, error) {
	return s.applyUpdate(id, userID, input, true)
}

func (s *workoutService) applyUpdate(id, userID uint, input UpdateWorkoutInput, complete bool) (*model.Workout, error) {
	workout, err := s.workoutRepo.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		logger.Error("Failed to fetch workout for update", err, map[string]interface{}{
			"workout_id": id,
			"user_id":    userID,
		})
		return nil, err
	}

	if input.Notes != nil {
		notes := *input.Notes
		if err := ValidateNotes(notes); err != nil {
			return nil, err
		}
		workout.Notes = notes
	}

	replaceExercises := input.Exercises != nil
	if replaceExercises {
		if err := ValidateWorkoutExercises(*input.Exercises); err != nil {
			return nil, err
		}
		workout.Exercises = buildWorkoutExercises(*input.Exercises)
	}

	if complete {
		workout.PerformedAt = time.Now()
	}

	if err := s.workoutRepo.Update(workout, replaceExercises); err != nil {
		return nil, err
	}

	logger.Info("Workout updated", map[string]interface{}{
		"workout_id": workout.ID,
		"user_id":    userID,
		"completed":  complete,
	})
	return s.Get(id, userID)
}

func (s *workoutService) Delete(id, userID uint) error {
	workout, err := s.workoutRepo.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkoutNotFound
		}
		logger.Error("Failed to fetch workout for delete", err, map[string]interface{}{
			"workout_id": id,
			"user_id":    userID,
		})
		return err
	}

	if err := s.workoutRepo.Delete(workout.ID); err != nil {
		return err
	}

	logger.Info("Workout deleted", map[string]interface{}{
		"workout_id": id,
		"user_id":    userID,
	})
	return nil
}

// Export renders the user's workout history as an xlsx workbook, one row per
// recorded exercise, newest workout first.
func (s *workoutService) Export(userID uint) ([]byte, error) {
	logger.Info("Exporting workout history", map[string]interface{}{
		"user_id": userID,
	})

	workouts, err := s.workoutRepo.FindByUser(userID, DefaultWorkoutListLimit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Workouts"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Date", "Workout ID", "Exercise", "Weight", "Reps", "Sets", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			values := []interface{}{
				w.PerformedAt.Format("2006-01-02 15:04"),
				w.ID,
				ex.ExerciseName,
				ex.Weight,
				ex.Reps,
				ex.Sets,
				w.Notes,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to build workout export", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Workout history exported", map[string]interface{}{
		"user_id": userID,
		"rows":    row - 2,
	})
	return buf.Bytes(), nil
}

// buildWorkoutExercises assigns dense order indices by list position.
func buildWorkoutExercises(inputs []WorkoutExerciseInput) []model.WorkoutExercise {
	exercises := make([]model.WorkoutExercise, 0, len(inputs))
	for i, in := range inputs {
		exercises = append(exercises, model.WorkoutExercise{
			ExerciseName: strings.TrimSpace(in.ExerciseName),
			Weight:       in.Weight,
			Reps:         in.Reps,
			Sets:         in.Sets,
			OrderIndex:   i,
		})
	}
	return exercises
}
