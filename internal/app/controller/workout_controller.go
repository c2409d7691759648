package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/liftlog-backend/internal/app/service"
	apperrors "github.com/liftlog/liftlog-backend/internal/errors"
	"github.com/liftlog/liftlog-backend/internal/middleware"
)

type WorkoutController struct {
	workoutService service.WorkoutService
}

func NewWorkoutController(workoutService service.WorkoutService) *WorkoutController {
	return &WorkoutController{workoutService: workoutService}
}

type startWorkoutRequest struct {
	TemplateID *uint `json:"template_id"`
}

type updateWorkoutRequest struct {
	Notes     *string                         `json:"notes"`
	Exercises *[]service.WorkoutExerciseInput `json:"exercises"`
}

func (ctrl *WorkoutController) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid limit")
			return
		}
		limit = parsed
	}

	workouts, err := ctrl.workoutService.List(userID, limit)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"workouts": workouts})
}

func (ctrl *WorkoutController) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	workout, err := ctrl.workoutService.Get(id, userID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			apperrors.NotFound(c, apperrors.WorkoutNotFound, "Workout not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"workout": workout})
}

// Start opens a workout session, optionally seeding the exercises from one of
// the caller's templates.
func (ctrl *WorkoutController) Start(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req startWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	workout, err := ctrl.workoutService.Start(userID, req.TemplateID)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			apperrors.NotFound(c, apperrors.TemplateNotFound, "Template not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "workout")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"workout": workout})
}

func (ctrl *WorkoutController) Update(c *gin.Context) {
	ctrl.applyUpdate(c, false)
}

// Complete records the final state of a session and stamps its performed_at.
func (ctrl *WorkoutController) Complete(c *gin.Context) {
	ctrl.applyUpdate(c, true)
}

func (ctrl *WorkoutController) applyUpdate(c *gin.Context, complete bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	input := service.UpdateWorkoutInput{
		Notes:     req.Notes,
		Exercises: req.Exercises,
	}

	var workout interface{}
	var err error
	if complete {
		workout, err = ctrl.workoutService.Complete(id, userID, input)
	} else {
		workout, err = ctrl.workoutService.Update(id, userID, input)
	}
	if err != nil {
		var valErr *service.ValidationError
		switch {
		case errors.As(err, &valErr):
			apperrors.RespondWithValidationError(c, valErr.Fields)
		case errors.Is(err, service.ErrWorkoutNotFound):
			apperrors.NotFound(c, apperrors.WorkoutNotFound, "Workout not found")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "workout")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"workout": workout})
}

func (ctrl *WorkoutController) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.workoutService.Delete(id, userID); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			apperrors.NotFound(c, apperrors.WorkoutNotFound, "Workout not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workout deleted"})
}

// Export streams the caller's workout history as an xlsx download.
func (ctrl *WorkoutController) Export(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	data, err := ctrl.workoutService.Export(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	filename := fmt.Sprintf("workouts-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
