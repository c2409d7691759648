package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/liftlog-backend/internal/app/service"
	apperrors "github.com/liftlog/liftlog-backend/internal/errors"
	"github.com/liftlog/liftlog-backend/internal/middleware"
)

type TemplateController struct {
	templateService service.TemplateService
}

func NewTemplateController(templateService service.TemplateService) *TemplateController {
	return &TemplateController{templateService: templateService}
}

type createTemplateRequest struct {
	Name      string                          `json:"name" binding:"required"`
	Exercises []service.TemplateExerciseInput `json:"exercises"`
}

type updateTemplateRequest struct {
	Name      *string                          `json:"name"`
	Exercises *[]service.TemplateExerciseInput `json:"exercises"`
}

// parseIDParam reads the :id path segment as an unsigned integer.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func (ctrl *TemplateController) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	templates, err := ctrl.templateService.List(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (ctrl *TemplateController) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	template, err := ctrl.templateService.Get(id, userID)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			apperrors.NotFound(c, apperrors.TemplateNotFound, "Template not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template})
}

func (ctrl *TemplateController) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	template, err := ctrl.templateService.Create(userID, req.Name, req.Exercises)
	if err != nil {
		var valErr *service.ValidationError
		if errors.As(err, &valErr) {
			apperrors.RespondWithValidationError(c, valErr.Fields)
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "template")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"template": template})
}

func (ctrl *TemplateController) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	template, err := ctrl.templateService.Update(id, userID, service.UpdateTemplateInput{
		Name:      req.Name,
		Exercises: req.Exercises,
	})
	if err != nil {
		var valErr *service.ValidationError
		switch {
		case errors.As(err, &valErr):
			apperrors.RespondWithValidationError(c, valErr.Fields)
		case errors.Is(err, service.ErrTemplateNotFound):
			apperrors.NotFound(c, apperrors.TemplateNotFound, "Template not found")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "template")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// Delete removes a template. Workouts started from it keep their recorded
// data; only the template link is cleared.
func (ctrl *TemplateController) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.templateService.Delete(id, userID); err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			apperrors.NotFound(c, apperrors.TemplateNotFound, "Template not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}
