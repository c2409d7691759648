package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/liftlog-backend/internal/app/service"
	apperrors "github.com/liftlog/liftlog-backend/internal/errors"
	"github.com/liftlog/liftlog-backend/internal/middleware"
)

// AdminController handles user management. All routes sit behind
// RequireAdmin.
type AdminController struct {
	userService service.UserService
}

func NewAdminController(userService service.UserService) *AdminController {
	return &AdminController{userService: userService}
}

type createUserRequest struct {
	Username            string  `json:"username" binding:"required"`
	Email               *string `json:"email"`
	Password            string  `json:"password" binding:"required"`
	IsAdmin             bool    `json:"is_admin"`
	ForcePasswordChange *bool   `json:"force_password_change"`
}

type updateUserRequest struct {
	Username            *string `json:"username"`
	Email               *string `json:"email"`
	Password            *string `json:"password"`
	IsAdmin             *bool   `json:"is_admin"`
	ForcePasswordChange *bool   `json:"force_password_change"`
}

func (ctrl *AdminController) ListUsers(c *gin.Context) {
	users, err := ctrl.userService.List()
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (ctrl *AdminController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := ctrl.userService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateUser provisions an account. Unless the request says otherwise the
// user must change the password on first login.
func (ctrl *AdminController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	forceChange := true
	if req.ForcePasswordChange != nil {
		forceChange = *req.ForcePasswordChange
	}

	user, err := ctrl.userService.Create(service.CreateUserInput{
		Username:            req.Username,
		Email:               req.Email,
		Password:            req.Password,
		IsAdmin:             req.IsAdmin,
		ForcePasswordChange: forceChange,
	})
	if err != nil {
		var valErr *service.ValidationError
		switch {
		case errors.As(err, &valErr):
			apperrors.RespondWithValidationError(c, valErr.Fields)
		case errors.Is(err, service.ErrUsernameTaken):
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "Username already exists")
		case errors.Is(err, service.ErrEmailTaken):
			apperrors.Conflict(c, apperrors.AuthEmailExists, "Email already registered")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "user")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (ctrl *AdminController) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	user, err := ctrl.userService.Update(id, service.UpdateUserInput{
		Username:            req.Username,
		Email:               req.Email,
		Password:            req.Password,
		IsAdmin:             req.IsAdmin,
		ForcePasswordChange: req.ForcePasswordChange,
	})
	if err != nil {
		var valErr *service.ValidationError
		switch {
		case errors.As(err, &valErr):
			apperrors.RespondWithValidationError(c, valErr.Fields)
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
		case errors.Is(err, service.ErrUsernameTaken):
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "Username already exists")
		case errors.Is(err, service.ErrEmailTaken):
			apperrors.Conflict(c, apperrors.AuthEmailExists, "Email already registered")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes an account and all of its data. Deleting yourself is
// rejected.
func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.userService.Delete(id, actorID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDelete):
			apperrors.BadRequest(c, apperrors.UserSelfDelete, "Cannot delete your own account")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
