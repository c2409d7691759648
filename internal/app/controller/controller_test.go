package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/liftlog-backend/internal/app/repository"
	"github.com/liftlog/liftlog-backend/internal/app/service"
	"github.com/liftlog/liftlog-backend/internal/db"
	"github.com/liftlog/liftlog-backend/internal/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

// recordingSender captures reset mail instead of delivering it.
type recordingSender struct {
	sent []string // text bodies
}

func (r *recordingSender) Send(to, subject, htmlBody, textBody string) error {
	r.sent = append(r.sent, textBody)
	return nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	sender *recordingSender
}

// setupTestEnv wires the full HTTP surface against an in-memory database.
func setupTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	resetRepo := repository.NewPasswordResetRepository(testDB)
	templateRepo := repository.NewTemplateRepository(testDB)
	workoutRepo := repository.NewWorkoutRepository(testDB)

	sender := &recordingSender{}

	authService := service.NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 24*time.Hour)
	resetService := service.NewPasswordResetService(resetRepo, userRepo, sender, "http://localhost:8080")
	templateService := service.NewTemplateService(templateRepo)
	workoutService := service.NewWorkoutService(workoutRepo, templateRepo)
	userService := service.NewUserService(userRepo)

	authController := NewAuthController(authService, resetService)
	templateController := NewTemplateController(templateService)
	workoutController := NewWorkoutController(workoutService)
	adminController := NewAdminController(userService)

	authenticated := middleware.AuthMiddleware(testJWTSecret)

	engine := gin.New()
	v1 := engine.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.POST("/forgot-password", authController.ForgotPassword)
	auth.POST("/reset-password", authController.ResetPassword)
	auth.POST("/logout", authenticated, authController.Logout)
	auth.GET("/me", authenticated, authController.Me)
	auth.POST("/change-password", authenticated, authController.ChangePassword)

	templates := v1.Group("/templates", authenticated)
	templates.GET("", templateController.List)
	templates.GET("/:id", templateController.Get)
	templates.POST("", templateController.Create)
	templates.PUT("/:id", templateController.Update)
	templates.DELETE("/:id", templateController.Delete)

	workouts := v1.Group("/workouts", authenticated)
	workouts.GET("", workoutController.List)
	workouts.GET("/export", workoutController.Export)
	workouts.GET("/:id", workoutController.Get)
	workouts.POST("", workoutController.Start)
	workouts.PUT("/:id", workoutController.Update)
	workouts.POST("/:id/complete", workoutController.Complete)
	workouts.DELETE("/:id", workoutController.Delete)

	admin := v1.Group("/admin", authenticated, middleware.RequireAdmin())
	admin.GET("/users", adminController.ListUsers)
	admin.GET("/users/:id", adminController.GetUser)
	admin.POST("/users", adminController.CreateUser)
	admin.PUT("/users/:id", adminController.UpdateUser)
	admin.DELETE("/users/:id", adminController.DeleteUser)

	return &testEnv{router: engine, db: testDB, sender: sender}
}

// request performs a JSON request; token may be empty for anonymous calls.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerUser registers an account through the API and returns its access
// token.
func (e *testEnv) registerUser(t *testing.T, username string) string {
	w := e.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"password": "StrongPass-123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// registerAdmin promotes a freshly registered user to admin and returns a
// token carrying the admin claim.
func (e *testEnv) registerAdmin(t *testing.T, username string) string {
	e.registerUser(t, username)
	require.NoError(t, e.db.Exec("UPDATE users SET is_admin = ? WHERE username = ?", true, username).Error)

	w := e.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": "StrongPass-123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}
