package router

import (
	"github.com/gin-gonic/gin"
	"github.com/liftlog/liftlog-backend/config"
	"github.com/liftlog/liftlog-backend/internal/app/controller"
	"github.com/liftlog/liftlog-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	templateController *controller.TemplateController
	workoutController  *controller.WorkoutController
	adminController    *controller.AdminController
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	templateController *controller.TemplateController,
	workoutController *controller.WorkoutController,
	adminController *controller.AdminController,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		templateController: templateController,
		workoutController:  workoutController,
		adminController:    adminController,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "LiftLog API is running",
		})
	})

	authenticated := middleware.AuthMiddleware(r.config.JWT.Secret)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.POST("/logout", authenticated, r.authController.Logout)
			auth.GET("/me", authenticated, r.authController.Me)
			auth.POST("/change-password", authenticated, r.authController.ChangePassword)
		}

		templates := v1.Group("/templates")
		templates.Use(authenticated)
		{
			templates.GET("", r.templateController.List)
			templates.GET("/:id", r.templateController.Get)
			templates.POST("", r.templateController.Create)
			templates.PUT("/:id", r.templateController.Update)
			templates.DELETE("/:id", r.templateController.Delete)
		}

		workouts := v1.Group("/workouts")
		workouts.Use(authenticated)
		{
			workouts.GET("", r.workoutController.List)
			workouts.GET("/export", r.workoutController.Export)
			workouts.GET("/:id", r.workoutController.Get)
			workouts.POST("", r.workoutController.Start)
			workouts.PUT("/:id", r.workoutController.Update)
			workouts.POST("/:id/complete", r.workoutController.Complete)
			workouts.DELETE("/:id", r.workoutController.Delete)
		}

		admin := v1.Group("/admin")
		admin.Use(authenticated, middleware.RequireAdmin())
		{
			admin.GET("/users", r.adminController.ListUsers)
			admin.GET("/users/:id", r.adminController.GetUser)
			admin.POST("/users", r.adminController.CreateUser)
			admin.PUT("/users/:id", r.adminController.UpdateUser)
			admin.DELETE("/users/:id", r.adminController.DeleteUser)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
