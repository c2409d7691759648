package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/liftlog/liftlog-backend/config"
	"github.com/liftlog/liftlog-backend/internal/app/controller"
	"github.com/liftlog/liftlog-backend/internal/app/repository"
	"github.com/liftlog/liftlog-backend/internal/app/service"
	"github.com/liftlog/liftlog-backend/internal/db"
	"github.com/liftlog/liftlog-backend/internal/router"
	"github.com/liftlog/liftlog-backend/internal/scheduler"
	"github.com/liftlog/liftlog-backend/pkg/logger"
	"github.com/liftlog/liftlog-backend/pkg/mail"
	"github.com/liftlog/liftlog-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting LiftLog Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize redis (token revocation list); the server runs without it
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, logout revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())
	templateRepo := repository.NewTemplateRepository(db.GetDB())
	workoutRepo := repository.NewWorkoutRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	resetService := service.NewPasswordResetService(
		resetRepo,
		userRepo,
		mail.NewSMTPSender(&cfg.SMTP),
		cfg.Server.BaseURL,
	)
	templateService := service.NewTemplateService(templateRepo)
	workoutService := service.NewWorkoutService(workoutRepo, templateRepo)
	userService := service.NewUserService(userRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, resetService)
	templateController := controller.NewTemplateController(templateService)
	workoutController := controller.NewWorkoutController(workoutService)
	adminController := controller.NewAdminController(userService)

	// Setup router
	r := router.NewRouter(
		authController,
		templateController,
		workoutController,
		adminController,
		cfg,
	)
	engine := r.Setup()

	// Start reset token cleanup scheduler
	cleanupScheduler := scheduler.NewTokenCleanupScheduler(resetRepo)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Error("Failed to start token cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
