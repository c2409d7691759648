package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/liftlog/liftlog-backend/config"
	"github.com/liftlog/liftlog-backend/internal/app/model"
	"github.com/liftlog/liftlog-backend/internal/app/repository"
	"github.com/liftlog/liftlog-backend/internal/db"
	"github.com/liftlog/liftlog-backend/pkg/util"
	"gorm.io/gorm"
)

// Seeds the initial admin account. The password is temporary: the account is
// created with a forced password change so the real credential is never
// stored in deploy scripts.
func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email (optional)")
	flag.Parse()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())

	if _, err := userRepo.FindByUsername(*username); err == nil {
		fmt.Printf("User %q already exists, nothing to do.\n", *username)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to check existing user:", err)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &model.User{
		Username:            *username,
		PasswordHash:        hash,
		IsAdmin:             true,
		ForcePasswordChange: true,
	}
	if *email != "" {
		admin.Email = email
	}

	if err := userRepo.Create(admin); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	fmt.Printf("Admin user %q created (id=%d). Password change required on first login.\n", admin.Username, admin.ID)
}
