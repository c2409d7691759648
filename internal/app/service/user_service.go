package service

import (
	"errors"
	"strings"

	"github.com/liftlog/liftlog-backend/internal/app/model"
	"github.com/liftlog/liftlog-backend/internal/app/repository"
	"github.com/liftlog/liftlog-backend/pkg/logger"
	"github.com/liftlog/liftlog-backend/pkg/util"
	"gorm.io/gorm"
)

// ErrSelfDelete is returned when an admin tries to delete their own account.
var ErrSelfDelete = errors.New("cannot delete your own account")

// CreateUserInput carries an admin-created account. ForcePasswordChange is
// normally true so the user picks their own password on first login.
type CreateUserInput struct {
	Username            string
	Email               *string
	Password            string
	IsAdmin             bool
	ForcePasswordChange bool
}

// UpdateUserInput carries the optional fields of an admin user update. A set
// Password resets the credential and flags a forced change unless
// ForcePasswordChange explicitly says otherwise.
type UpdateUserInput struct {
	Username            *string
	Email               *string
	Password            *string
	IsAdmin             *bool
	ForcePasswordChange *bool
}

type UserService interface {
	List() ([]model.User, error)
	Get(id uint) (*model.User, error)
	Create(input CreateUserInput) (*model.User, error)
	Update(id uint, input UpdateUserInput) (*model.User, error)
	Delete(id, actorID uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *userService) Get(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Create(input CreateUserInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	if email != nil {
		if _, err := s.userRepo.FindByEmail(*email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password for new user", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	user := &model.User{
		Username:            username,
		Email:               email,
		PasswordHash:        hash,
		IsAdmin:             input.IsAdmin,
		ForcePasswordChange: input.ForcePasswordChange,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User created by admin", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
	})
	return user, nil
}

func (s *userService) Update(id uint, input UpdateUserInput) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if err := ValidateUsername(username); err != nil {
			return nil, err
		}
		existing, err := s.userRepo.FindByUsername(username)
		if err == nil && existing.ID != user.ID {
			return nil, ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = username
	}

	if input.Email != nil {
		email := normalizeEmail(input.Email)
		if email != nil {
			existing, err := s.userRepo.FindByEmail(*email)
			if err == nil && existing.ID != user.ID {
				return nil, ErrEmailTaken
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}

	if input.Password != nil {
		if err := ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		user.ForcePasswordChange = true
	}

	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}
	if input.ForcePasswordChange != nil {
		user.ForcePasswordChange = *input.ForcePasswordChange
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User updated by admin", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

// Delete removes a user and all of their data. Admins cannot delete
// themselves; another admin has to do it.
func (s *userService) Delete(id, actorID uint) error {
	if id == actorID {
		logger.Warn("Self-delete rejected", map[string]interface{}{
			"user_id": id,
		})
		return ErrSelfDelete
	}

	user, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return err
	}

	logger.Info("User deleted by admin", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"actor_id": actorID,
	})
	return nil
}

// normalizeEmail lowercases and trims, mapping empty to nil so the unique
// index never sees empty strings.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}
