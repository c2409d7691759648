package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/liftlog/liftlog-backend/internal/app/model"
	"github.com/liftlog/liftlog-backend/internal/app/repository"
	"github.com/liftlog/liftlog-backend/pkg/logger"
	"github.com/liftlog/liftlog-backend/pkg/mail"
	"github.com/liftlog/liftlog-backend/pkg/util"
	"gorm.io/gorm"
)

// ErrInvalidResetToken covers unknown, expired and already-used tokens alike
// so the failure mode never tells an attacker which case they hit.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

const (
	// ResetTokenExpiry is how long a reset token stays redeemable.
	ResetTokenExpiry = 1 * time.Hour
	// ResetTokenLength is the entropy of the token in bytes.
	ResetTokenLength = 32
)

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	resetRepo repository.PasswordResetRepository
	userRepo  repository.UserRepository
	sender    mail.Sender
	baseURL   string
}

func NewPasswordResetService(
	resetRepo repository.PasswordResetRepository,
	userRepo repository.UserRepository,
	sender mail.Sender,
	baseURL string,
) PasswordResetService {
	return &passwordResetService{
		resetRepo: resetRepo,
		userRepo:  userRepo,
		sender:    sender,
		baseURL:   baseURL,
	}
}

// RequestReset issues a reset token and emails it to the account owner.
// When no account matches the email it returns nil all the same, so the
// response never reveals whether an address is registered. Previously issued
// tokens stay valid; each expires on its own clock.
func (s *passwordResetService) RequestReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	logger.Info("Processing password reset request", nil)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for unknown email", nil)
			return nil
		}
		logger.Error("Failed to look up user for password reset", err, nil)
		return err
	}

	tokenString, err := util.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		logger.Error("Failed to generate reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	reset := &model.PasswordResetToken{
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(ResetTokenExpiry),
		Used:      false,
	}

	if err := s.resetRepo.Create(reset); err != nil {
		logger.Error("Failed to persist reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, tokenString)
	subject, htmlBody, textBody := mail.PasswordResetEmail(user.Username, resetURL)

	if err := s.sender.Send(email, subject, htmlBody, textBody); err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"user_id":    user.ID,
		"expires_at": reset.ExpiresAt,
	})
	return nil
}

// ResetPassword redeems a token: the new password is validated and stored,
// any pending forced password change is cleared, and the token is consumed.
// A token redeems at most once.
func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	logger.Info("Processing password reset with token")

	if token == "" {
		return ErrInvalidResetToken
	}

	reset, err := s.resetRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Reset attempted with unknown token", nil)
			return ErrInvalidResetToken
		}
		logger.Error("Failed to look up reset token", err, nil)
		return err
	}

	if !reset.IsValid() {
		logger.Warn("Reset attempted with expired or used token", map[string]interface{}{
			"token_id": reset.ID,
		})
		return ErrInvalidResetToken
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(reset.UserID)
	if err != nil {
		logger.Error("Failed to load user for password reset", err, map[string]interface{}{
			"token_id": reset.ID,
		})
		return err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	user.PasswordHash = hashedPassword
	user.ForcePasswordChange = false

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to store new password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.resetRepo.MarkAsUsed(reset.ID); err != nil {
		logger.Error("Failed to mark reset token as used", err, map[string]interface{}{
			"token_id": reset.ID,
		})
		return err
	}

	logger.Info("Password reset successful", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}
