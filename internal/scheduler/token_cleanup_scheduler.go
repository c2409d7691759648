package scheduler

import (
	"github.com/liftlog/liftlog-backend/internal/app/repository"
	"github.com/liftlog/liftlog-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// TokenCleanupScheduler purges expired and used password reset tokens nightly.
type TokenCleanupScheduler struct {
	cron      *cron.Cron
	resetRepo repository.PasswordResetRepository
}

func NewTokenCleanupScheduler(resetRepo repository.PasswordResetRepository) *TokenCleanupScheduler {
	return &TokenCleanupScheduler{
		cron:      cron.New(),
		resetRepo: resetRepo,
	}
}

// Start registers the nightly cleanup job (3:00 AM).
func (s *TokenCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled reset token cleanup", nil)

		deleted, err := s.resetRepo.DeleteExpired()
		if err != nil {
			logger.Error("Failed to clean up reset tokens", err)
			return
		}

		logger.Info("Reset token cleanup finished", map[string]interface{}{
			"deleted": deleted,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for reset token cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Token cleanup scheduler started (daily at 3:00 AM)", nil)

	return nil
}

func (s *TokenCleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Token cleanup scheduler stopped", nil)
}
