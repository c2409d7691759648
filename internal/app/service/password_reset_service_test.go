package service

import (
	"strings"
	"testing"
	"time"

	"github.com/liftlog/liftlog-backend/internal/app/model"
	"github.com/liftlog/liftlog-backend/internal/app/repository"
	"github.com/liftlog/liftlog-backend/internal/db"
	"github.com/liftlog/liftlog-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records sent mail instead of delivering it.
type fakeSender struct {
	sent []fakeMail
	err  error
}

type fakeMail struct {
	to       string
	subject  string
	textBody string
}

func (f *fakeSender) Send(to, subject, htmlBody, textBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, fakeMail{to: to, subject: subject, textBody: textBody})
	return nil
}

func setupResetServiceTest(t *testing.T) (PasswordResetService, repository.PasswordResetRepository, repository.UserRepository, *fakeSender) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	resetRepo := repository.NewPasswordResetRepository(testDB)
	sender := &fakeSender{}
	resetService := NewPasswordResetService(resetRepo, userRepo, sender, "http://localhost:8080")

	return resetService, resetRepo, userRepo, sender
}

func createResetTestUser(t *testing.T, userRepo repository.UserRepository, email string) *model.User {
	hash, err := util.HashPassword("OldStrongPass-1")
	require.NoError(t, err)

	user := &model.User{
		Username:     "alice",
		Email:        &email,
		PasswordHash: hash,
	}
	require.NoError(t, userRepo.Create(user))
	return user
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	resetService, _, userRepo, sender := setupResetServiceTest(t)
	createResetTestUser(t, userRepo, "alice@example.com")

	require.NoError(t, resetService.RequestReset("Alice@Example.COM"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "alice@example.com", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].textBody, "http://localhost:8080/reset-password?token=")
}

func TestPasswordResetService_RequestReset_UnknownEmail(t *testing.T) {
	resetService, _, _, sender := setupResetServiceTest(t)

	// Unknown addresses are silently acknowledged
	require.NoError(t, resetService.RequestReset("nobody@example.com"))
	assert.Empty(t, sender.sent)
}

func TestPasswordResetService_RequestReset_EarlierTokenStaysValid(t *testing.T) {
	resetService, _, userRepo, sender := setupResetServiceTest(t)
	createResetTestUser(t, userRepo, "alice@example.com")

	require.NoError(t, resetService.RequestReset("alice@example.com"))
	require.NoError(t, resetService.RequestReset("alice@example.com"))
	require.Len(t, sender.sent, 2)

	// Issuing a second token does not invalidate the first
	firstToken := extractToken(t, sender.sent[0].textBody)
	require.NoError(t, resetService.ResetPassword(firstToken, "NewStrongPass-1"))
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	resetService, resetRepo, userRepo, _ := setupResetServiceTest(t)
	user := createResetTestUser(t, userRepo, "alice@example.com")

	token := issueToken(t, resetRepo, user.ID, time.Hour, false)

	require.NoError(t, resetService.ResetPassword(token, "NewStrongPass-1"))

	updated, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, util.VerifyPassword(updated.PasswordHash, "NewStrongPass-1"))
	assert.False(t, updated.ForcePasswordChange)

	// A token redeems at most once
	err = resetService.ResetPassword(token, "AnotherPass-12")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestPasswordResetService_ResetPassword_ClearsForcedChange(t *testing.T) {
	resetService, resetRepo, userRepo, _ := setupResetServiceTest(t)
	user := createResetTestUser(t, userRepo, "alice@example.com")

	user.ForcePasswordChange = true
	require.NoError(t, userRepo.Update(user))

	token := issueToken(t, resetRepo, user.ID, time.Hour, false)
	require.NoError(t, resetService.ResetPassword(token, "NewStrongPass-1"))

	updated, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, updated.ForcePasswordChange)
}

func TestPasswordResetService_ResetPassword_InvalidTokens(t *testing.T) {
	resetService, resetRepo, userRepo, _ := setupResetServiceTest(t)
	user := createResetTestUser(t, userRepo, "alice@example.com")

	expired := issueToken(t, resetRepo, user.ID, -time.Minute, false)
	used := issueToken(t, resetRepo, user.ID, time.Hour, true)

	tests := []struct {
		name  string
		token string
	}{
		{"Unknown token", "deadbeef"},
		{"Empty token", ""},
		{"Expired token", expired},
		{"Already used token", used},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resetService.ResetPassword(tt.token, "NewStrongPass-1")
			assert.ErrorIs(t, err, ErrInvalidResetToken)
		})
	}
}

func TestPasswordResetService_ResetPassword_WeakPassword(t *testing.T) {
	resetService, resetRepo, userRepo, _ := setupResetServiceTest(t)
	user := createResetTestUser(t, userRepo, "alice@example.com")

	token := issueToken(t, resetRepo, user.ID, time.Hour, false)

	err := resetService.ResetPassword(token, "weak")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "password")

	// Failed validation must not consume the token
	require.NoError(t, resetService.ResetPassword(token, "NewStrongPass-1"))
}

func issueToken(t *testing.T, resetRepo repository.PasswordResetRepository, userID uint, ttl time.Duration, used bool) string {
	tokenString, err := util.GenerateSecureToken(ResetTokenLength)
	require.NoError(t, err)

	reset := &model.PasswordResetToken{
		UserID:    userID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(ttl),
		Used:      used,
	}
	require.NoError(t, resetRepo.Create(reset))
	return tokenString
}

func extractToken(t *testing.T, body string) string {
	const marker = "token="
	idx := strings.Index(body, marker)
	require.GreaterOrEqual(t, idx, 0)

	token := body[idx+len(marker):]
	if end := strings.IndexAny(token, " \r\n"); end >= 0 {
		token = token[:end]
	}
	return token
}
