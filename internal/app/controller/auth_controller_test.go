package controller

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_Register(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("Valid registration", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "StrongPass-123",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "access_token")
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("Duplicate username conflicts", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"username": "alice",
			"password": "StrongPass-123",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_USERNAME_EXISTS")
	})

	t.Run("Weak password returns field errors", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"username": "bob",
			"password": "weak",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_INPUT")
		assert.Contains(t, w.Body.String(), "password")
	})

	t.Run("Missing body", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthController_Login(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "alice")

	t.Run("Valid credentials", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "alice",
			"password": "StrongPass-123",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			ForcePasswordChange bool `json:"force_password_change"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.ForcePasswordChange)
	})

	t.Run("Unknown user and wrong password are indistinguishable", func(t *testing.T) {
		unknown := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "nobody",
			"password": "StrongPass-123",
		})
		wrongPass := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "alice",
			"password": "WrongPass-1234",
		})

		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		assert.JSONEq(t, unknown.Body.String(), wrongPass.Body.String())
	})

	t.Run("Oversized username rejected", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": strings.Repeat("a", 51),
			"password": "StrongPass-123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
	})
}

func TestAuthController_Login_ForcePasswordChangeFlag(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "alice")
	require.NoError(t, env.db.Exec("UPDATE users SET force_password_change = ? WHERE username = ?", true, "alice").Error)

	w := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice",
		"password": "StrongPass-123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ForcePasswordChange bool `json:"force_password_change"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.ForcePasswordChange)
}

func TestAuthController_Me(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "alice")

	t.Run("Authenticated", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice")
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("Anonymous", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthController_ChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "alice")

	t.Run("Wrong current password", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/change-password", token, gin.H{
			"current_password": "WrongPass-1234",
			"new_password":     "NewStrongPass-1",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_WRONG_PASSWORD")
	})

	t.Run("Successful change", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/change-password", token, gin.H{
			"current_password": "StrongPass-123",
			"new_password":     "NewStrongPass-1",
		})
		require.Equal(t, http.StatusOK, w.Code)

		login := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "alice",
			"password": "NewStrongPass-1",
		})
		assert.Equal(t, http.StatusOK, login.Code)
	})
}

func TestAuthController_PasswordResetFlow(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "StrongPass-123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("Unknown email is acknowledged identically", func(t *testing.T) {
		known := env.request(t, http.MethodPost, "/api/v1/auth/forgot-password", "", gin.H{
			"email": "alice@example.com",
		})
		unknown := env.request(t, http.MethodPost, "/api/v1/auth/forgot-password", "", gin.H{
			"email": "nobody@example.com",
		})

		assert.Equal(t, http.StatusOK, known.Code)
		assert.Equal(t, http.StatusOK, unknown.Code)
		assert.JSONEq(t, known.Body.String(), unknown.Body.String())
		assert.Len(t, env.sender.sent, 1)
	})

	t.Run("Reset with mailed token", func(t *testing.T) {
		require.NotEmpty(t, env.sender.sent)
		token := extractResetToken(t, env.sender.sent[0])

		w := env.request(t, http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{
			"token":        token,
			"new_password": "NewStrongPass-1",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		login := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "alice",
			"password": "NewStrongPass-1",
		})
		assert.Equal(t, http.StatusOK, login.Code)

		// Second redemption fails
		again := env.request(t, http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{
			"token":        token,
			"new_password": "AnotherPass-12",
		})
		assert.Equal(t, http.StatusBadRequest, again.Code)
		assert.Contains(t, again.Body.String(), "RESET_TOKEN_INVALID")
	})
}

func extractResetToken(t *testing.T, body string) string {
	const marker = "token="
	idx := strings.Index(body, marker)
	require.GreaterOrEqual(t, idx, 0)

	token := body[idx+len(marker):]
	if end := strings.IndexAny(token, " \r\n"); end >= 0 {
		token = token[:end]
	}
	return token
}
