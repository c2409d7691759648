package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo is a parsed error: a stable code plus a safe message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts persistence errors into user-safe codes and messages.
// Raw driver errors are never propagated to the caller, only logged upstream.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	// Unique constraint violations (postgres 23505, sqlite "UNIQUE constraint failed")
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// Foreign key violations (postgres 23503)
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{Code: ResourceConflict, Message: "Related data prevents this operation"}
	}

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{Code: InternalDatabaseError, Message: "Service temporarily unavailable. Please try again later"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Something went wrong. Please try again later"}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	if strings.Contains(errStr, "username") {
		return ErrorInfo{Code: AuthUsernameExists, Message: "Username already taken"}
	}
	if strings.Contains(errStr, "email") {
		return ErrorInfo{Code: AuthEmailExists, Message: "Email already registered"}
	}
	if strings.Contains(errStr, "token") {
		// Random token collision; caller can simply retry.
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Please try again"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Already exists"}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "template"):
		return "Template not found"
	case strings.Contains(contextLower, "workout"):
		return "Workout not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	default:
		return "Requested data not found"
	}
}

// ParseAndRespond parses err and writes the failure response.
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
