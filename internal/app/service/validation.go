package service

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation limits for user-supplied fields.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	PasswordMinLength = 12
	PasswordMaxLength = 128
	NameMaxLength     = 100
	NotesMaxLength    = 1000
	MaxWeight         = 9999
	MaxReps           = 999
	MaxSets           = 99
)

var (
	usernamePattern     = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
	exerciseNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_()]{1,100}$`)
)

// ValidationError carries per-field validation failures. It is recoverable:
// the caller can correct the input and retry.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ValidateUsername checks length and allowed characters.
func ValidateUsername(username string) *ValidationError {
	username = strings.TrimSpace(username)
	if len(username) < UsernameMinLength {
		return newValidationError("username", fmt.Sprintf("must be at least %d characters", UsernameMinLength))
	}
	if len(username) > UsernameMaxLength {
		return newValidationError("username", fmt.Sprintf("must be no more than %d characters", UsernameMaxLength))
	}
	if !usernamePattern.MatchString(username) {
		return newValidationError("username", "may only contain letters, digits, underscores and hyphens")
	}
	return nil
}

// ValidatePassword enforces the password complexity policy: 12-128 characters
// with uppercase, lowercase, and a digit or special character. The same policy
// applies on every surface (registration, reset, change, admin).
func ValidatePassword(password string) *ValidationError {
	if len(password) < PasswordMinLength {
		return newValidationError("password", fmt.Sprintf("must be at least %d characters", PasswordMinLength))
	}
	if len(password) > PasswordMaxLength {
		return newValidationError("password", fmt.Sprintf("must be no more than %d characters", PasswordMaxLength))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune("!@#$%^&*()_+-=[]{}|;:,.<>?", c):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !(hasDigit || hasSpecial) {
		return newValidationError("password", "must contain uppercase, lowercase, and a digit or special character")
	}
	return nil
}

// ValidateTemplateName checks length and allowed characters.
func ValidateTemplateName(name string) *ValidationError {
	name = strings.TrimSpace(name)
	if name == "" {
		return newValidationError("name", "is required")
	}
	if len(name) > NameMaxLength {
		return newValidationError("name", fmt.Sprintf("must be no more than %d characters", NameMaxLength))
	}
	if !exerciseNamePattern.MatchString(name) {
		return newValidationError("name", "contains invalid characters")
	}
	return nil
}

// ValidateNotes checks the free-text note length.
func ValidateNotes(notes string) *ValidationError {
	if len(notes) > NotesMaxLength {
		return newValidationError("notes", fmt.Sprintf("must be no more than %d characters", NotesMaxLength))
	}
	return nil
}

func validateExerciseFields(index int, name string, weight float64, reps, sets int) *ValidationError {
	prefix := fmt.Sprintf("exercises[%d].", index)

	name = strings.TrimSpace(name)
	if name == "" || !exerciseNamePattern.MatchString(name) {
		return newValidationError(prefix+"exercise_name", "must be 1-100 characters of letters, digits, spaces, hyphens, underscores or parentheses")
	}
	if weight < 0 || weight > MaxWeight {
		return newValidationError(prefix+"weight", fmt.Sprintf("must be between 0 and %d", MaxWeight))
	}
	if reps < 0 || reps > MaxReps {
		return newValidationError(prefix+"reps", fmt.Sprintf("must be between 0 and %d", MaxReps))
	}
	if sets < 0 || sets > MaxSets {
		return newValidationError(prefix+"sets", fmt.Sprintf("must be between 0 and %d", MaxSets))
	}
	return nil
}

// ValidateTemplateExercises validates the whole exercise list; any failure
// rejects the entire operation so no partial template is ever persisted.
func ValidateTemplateExercises(exercises []TemplateExerciseInput) *ValidationError {
	for i, ex := range exercises {
		if err := validateExerciseFields(i, ex.ExerciseName, ex.DefaultWeight, ex.DefaultReps, ex.DefaultSets); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWorkoutExercises validates the whole exercise list for a workout.
func ValidateWorkoutExercises(exercises []WorkoutExerciseInput) *ValidationError {
	for i, ex := range exercises {
		if err := validateExerciseFields(i, ex.ExerciseName, ex.Weight, ex.Reps, ex.Sets); err != nil {
			return err
		}
	}
	return nil
}
