package errors

// Error code constants returned in the "error" field of failure responses.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own messaging.

const (
	// Authentication (AUTH_)
	AuthUnauthorized           = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials     = "AUTH_INVALID_CREDENTIALS" // wrong username/password
	AuthTokenExpired           = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid           = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked           = "AUTH_TOKEN_REVOKED"
	AuthWrongPassword          = "AUTH_WRONG_PASSWORD" // current password mismatch
	AuthUsernameExists         = "AUTH_USERNAME_EXISTS"
	AuthEmailExists            = "AUTH_EMAIL_EXISTS"
	AuthPasswordChangeRequired = "AUTH_PASSWORD_CHANGE_REQUIRED"

	// Authorization (AUTHZ_)
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// Validation (VALIDATION_)
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// Password reset (RESET_)
	ResetTokenInvalid = "RESET_TOKEN_INVALID" // unknown, expired or already used

	// Resources (RESOURCE_)
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Domain entities
	TemplateNotFound = "TEMPLATE_NOT_FOUND"
	WorkoutNotFound  = "WORKOUT_NOT_FOUND"
	UserNotFound     = "USER_NOT_FOUND"
	UserSelfDelete   = "USER_SELF_DELETE" // admins cannot delete their own account

	// Internal (INTERNAL_)
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalEmailError    = "INTERNAL_EMAIL_ERROR"
)
