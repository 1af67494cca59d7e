package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotVerified    = errors.New("user not verified")
	ErrUserInactive       = errors.New("user inactive")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrInvalidOperation   = errors.New("invalid operation")
)

// Stable machine-readable error codes surfaced to API clients.
const (
	CodeInternalError = "INTERNAL_SERVER_ERROR"
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"

	CodeUserAlreadyExists   = "REGISTER_USER_ALREADY_EXISTS"
	CodeBadCredentials      = "LOGIN_BAD_CREDENTIALS"
	CodeUserNotVerified     = "LOGIN_USER_NOT_VERIFIED"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeUserInactive        = "USER_INACTIVE"
	CodeVerifyBadToken      = "VERIFY_USER_BAD_TOKEN"
	CodeAlreadyVerified     = "VERIFY_USER_ALREADY_VERIFIED"
	CodeResetBadToken       = "RESET_PASSWORD_BAD_TOKEN"
	CodeInvalidPassword     = "UPDATE_USER_INVALID_PASSWORD"
	CodeEmailAlreadyExists  = "UPDATE_USER_EMAIL_ALREADY_EXISTS"
	CodeUnsupportedFileSize = "UNSUPPORTED_FILE_SIZE"
	CodeExtensionNotAllowed = "FILE_EXTENSION_NOT_ALLOWED"

	CodeTeamNotFound     = "DOES_NOT_EXIST"
	CodeCannotCreateTeam = "CANNOT_CREATE_TEAM"
	CodeNotOwner         = "NOT_OWNER"
	CodeMaxMembers       = "MAX_MEMBERS"
	CodeAlreadyInTeam    = "ALREADY_IN_TEAM"
	CodeOwnerCannotLeave = "OWNER_CANNOT_LEAVE"
	CodeNotTeamMember    = "NOT_TEAM_MEMBER"
)

// AppError carries an HTTP status and a stable machine-readable code
// alongside the human message.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors

func NotFound(code, message string) *AppError {
	return NewAppError(http.StatusNotFound, code, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func PermissionDenied(code, message string) *AppError {
	return NewAppError(http.StatusForbidden, code, message, ErrForbidden)
}

func Conflict(code, message string) *AppError {
	return NewAppError(http.StatusConflict, code, message, ErrAlreadyExists)
}

func CapacityExceeded(code, message string) *AppError {
	return NewAppError(http.StatusBadRequest, code, message, ErrCapacityExceeded)
}

func InvalidOperation(code, message string) *AppError {
	return NewAppError(http.StatusBadRequest, code, message, ErrInvalidOperation)
}

func InvalidToken(code, message string) *AppError {
	return NewAppError(http.StatusBadRequest, code, message, ErrInvalidToken)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}
