package utils

import "net/http"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"

	// Forum-specific errors
	ErrThreadNotFound  = "THREAD_NOT_FOUND"
	ErrPostNotFound    = "POST_NOT_FOUND"
	ErrThreadLocked    = "THREAD_LOCKED"
	ErrContentRejected = "CONTENT_REJECTED"
	// ErrModerationFailure is a checker outage, distinct from a rejection.
	ErrModerationFailure = "MODERATION_ERROR"

	// Authentication/Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN"
	ErrInvalidToken = "INVALID_TOKEN"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"

	ErrDatabase = "DATABASE_ERROR"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NewThreadNotFoundError(threadID string) *AppError {
	return &AppError{
		Code:    ErrThreadNotFound,
		Message: "Thread not found: " + threadID,
	}
}

func NewPostNotFoundError(postID string) *AppError {
	return &AppError{
		Code:    ErrPostNotFound,
		Message: "Post not found: " + postID,
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: "Actor communication timeout: " + actorName,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrThreadNotFound, ErrPostNotFound:
		return http.StatusNotFound
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken:
		return http.StatusUnauthorized
	case ErrForbidden, ErrThreadLocked:
		return http.StatusForbidden
	case ErrDuplicate:
		return http.StatusConflict
	case ErrContentRejected:
		return http.StatusUnprocessableEntity
	case ErrDatabase, ErrActorTimeout, ErrModerationFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
