package utils

import (
	"errors"
	"net/http"
)

// Service-level errors shared by the web surface and the app shell.
var (
	ErrMissingConfig   = errors.New("missing_config")
	ErrInvalidConfig   = errors.New("invalid_config")
	ErrSessionNotFound = errors.New("session_not_found")
	ErrInvalidSession  = errors.New("invalid_session")
	ErrTooManySessions = errors.New("too_many_sessions")
)

// AppError carries an HTTP status and a public code alongside the cause.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
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

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
