package shared

import (
	"errors"
	"net/http"
)

// Sentinel errors for the focus session state machine.
var (
	// ErrAlreadyRunning is returned when a start is attempted while an open
	// session already exists for the (participant, challenge) pair.
	ErrAlreadyRunning = errors.New("focus session already running")

	// ErrNotRunning is returned when a stop finds no open session. Callers
	// racing a teardown close treat it as a no-op.
	ErrNotRunning = errors.New("no focus session running")
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, err error, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return NewAppError(http.StatusBadRequest, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return NewAppError(http.StatusUnauthorized, err, message)
}

func NewForbiddenError(err error, message string) *AppError {
	return NewAppError(http.StatusForbidden, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return NewAppError(http.StatusNotFound, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return NewAppError(http.StatusConflict, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return NewAppError(http.StatusInternalServerError, err, message)
}

// NewTransientError marks a store failure as retryable. Callers must retry
// close operations rather than abandoning them, otherwise the session's
// duration would be lost.
func NewTransientError(err error, message string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
