// Package apperror defines the request-level error taxonomy: bad input maps
// to 400, auth failures to 401, storage faults to 500. Per-endpoint delivery
// failures are data, not errors, and never appear here.
package apperror

import (
	"fmt"
	"net/http"
)

// AppError represents an application error with its HTTP status.
type AppError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.Status
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{
		Status:  http.StatusUnauthorized,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
		Err:     err,
	}
}
