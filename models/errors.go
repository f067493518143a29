package models

import (
	"errors"
	"fmt"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeStore        = "STORE_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
)

// ErrorResponse is the JSON body written for every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError carries a machine-readable code alongside the user-facing message.
// Err holds the underlying cause and is never shown to clients for store failures.
type AppError struct {
	Code    string
	Message string
	Err     error
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

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

// NewStoreError wraps a backing store failure; operation reads like "count participations"
func NewStoreError(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeStore,
		Message: "failed to " + operation,
		Err:     err,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// ErrorCode returns the AppError code found in err's chain, or "" if there is none
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsValidationError(err error) bool {
	return ErrorCode(err) == CodeValidation
}

func IsNotFoundError(err error) bool {
	return ErrorCode(err) == CodeNotFound
}

func IsStoreError(err error) bool {
	return ErrorCode(err) == CodeStore
}
