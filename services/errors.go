package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind classifies an expected failure
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindInvalidState      ErrorKind = "invalid_state"
	KindDependency        ErrorKind = "dependency"
	KindUnavailable       ErrorKind = "unavailable"
)

// AppError is a typed failure returned by every service operation. Code is
// stable and machine readable; Message is meant for people.
type AppError struct {
	Kind    ErrorKind
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

// Retryable reports whether the same call may succeed later
func (e *AppError) Retryable() bool {
	return e.Kind == KindDependency
}

func ValidationError(code, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message}
}

func UnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

func NotFoundError(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

func ConflictError(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

func InvalidTransitionError(message string) *AppError {
	return &AppError{Kind: KindInvalidTransition, Code: "INVALID_TRANSITION", Message: message}
}

func InvalidStateError(code, message string) *AppError {
	return &AppError{Kind: KindInvalidState, Code: code, Message: message}
}

// DependencyError wraps a failure of the store or an external gateway
func DependencyError(message string, err error) *AppError {
	return &AppError{Kind: KindDependency, Code: "DEPENDENCY_FAILURE", Message: message, Err: err}
}

// UnavailableError reports a feature this deployment has switched off.
// Retrying will not help until the operator configures it.
func UnavailableError(code, message string) *AppError {
	return &AppError{Kind: KindUnavailable, Code: code, Message: message}
}

// AsAppError extracts an *AppError from err
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *AppError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}

// isUniqueViolation recognises unique constraint failures whether or not the
// driver translated them (works with both PostgreSQL and SQLite)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFound error and anything
// else to a dependency failure
func notFoundOr(err error, code, message string) *AppError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError(code, message)
	}
	return DependencyError("database error", err)
}
