package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a stable code and
// a user-facing message. The code, not the message, is the contract
// clients branch on.
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match wrapped copies of a predefined variant by code
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an underlying error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors. This is the closed set of failures the
// service exposes; storage-level errors are translated into one of
// these at the service boundary and never leak to the client.
var (
	// Validation
	ErrValidation = NewDomainError("VALIDATION_ERROR", "invalid input")

	// Registration / profile
	ErrDuplicateEmail = NewDomainError("DUPLICATE_EMAIL", "email already registered")
	ErrEmailInUse     = NewDomainError("EMAIL_IN_USE", "email already in use")

	// Authentication. Invalid credentials is deliberately generic:
	// unknown email and wrong password must be indistinguishable.
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrAuthRequired       = NewDomainError("AUTHENTICATION_REQUIRED", "authentication required")
	ErrTokenExpired       = NewDomainError("TOKEN_EXPIRED", "token expired")
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "invalid token")

	// Refresh flow. Absent and expired refresh tokens share one code to
	// avoid token enumeration.
	ErrInvalidRefreshToken = NewDomainError("INVALID_REFRESH_TOKEN", "invalid or expired refresh token")

	// Password change
	ErrIncorrectPassword = NewDomainError("INCORRECT_PASSWORD", "current password is incorrect")

	// Lookups
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user not found")

	// System
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error chain
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes. This is the
// only place the mapping lives; handlers never hardcode statuses for
// domain failures.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "VALIDATION_ERROR", "DUPLICATE_EMAIL", "EMAIL_IN_USE":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "INVALID_CREDENTIALS", "AUTHENTICATION_REQUIRED", "TOKEN_EXPIRED",
		"INVALID_TOKEN", "INVALID_REFRESH_TOKEN", "INCORRECT_PASSWORD":
		return http.StatusUnauthorized

	// 404 Not Found
	case "USER_NOT_FOUND":
		return http.StatusNotFound

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts a user-facing error message. Wrapped
// internal detail is never exposed.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}

// GetErrorCode extracts the stable code, defaulting to INTERNAL_ERROR
// for errors outside the taxonomy.
func GetErrorCode(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrInternal.Code
}
