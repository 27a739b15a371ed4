package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the client-facing taxonomy.
const (
	CodeAuthFailed       = "AUTH_FAILED"
	CodeForbidden        = "FORBIDDEN"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNetworkError     = "NETWORK_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
)

// DomainError standardizes application errors across the client and the stub backend.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewAuthError marks rejected credentials or an expired/invalid token.
func NewAuthError(message string) error {
	return NewDomainError(CodeAuthFailed, message, http.StatusUnauthorized, nil)
}

// NewAuthorizationError marks an authenticated caller lacking the required role.
func NewAuthorizationError(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewValidationError marks a payload the backend (or a form) rejected.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewNetworkError wraps a transport or connectivity failure.
func NewNetworkError(err error) error {
	return &DomainError{
		Code:       CodeNetworkError,
		Message:    "network request failed",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewNotFound(resource string) error {
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// FromStatus maps an HTTP response status to the taxonomy, keeping the
// backend-provided message when one was decoded.
func FromStatus(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	switch status {
	case http.StatusUnauthorized:
		return NewAuthError(message)
	case http.StatusForbidden:
		return NewAuthorizationError(message)
	case http.StatusNotFound:
		return NewDomainError(CodeNotFound, message, status, nil)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return NewValidationError(message, nil)
	default:
		return NewDomainError(CodeInternalError, message, status, nil)
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func hasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// IsAuthError reports whether err denotes bad credentials or a stale token.
func IsAuthError(err error) bool { return hasCode(err, CodeAuthFailed) }

// IsAuthorizationError reports whether err denotes an insufficient role.
func IsAuthorizationError(err error) bool { return hasCode(err, CodeForbidden) }

// IsValidationError reports whether err denotes a rejected payload.
func IsValidationError(err error) bool { return hasCode(err, CodeValidationFailed) }

// IsNetworkError reports whether err denotes a transport failure.
func IsNetworkError(err error) bool { return hasCode(err, CodeNetworkError) }

// IsNotFound reports whether err denotes a missing entity.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }
