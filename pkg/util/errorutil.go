package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors and carries the HTTP status
// the boundary translates it to.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
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
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewValidationError(message string) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest)
}

func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized)
}

func NewConflict(message string) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict)
}

// NewInternalError wraps an unanticipated error. The message surfaced to
// clients stays fixed and generic; the cause is only for logs.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "Internal Server Error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Anything not part of
// the taxonomy collapses to the generic internal error.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		var notFound *DomainError
		if errors.As(NewNotFound("resource"), &notFound) {
			return notFound
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "Internal Server Error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
