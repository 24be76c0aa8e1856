// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type that crosses the service/HTTP boundary.

Services translate repository sentinels and I/O failures into an [AppError];
handlers pass whatever they get to respond.Error, which renders the status and
the client-safe message.

Taxonomy:

  - VALIDATION_ERROR      400  malformed or missing input
  - UNAUTHENTICATED       401  no session, or a session that failed verification
  - INVALID_CREDENTIALS   401  login failure (uniform for unknown user / bad password)
  - FORBIDDEN             403  role insufficient
  - NOT_FOUND             404
  - conflicts             400/403 depending on the call site
  - RATE_LIMITED          429
  - STORAGE_FAILURE       500  file or database I/O
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Conflict codes used by the auth gateway.
const (
	CodeDuplicateUsername = "DUPLICATE_USERNAME"
	CodeLastSuperAdmin    = "LAST_SUPER_ADMIN"
	CodeSetupComplete     = "SETUP_COMPLETE"
	CodeCannotDeleteSelf  = "CANNOT_DELETE_SELF"

	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// AppError is the canonical API error.
//
// # Security
//
// Cause is for server-side logging only and is never serialised.
type AppError struct {
	// Code is a machine-readable identifier (e.g. "NOT_FOUND").
	Code string `json:"code"`
	// Message is safe to show to the client.
	Message string `json:"error"`
	// HTTPStatus is the response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error.
	Cause error `json:"-"`
	// Details holds per-field validation failures.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Unauthenticated creates a 401 [AppError].
func Unauthenticated(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHENTICATED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidCredentials is returned by login for both an unknown username and a
// wrong password so callers cannot enumerate accounts.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Invalid username or password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Product") // "Product not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a state conflict error. The status differs per call site:
// a duplicate username is a 400 while a repeated setup is a 403.
func Conflict(status int, code, msg string) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: status,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many attempts. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// StorageFailure wraps a file or database error. The message is generic; the
// cause is logged by the responder.
func StorageFailure(msg string, cause error) *AppError {
	return &AppError{
		Code:       "STORAGE_FAILURE",
		Message:    msg,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] for anything unexpected.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
