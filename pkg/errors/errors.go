package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
	ErrConflict       = errors.New("conflict")
	ErrServiceUnavail = errors.New("service unavailable")
)

// Token-lifecycle sentinels. Each maps to a distinct 401 code on the wire so
// clients can tell whether to retry with a refresh token or force a re-login.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenMissing       = errors.New("authorization required")
	ErrFreshTokenRequired = errors.New("fresh token required")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a generic 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Conflict creates a 409 error for state conflicts that are not duplicates.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// The auth constructors below use lowercase codes: these strings are the
// machine-readable 401 bodies of the public API contract and clients match
// on them verbatim.

// InvalidCredentials creates a uniform 401 for a failed login. The same code
// is returned for an unknown username and for a wrong password so the
// endpoint cannot be used to enumerate users.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    "invalid_credentials",
		Message: "invalid username or password",
		Status:  http.StatusUnauthorized,
		Err:     ErrInvalidCredentials,
	}
}

// TokenExpired creates a 401 for a token past its expiry.
func TokenExpired() *AppError {
	return &AppError{
		Code:    "token_expired",
		Message: "the token has expired",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenExpired,
	}
}

// TokenRevoked creates a 401 for a blocklisted token.
func TokenRevoked() *AppError {
	return &AppError{
		Code:    "token_revoked",
		Message: "the token has been revoked",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenRevoked,
	}
}

// TokenInvalid creates a 401 for a token that fails signature or claim checks.
func TokenInvalid() *AppError {
	return &AppError{
		Code:    "invalid_token",
		Message: "signature verification failed",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenInvalid,
	}
}

// TokenMissing creates a 401 for a request without a usable bearer token.
func TokenMissing() *AppError {
	return &AppError{
		Code:    "authorization_required",
		Message: "request does not contain a valid access token",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenMissing,
	}
}

// FreshTokenRequired creates a 401 for a non-fresh token on an endpoint that
// requires direct password verification.
func FreshTokenRequired() *AppError {
	return &AppError{
		Code:    "fresh_token_required",
		Message: "a fresh token is required for this operation",
		Status:  http.StatusUnauthorized,
		Err:     ErrFreshTokenRequired,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenRevoked),
		errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenMissing),
		errors.Is(err, ErrFreshTokenRequired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
