package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so callers can choose the right user-facing response
// without string matching on messages.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInvalidState Kind = "INVALID_STATE"
	KindValidation   Kind = "VALIDATION_FAILURE"
	KindStaleState   Kind = "STALE_STATE"
	KindConflict     Kind = "CONFLICT"
	KindRateLimited  Kind = "RATE_LIMITED"
	KindFatal        Kind = "FATAL"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so clones with custom
// messages still match their predefined sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, kind Kind, status int, message string) *Error {
	return &Error{Code: code, Kind: kind, Status: status, Message: message}
}

// Wrap attaches a cause to a copy of base using the provided message.
func Wrap(err error, base *Error, message string) *Error {
	wrapped := Clone(base, message)
	if wrapped == nil {
		wrapped = Clone(ErrInternal, message)
	}
	wrapped.Err = err
	return wrapped
}

// Predefined errors for common scenarios.
var (
	ErrNotFound        = New("NOT_FOUND", KindNotFound, http.StatusNotFound, "resource not found")
	ErrUnauthenticated = New("UNAUTHENTICATED", KindUnauthorized, http.StatusUnauthorized, "authentication required")
	ErrForbidden       = New("FORBIDDEN", KindUnauthorized, http.StatusForbidden, "forbidden")
	ErrInvalidState    = New("INVALID_STATE", KindInvalidState, http.StatusConflict, "transition not allowed from current state")
	ErrValidation      = New("VALIDATION_ERROR", KindValidation, http.StatusBadRequest, "validation failed")
	ErrStaleState      = New("STALE_STATE", KindStaleState, http.StatusConflict, "assessment was modified concurrently")
	ErrConflict        = New("CONFLICT", KindConflict, http.StatusConflict, "conflict")
	ErrTooManyRequests = New("TOO_MANY_REQUESTS", KindRateLimited, http.StatusTooManyRequests, "too many requests")
	ErrInternal        = New("INTERNAL_ERROR", KindFatal, http.StatusInternalServerError, "internal server error")
	ErrCacheMiss       = New("CACHE_MISS", KindNotFound, http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal, ErrInternal.Message)
}

// KindOf returns the classification of err; unknown errors are fatal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return FromError(err).Kind
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
