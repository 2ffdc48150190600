package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
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

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Stable error codes returned to clients.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
	CodeDataUnavailable    = "DATA_UNAVAILABLE"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeCacheMiss          = "CACHE_MISS"
)

var (
	ErrNotFound     = New(CodeNotFound, http.StatusNotFound, "resource not found")
	ErrForbidden    = New(CodeForbidden, http.StatusForbidden, "forbidden")
	ErrUnauthorized = New(CodeUnauthorized, http.StatusUnauthorized, "unauthorized")
	ErrConflict     = New(CodeConflict, http.StatusConflict, "conflict")
	ErrValidation   = New(CodeValidation, http.StatusBadRequest, "validation failed")
	ErrInternal     = New(CodeInternal, http.StatusInternalServerError, "internal server error")

	// ErrDataUnavailable means a matching input (request, branch, pool, settings, counts) could not be read.
	ErrDataUnavailable = New(CodeDataUnavailable, http.StatusServiceUnavailable, "matching input data unavailable")
	// ErrPersistenceFailure means the candidate replacement was rolled back.
	ErrPersistenceFailure = New(CodePersistenceFailure, http.StatusInternalServerError, "failed to persist candidates")
	ErrCacheMiss          = New(CodeCacheMiss, http.StatusNotFound, "cache miss")
)

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code string) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Code == code {
				return true
			}
			err = e.Err
			continue
		}
		return false
	}
	return false
}

// Is matches on Code so clones and wrapped copies of a sentinel compare equal to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
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
