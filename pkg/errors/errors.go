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

// Predefined errors for common scenarios.
var (
	// ErrAlreadySubmitted rejects a second submission for the same day. The
	// caller is told explicitly that no new write occurred.
	ErrAlreadySubmitted = New("ALREADY_SUBMITTED", http.StatusConflict, "attendance already submitted for today")
	// ErrDuplicateDay is the storage-level guard for one finalized record per
	// day. Seeing it outside a submit race indicates a coordination bug.
	ErrDuplicateDay = New("DUPLICATE_DAY", http.StatusConflict, "history already holds a record for this day")
	// ErrRosterUnavailable means the session cannot initialize; callers must
	// never fall back to an empty roster.
	ErrRosterUnavailable = New("ROSTER_UNAVAILABLE", http.StatusServiceUnavailable, "student roster unavailable")
	// ErrNotification marks a failed absentee dispatch. Best effort only; it
	// never rolls back a committed day.
	ErrNotification = New("NOTIFICATION_FAILED", http.StatusBadGateway, "absentee notification failed")
	// ErrExport marks a failed day export. Best effort only.
	ErrExport = New("EXPORT_FAILED", http.StatusBadGateway, "attendance export failed")

	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden  = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrKeyNotFound reports an absent key in the durable KV store.
	ErrKeyNotFound = New("KEY_NOT_FOUND", http.StatusNotFound, "key not found")
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

// Is reports whether err matches the target typed error by code.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == target.Code
}
