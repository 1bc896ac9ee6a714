package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can pick a status code.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindBadRequest   Kind = "badrequest"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal_error"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

func BadRequest(format string, args ...any) *Error {
	return newf(KindBadRequest, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newf(KindConflict, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newf(KindUnauthorized, format, args...)
}

// Internal wraps an unexpected failure, keeping the cause for logs.
func Internal(err error, format string, args ...any) *Error {
	e := newf(KindInternal, format, args...)
	e.Err = err
	return e
}

// KindOf reports the kind of the first *Error in err's chain.
// Errors that carry no kind are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
