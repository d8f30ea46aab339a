package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// ErrorKind classifies core errors so the HTTP layer can map them to
// status codes without leaking storage-layer detail.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindValidation   ErrorKind = "validation"
	KindInsufficient ErrorKind = "insufficient_resource"
	KindExternal     ErrorKind = "external_service"
)

// Error is a core error with a stable kind and a message safe to show
// to callers.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	if e.Kind == KindNotFound {
		return ErrNotFound
	}
	return nil
}

// Is matches two kinded errors; an empty message on the target acts as
// a kind-only match.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
	}
	return false
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Insufficientf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficient, Message: fmt.Sprintf(format, args...)}
}

// Externalf wraps a collaborator failure; the cause stays internal.
func Externalf(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindExternal, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the kind from err, defaulting to external for plain
// errors so unknown failures never surface as client mistakes.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindExternal
}
