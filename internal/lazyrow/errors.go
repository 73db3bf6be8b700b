package lazyrow

import (
	"errors"
	"fmt"
)

var (
	ErrNotBound        = errors.New("lazy row is not bound to a row")
	ErrColumnCount     = errors.New("column count does not match schema")
	ErrFieldOutOfRange = errors.New("field index out of range")
	ErrWildcardType    = errors.New("wildcard column needs a map field")
	ErrCompositeType   = errors.New("invalid composite type")
	ErrCompositeDecode = errors.New("cannot decode composite value")
)

// Error wraps a sentinel error with additional context
type Error struct {
	err     error  // The underlying sentinel error
	context string // Additional error context
	cause   error  // Optional error that triggered this one
}

// Error satisfies the error interface
func (e *Error) Error() string {
	msg := e.err.Error()
	if e.context != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.context)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is/As
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.err}
	}
	return []error{e.err, e.cause}
}

// newError creates a new lazy row error with context
func newError(err error, format string, args ...interface{}) *Error {
	return &Error{
		err:     err,
		context: fmt.Sprintf(format, args...),
	}
}

// wrapError is newError with the error that caused it attached
func wrapError(err, cause error, format string, args ...interface{}) *Error {
	e := newError(err, format, args...)
	e.cause = cause
	return e
}
