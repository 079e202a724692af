package errors

import (
	"fmt"
)

// PlatformError is an error annotated with an ErrorCode.
type PlatformError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PlatformError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *PlatformError) Unwrap() error {
	return e.Err
}

// New creates a PlatformError without an underlying cause.
func New(code ErrorCode, message string) *PlatformError {
	return &PlatformError{Code: code, Message: message}
}

// Wrap annotates err with code. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &PlatformError{Code: code, Message: message, Err: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}
