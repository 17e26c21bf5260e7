package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of the
// innermost AppError if there is one.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return err != nil && GetCode(err) == code
}

// IsValidation reports whether err is a user-correctable input error
func IsValidation(err error) bool {
	switch GetCode(err) {
	case CodeMissingField, CodeInvalidClass, CodeInvalidMarks, CodeInvalidInput:
		return true
	}
	return false
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeInternalError = "INTERNAL_ERROR"
	CodeInvalidInput  = "INVALID_INPUT"

	CodeMissingField = "MISSING_FIELD"
	CodeInvalidClass = "INVALID_CLASS"
	CodeInvalidMarks = "INVALID_MARKS"

	CodeStorageRead  = "STORAGE_READ"
	CodeStorageWrite = "STORAGE_WRITE"

	CodeEmptyView = "EMPTY_VIEW"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func MissingField(field string) *AppError {
	return New(CodeMissingField, fmt.Sprintf("%s is required", field))
}

func InvalidClass(class string) *AppError {
	return New(CodeInvalidClass, fmt.Sprintf("class %q is not one of the offered classes", class))
}

func InvalidMarks(message string) *AppError {
	return New(CodeInvalidMarks, message)
}

// StorageRead reports a failure to read or parse the backing file
func StorageRead(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeStorageRead,
		Message: fmt.Sprintf("failed to read %s", path),
		Cause:   cause,
	}
}

// StorageWrite reports a failure to persist the backing file
func StorageWrite(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeStorageWrite,
		Message: fmt.Sprintf("failed to write %s", path),
		Cause:   cause,
	}
}

// ErrEmptyView is returned by aggregates that have no defined value over zero rows
var ErrEmptyView = New(CodeEmptyView, "no records in view")
