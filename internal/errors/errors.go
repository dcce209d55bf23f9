package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"funnelscope/domain/core"
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

// Wrap wraps an error with additional context, keeping its code
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

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain, or
// "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeEmptyInput        = "EMPTY_INPUT"
	CodeHeaderNotFound    = "HEADER_NOT_FOUND"
	CodeNoDataRows        = "NO_DATA_ROWS"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeReadFailure       = "READ_FAILURE"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// importCodes maps domain sentinels to codes, most specific first.
var importCodes = []struct {
	sentinel error
	code     string
}{
	{core.ErrEmptyInput, CodeEmptyInput},
	{core.ErrHeaderNotFound, CodeHeaderNotFound},
	{core.ErrNoDataRows, CodeNoDataRows},
	{core.ErrUnsupportedFormat, CodeUnsupportedFormat},
	{core.ErrReadFailure, CodeReadFailure},
	{core.ErrNotFound, CodeNotFound},
}

// FromImportError converts a domain error into an AppError carrying the
// matching code. AppErrors pass through unchanged.
func FromImportError(err error, message string) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	for _, m := range importCodes {
		if stderrors.Is(err, m.sentinel) {
			return &AppError{Code: m.code, Message: message, Cause: err}
		}
	}
	return &AppError{Code: CodeInternalError, Message: message, Cause: err}
}

// HTTPStatus maps an error code to a response status.
func HTTPStatus(code string) int {
	switch code {
	case CodeEmptyInput, CodeHeaderNotFound, CodeNoDataRows:
		return http.StatusUnprocessableEntity
	case CodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case CodeReadFailure, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
