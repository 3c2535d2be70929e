package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Manifest errors
	ErrManifestNotFound  ErrorCode = "MANIFEST_NOT_FOUND"
	ErrManifestMalformed ErrorCode = "MANIFEST_MALFORMED"
	ErrManifestInvalid   ErrorCode = "MANIFEST_INVALID"

	// Registry errors
	ErrAppNotFound     ErrorCode = "APP_NOT_FOUND"
	ErrAppExists       ErrorCode = "APP_EXISTS"
	ErrHandlerNotFound ErrorCode = "HANDLER_NOT_FOUND"
	ErrHandlerExists   ErrorCode = "HANDLER_EXISTS"
	ErrRegistryCorrupt ErrorCode = "REGISTRY_CORRUPT"
	ErrRegistryBusy    ErrorCode = "REGISTRY_BUSY"

	// Environment errors
	ErrBrowserNotFound ErrorCode = "BROWSER_NOT_FOUND"
	ErrEditorNotFound  ErrorCode = "EDITOR_NOT_FOUND"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// ForgeError represents a structured error with code and details
type ForgeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ForgeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ForgeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ForgeError) Is(target error) bool {
	var targetErr *ForgeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ForgeError with the given code and message
func New(code ErrorCode, message string) *ForgeError {
	return &ForgeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ForgeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ForgeError {
	return &ForgeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ForgeError
func Wrap(err error, code ErrorCode, message string) *ForgeError {
	if err == nil {
		return nil
	}
	return &ForgeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ForgeError {
	if err == nil {
		return nil
	}
	return &ForgeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ForgeError) WithDetail(key string, value interface{}) *ForgeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var forgeErr *ForgeError
	if errors.As(err, &forgeErr) {
		return forgeErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ForgeError
func GetErrorCode(err error) ErrorCode {
	var forgeErr *ForgeError
	if errors.As(err, &forgeErr) {
		return forgeErr.Code
	}
	return ErrUnknown
}

// IsUserError reports whether the error belongs to the user-input or
// validation class, as opposed to a system/environment failure. The CLI
// uses this to pick the exit code.
func IsUserError(err error) bool {
	switch GetErrorCode(err) {
	case ErrInvalidInput, ErrAppExists, ErrHandlerExists,
		ErrManifestInvalid, ErrManifestMalformed:
		return true
	}
	return false
}
