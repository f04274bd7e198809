package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Exit codes for adfctl
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitFileNotFound      = 2
	ExitPathConflict      = 3
	ExitToolUnavailable   = 4
	ExitConnectionFailure = 5
	ExitConfigError       = 6
	ExitNoFreeUnit        = 7
	ExitValidation        = 8
)

// AdfError is the base error type for adfctl
type AdfError struct {
	Code    int
	Message string
	Cause   error
}

func (e *AdfError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AdfError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *AdfError) ExitCode() int {
	return e.Code
}

// New creates a new AdfError
func New(code int, message string) *AdfError {
	return &AdfError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AdfError
func Wrap(code int, message string, cause error) *AdfError {
	return &AdfError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// FileNotFound returns an error for a missing config file, image or profile
func FileNotFound(path string) *AdfError {
	return New(ExitFileNotFound, fmt.Sprintf("not found: %s", path))
}

// PathConflict returns an error for a destination that already exists
func PathConflict(path string) *AdfError {
	return New(ExitPathConflict, fmt.Sprintf("exists: %s", path))
}

// ToolUnavailable returns an error for a missing external tool
func ToolUnavailable(tool string) *AdfError {
	return New(ExitToolUnavailable, fmt.Sprintf("%s not found", tool))
}

// ConnectionFailure returns an error carrying the control client's error string
func ConnectionFailure(resp string) *AdfError {
	return New(ExitConnectionFailure, resp)
}

// NoFreeUnit returns an error when every drive unit holds an image
func NoFreeUnit() *AdfError {
	return New(ExitNoFreeUnit, "no free unit")
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *AdfError {
	return Wrap(ExitConfigError, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *AdfError {
	return New(ExitValidation, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var adfErr *AdfError
	if errors.As(err, &adfErr) {
		return adfErr.ExitCode()
	}
	return ExitGeneralError
}

// HTTPStatus maps an error to the status code the web API responds with.
func HTTPStatus(err error) int {
	switch GetExitCode(err) {
	case ExitFileNotFound:
		return http.StatusNotFound
	case ExitPathConflict, ExitNoFreeUnit:
		return http.StatusConflict
	case ExitToolUnavailable:
		return http.StatusServiceUnavailable
	case ExitConnectionFailure:
		return http.StatusBadGateway
	case ExitValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
