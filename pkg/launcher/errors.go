package launcher

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// LauncherError represents an error with additional context for troubleshooting.
type LauncherError struct {
	// Code identifies the error type
	Code ErrorCode

	// Message is the primary error message
	Message string

	// Context provides additional details
	Context map[string]interface{}

	// Cause is the underlying error (if any)
	Cause error

	// Suggestion provides actionable guidance for resolving the error
	Suggestion string
}

// ErrorCode identifies categories of errors
type ErrorCode string

const (
	// Invocation errors
	ErrorCodeUsage ErrorCode = "USAGE"

	// Mode file errors (fatal to the run)
	ErrorCodeConfigOpenFailed  ErrorCode = "CONFIG_OPEN_FAILED"
	ErrorCodeConfigReadFailed  ErrorCode = "CONFIG_READ_FAILED"
	ErrorCodeConfigTooLarge    ErrorCode = "CONFIG_TOO_LARGE"
	ErrorCodeConfigParseFailed ErrorCode = "CONFIG_PARSE_FAILED"

	// Mode selection errors (reported, run continues with zero launches)
	ErrorCodeModeNotFound     ErrorCode = "MODE_NOT_FOUND"
	ErrorCodeInvalidModeShape ErrorCode = "INVALID_MODE_SHAPE"

	// Process lifecycle errors
	ErrorCodeSpawnFailed ErrorCode = "SPAWN_FAILED"
	ErrorCodeWaitTimeout ErrorCode = "WAIT_TIMEOUT"
	ErrorCodeInterrupted ErrorCode = "INTERRUPTED"

	// Configuration errors
	ErrorCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
)

// Error implements the error interface
func (e *LauncherError) Error() string {
	var parts []string

	// Start with code and message
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add context if present, in stable key order
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		contextParts := make([]string, 0, len(keys))
		for _, k := range keys {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, fmt.Sprintf("Context: %s", strings.Join(contextParts, ", ")))
	}

	// Add underlying cause if present
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", e.Cause))
	}

	// Add suggestion if present
	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("Suggestion: %s", e.Suggestion))
	}

	return strings.Join(parts, "; ")
}

// Summary renders the message and cause on one line for the console
func (e *LauncherError) Summary() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

// Unwrap returns the underlying error for errors.Is/As compatibility
func (e *LauncherError) Unwrap() error {
	return e.Cause
}

// NewError creates a new LauncherError with the given code and message
func NewError(code ErrorCode, message string) *LauncherError {
	return &LauncherError{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *LauncherError) WithContext(key string, value interface{}) *LauncherError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause adds the underlying cause to the error
func (e *LauncherError) WithCause(cause error) *LauncherError {
	e.Cause = cause
	return e
}

// WithSuggestion adds an actionable suggestion to the error
func (e *LauncherError) WithSuggestion(suggestion string) *LauncherError {
	e.Suggestion = suggestion
	return e
}

// Common error constructors with helpful suggestions

// ErrUsage creates an error for a missing or malformed invocation
func ErrUsage(program string) *LauncherError {
	return NewError(ErrorCodeUsage,
		fmt.Sprintf("Usage: %s <mode_name>", program)).
		WithSuggestion("Available modes are defined in the mode file; list them with: " +
			program + " modes")
}

// ErrConfigOpenFailed creates an error for a mode file that cannot be opened
func ErrConfigOpenFailed(path string, cause error) *LauncherError {
	return NewError(ErrorCodeConfigOpenFailed,
		fmt.Sprintf("Failed to open %s", path)).
		WithContext("config_path", path).
		WithCause(cause).
		WithSuggestion("The mode file is resolved relative to the working directory; " +
			"run from the directory that holds it or pass --config")
}

// ErrConfigReadFailed creates an error for a mode file that cannot be read
func ErrConfigReadFailed(path string, cause error) *LauncherError {
	return NewError(ErrorCodeConfigReadFailed,
		fmt.Sprintf("Error reading file %s", path)).
		WithContext("config_path", path).
		WithCause(cause)
}

// ErrConfigTooLarge creates an error for a mode file over the read cap
func ErrConfigTooLarge(path string, limit int64) *LauncherError {
	return NewError(ErrorCodeConfigTooLarge,
		fmt.Sprintf("%s is larger than %d bytes", path, limit)).
		WithContext("config_path", path).
		WithContext("max_bytes", limit).
		WithSuggestion("Raise --max-config-bytes, set it to 0 for no limit, " +
			"or pass --truncate-config to parse only the first bytes")
}

// ErrConfigParseFailed creates an error for a malformed mode file.
// offset is the byte position of the first bad token, or -1 when unknown.
func ErrConfigParseFailed(path string, offset int64, cause error) *LauncherError {
	err := NewError(ErrorCodeConfigParseFailed,
		fmt.Sprintf("Failed to parse %s", path)).
		WithContext("config_path", path).
		WithCause(cause)
	if offset >= 0 {
		err.WithContext("offset", offset)
	}
	return err
}

// ErrModeNotFound creates an error for a mode that is missing or not an object
func ErrModeNotFound(mode, path string) *LauncherError {
	return NewError(ErrorCodeModeNotFound,
		fmt.Sprintf("Mode '%s' not found in %s", mode, path)).
		WithContext("mode", mode).
		WithContext("config_path", path).
		WithSuggestion("Mode names are case-sensitive")
}

// ErrInvalidModeShape creates an error for a mode whose apps entry is not an array
func ErrInvalidModeShape(mode string) *LauncherError {
	return NewError(ErrorCodeInvalidModeShape,
		fmt.Sprintf("'apps' is not an array in mode '%s'", mode)).
		WithContext("mode", mode).
		WithSuggestion(`Declare the mode as {"apps": ["/path/to/app", ...]}`)
}

// ErrSpawnFailed creates an error for an application the OS refused to start
func ErrSpawnFailed(path string, cause error) *LauncherError {
	return NewError(ErrorCodeSpawnFailed,
		fmt.Sprintf("Error spawning %s", path)).
		WithContext("path", path).
		WithCause(cause)
}

// ErrWaitTimeout creates an error for a bounded wait that expired
func ErrWaitTimeout(active int, cause error) *LauncherError {
	return NewError(ErrorCodeWaitTimeout,
		fmt.Sprintf("Stopped waiting with %d application(s) still running", active)).
		WithContext("active", active).
		WithCause(cause).
		WithSuggestion("Launched applications are detached and keep running")
}

// ErrInterrupted creates an error for a run cancelled before all
// applications exited
func ErrInterrupted(active int, cause error) *LauncherError {
	return NewError(ErrorCodeInterrupted,
		fmt.Sprintf("Interrupted with %d application(s) still running", active)).
		WithContext("active", active).
		WithCause(cause).
		WithSuggestion("Launched applications are detached and keep running")
}

// ErrInvalidConfiguration creates an error for configuration validation failures
func ErrInvalidConfiguration(field string, value interface{}, reason string) *LauncherError {
	return NewError(ErrorCodeInvalidConfiguration,
		fmt.Sprintf("Invalid configuration: %s", reason)).
		WithContext("field", field).
		WithContext("value", value)
}

// IsFatal reports whether err ends the run with a non-zero exit code.
// Mode selection and spawn errors are reported but never fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetErrorCode(err) {
	case ErrorCodeModeNotFound, ErrorCodeInvalidModeShape, ErrorCodeSpawnFailed:
		return false
	default:
		return true
	}
}

// IsErrorCode checks if an error has the specified error code
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// GetErrorCode returns the error code from an error, or empty string if not a LauncherError
func GetErrorCode(err error) ErrorCode {
	var launcherErr *LauncherError
	if errors.As(err, &launcherErr) {
		return launcherErr.Code
	}
	return ""
}

// GetSuggestion returns the suggestion from an error, or empty string if not available
func GetSuggestion(err error) string {
	var launcherErr *LauncherError
	if errors.As(err, &launcherErr) {
		return launcherErr.Suggestion
	}
	return ""
}
