package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Repository errors (1xxx)
	ErrCodeRepoNotFound     ErrorCode = "DSE1001"
	ErrCodeRepoInvalid      ErrorCode = "DSE1002"
	ErrCodeHistoryWalk      ErrorCode = "DSE1003"
	ErrCodeRemoteNotFound   ErrorCode = "DSE1004"
	ErrCodeRemoteUnparsable ErrorCode = "DSE1005"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound   ErrorCode = "DSE2001"
	ErrCodeConfigInvalid    ErrorCode = "DSE2002"
	ErrCodeConfigPermission ErrorCode = "DSE2003"

	// Document errors (3xxx)
	ErrCodeDocumentsNotFound  ErrorCode = "DSE3001"
	ErrCodeDocumentUnreadable ErrorCode = "DSE3002"

	// File system errors (5xxx)
	ErrCodeFileNotFound   ErrorCode = "DSE5001"
	ErrCodeFilePermission ErrorCode = "DSE5002"
	ErrCodeFileOperation  ErrorCode = "DSE5003"

	// Validation errors (6xxx)
	ErrCodeInvalidInput ErrorCode = "DSE6001"

	// System errors (9xxx)
	ErrCodeInternal ErrorCode = "DSE9001"
	ErrCodeCanceled ErrorCode = "DSE9002"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // Nothing can be produced
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with reduced output
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with AppError. It returns nil for a nil error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	var ae *AppError
	if errors.As(err, &ae) {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' value in dossiers.yaml", field),
			"Remove the field to fall back to its default",
		)
}

// FileError wraps a file system error, picking the code from the cause
func FileError(path string, cause error) *AppError {
	code := ErrCodeFileOperation
	switch {
	case errors.Is(cause, fs.ErrNotExist):
		code = ErrCodeFileNotFound
	case errors.Is(cause, fs.ErrPermission):
		code = ErrCodeFilePermission
	}

	return Wrap(cause, code, fmt.Sprintf("File operation failed for %s", path)).
		WithContext("path", path)
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}
