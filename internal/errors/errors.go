package errors

import (
	"fmt"
)

// GuideError is the structured error type for CityGuide.
// It carries the context needed for error handling, logging, and
// user presentation.
type GuideError struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *GuideError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GuideError) Unwrap() error {
	return e.Cause
}

// Is matches GuideErrors by code, enabling errors.Is.
func (e *GuideError) Is(target error) bool {
	if t, ok := target.(*GuideError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *GuideError) WithDetail(key, value string) *GuideError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *GuideError) WithSuggestion(suggestion string) *GuideError {
	e.Suggestion = suggestion
	return e
}

// New creates a GuideError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *GuideError {
	return &GuideError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a GuideError from an existing error.
func Wrap(code string, err error) *GuideError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *GuideError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *GuideError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *GuideError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if ge, ok := err.(*GuideError); ok {
		return ge.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if ge, ok := err.(*GuideError); ok {
		return ge.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a GuideError.
// Returns an empty string for other error types.
func GetCode(err error) string {
	if ge, ok := err.(*GuideError); ok {
		return ge.Code
	}
	return ""
}

// GetCategory extracts the category from a GuideError.
func GetCategory(err error) Category {
	if ge, ok := err.(*GuideError); ok {
		return ge.Category
	}
	return ""
}
