// Package errors provides enhanced error types with helpful context and suggestions
package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Completion service errors
	ErrCodeCompletionFailed ErrorCode = "COMPLETION_REQUEST_FAILED"
	ErrCodeCompletionKey    ErrorCode = "COMPLETION_KEY_MISSING"

	// Data store errors
	ErrCodeStoreMisconfigured ErrorCode = "STORE_MISCONFIGURED"
	ErrCodeStoreQuery         ErrorCode = "STORE_QUERY_FAILED"

	// Input validation errors
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingRequired ErrorCode = "MISSING_REQUIRED_FIELD"

	// Authentication errors
	ErrCodeNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"

	// History errors
	ErrCodeHistoryRead  ErrorCode = "HISTORY_READ_FAILED"
	ErrCodeHistoryWrite ErrorCode = "HISTORY_WRITE_FAILED"
)

// EnhancedError represents an error with additional context and helpful information
type EnhancedError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if e.Details != "" {
		sb.WriteString(fmt.Sprintf(": %s", e.Details))
	}
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(" (cause: %v)", e.Cause))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error chain unwrapping
func (e *EnhancedError) Unwrap() error {
	return e.Cause
}

// New creates a new EnhancedError
func New(code ErrorCode, message string) *EnhancedError {
	return &EnhancedError{
		Code:     code,
		Message:  message,
		Metadata: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with enhanced context
func Wrap(err error, code ErrorCode, message string) *EnhancedError {
	return &EnhancedError{
		Code:     code,
		Message:  message,
		Cause:    err,
		Metadata: make(map[string]interface{}),
	}
}

// WithDetails adds detailed information about the error
func (e *EnhancedError) WithDetails(details string) *EnhancedError {
	e.Details = details
	return e
}

// WithSuggestion adds a suggestion on how to fix the error
func (e *EnhancedError) WithSuggestion(suggestion string) *EnhancedError {
	e.Suggestion = suggestion
	return e
}

// WithMetadata adds additional metadata to the error
func (e *EnhancedError) WithMetadata(key string, value interface{}) *EnhancedError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Common error constructors with pre-configured messages

// NewStoreMisconfiguredError creates an error for missing or malformed store credentials
func NewStoreMisconfiguredError(field string) *EnhancedError {
	return New(ErrCodeStoreMisconfigured, "Data store is misconfigured").
		WithDetails(fmt.Sprintf("Connection setting '%s' is missing or malformed", field)).
		WithSuggestion("Check SUPABASE_URL and SUPABASE_ANON_KEY. The URL must include the protocol and the key must be non-empty.").
		WithMetadata("field", field)
}

// NewStoreQueryError creates an error for data store request failures
func NewStoreQueryError(err error, table string) *EnhancedError {
	return Wrap(err, ErrCodeStoreQuery, "Data store query failed").
		WithDetails(fmt.Sprintf("Failed to fetch records from the '%s' table", table)).
		WithSuggestion("The transactional store may be unavailable. Try the question again in a moment.").
		WithMetadata("table", table)
}

// NewCompletionKeyError creates an error for a missing completion service API key
func NewCompletionKeyError() *EnhancedError {
	return New(ErrCodeCompletionKey, "Completion service API key is not set").
		WithSuggestion("Set GROQ_API_KEY before sending questions that require intent extraction.")
}

// NewCompletionError creates an error for completion service failures
func NewCompletionError(err error) *EnhancedError {
	return Wrap(err, ErrCodeCompletionFailed, "Completion service request failed").
		WithDetails("The language model could not be reached or returned an error").
		WithMetadata("retryable", true)
}

// NewInvalidInputError creates an error for invalid request input
func NewInvalidInputError(field string, reason string) *EnhancedError {
	return New(ErrCodeInvalidInput, "Invalid input").
		WithDetails(fmt.Sprintf("Field '%s' is invalid: %s", field, reason)).
		WithSuggestion("Send a JSON body of the form {\"question\": \"What was my revenue last month?\"}.")
}

// NewNotAuthenticatedError creates an error for unauthenticated requests
func NewNotAuthenticatedError() *EnhancedError {
	return New(ErrCodeNotAuthenticated, "Authentication required").
		WithDetails("This endpoint requires a valid bearer token").
		WithSuggestion("Include an 'Authorization: Bearer <token>' header signed with the configured secret.")
}

// NewHistoryReadError creates an error for history retrieval failures
func NewHistoryReadError(err error) *EnhancedError {
	return Wrap(err, ErrCodeHistoryRead, "Failed to read question history").
		WithMetadata("retryable", true)
}

// NewHistoryWriteError creates an error for history journal failures
func NewHistoryWriteError(err error) *EnhancedError {
	return Wrap(err, ErrCodeHistoryWrite, "Failed to record question history").
		WithSuggestion("The journal is best effort; check Redis connectivity if entries keep going missing.")
}
