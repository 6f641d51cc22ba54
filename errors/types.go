package errors

import (
	"net/http"
)

// NewError creates a new GlintError with the given parameters.
// It is a general-purpose constructor that allows full control over
// the error's fields. For most cases, you should use one of the
// specialized constructors below.
//
// Example:
//
//	err := NewError(InternalError, "encoding failed", 500, "req_123", nil, encErr)
func NewError(errType ErrorType, message string, code int, requestID string, details map[string]interface{}, err error) *GlintError {
	return &GlintError{
		Type:      errType,
		Message:   message,
		Code:      code,
		RequestID: requestID,
		Details:   details,
		err:       err,
	}
}

// NewValidationError creates a validation error with appropriate defaults.
// Use this for any request validation failures, such as:
//   - Missing or non-string prompt fields
//   - Missing multipart file fields
//   - Value constraint violations
//
// Example:
//
//	err := NewValidationError("req_123", "Invalid prompt", map[string]interface{}{
//	    "field": "prompt",
//	    "error": "must not be empty",
//	})
func NewValidationError(requestID, message string, validationDetails map[string]interface{}) *GlintError {
	return &GlintError{
		Type:      ValidationError,
		Message:   message,
		Code:      http.StatusBadRequest,
		RequestID: requestID,
		Details:   validationDetails,
	}
}

// NewUpstreamError creates an upstream error with appropriate defaults.
// Use this when the generation API call fails, such as:
//   - Non-2xx responses from the generation endpoint
//   - Transport failures reaching the endpoint
//
// Per-request failures from the generation API surface as 500 to clients;
// the underlying message travels in the error field.
//
// Example:
//
//	err := NewUpstreamError("req_123", "generation call failed", callErr)
func NewUpstreamError(requestID string, message string, err error) *GlintError {
	return &GlintError{
		Type:      UpstreamError,
		Message:   message,
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}

// NewUnavailableError creates an error for requests rejected while the
// circuit breaker is open.
func NewUnavailableError(requestID string, err error) *GlintError {
	return &GlintError{
		Type:      UpstreamError,
		Message:   "generation API temporarily unavailable",
		Code:      http.StatusServiceUnavailable,
		RequestID: requestID,
		err:       err,
	}
}

// NewInternalError creates an internal server error with appropriate defaults.
// Use this for unexpected errors that are not covered by other error types:
//   - Panics
//   - Response encoding failures
//   - Unexpected system failures
//
// Example:
//
//	err := NewInternalError("req_123", encErr)
func NewInternalError(requestID string, err error) *GlintError {
	return &GlintError{
		Type:      InternalError,
		Message:   "An internal error occurred",
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}

// NewNotFoundError creates a not found error with appropriate defaults.
func NewNotFoundError(requestID, message string) *GlintError {
	return &GlintError{
		Type:      NotFoundError,
		Message:   message,
		Code:      http.StatusNotFound,
		RequestID: requestID,
	}
}
