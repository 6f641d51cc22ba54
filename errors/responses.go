// Package errors provides error response utilities.
package errors

import (
	"errors"
)

// ErrorResponse represents the standardized error response format
// returned to clients when an error occurs. It mirrors the JSON shape
// of GlintError: the human-readable message travels under "error".
type ErrorResponse struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"error"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// As is a wrapper around errors.As for better error type assertion
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
