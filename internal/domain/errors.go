// Package domain provides the canonical types shared across the service:
// the error taxonomy, the response envelope, and the request model.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable classification of an API error.
type ErrorCode string

const (
	// ErrorCodeValidation indicates a malformed or invalid request.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrorCodeNotFound indicates a resource was not found.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrorCodeUnauthorized indicates an authentication failure.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// ErrorCodeForbidden indicates a permission/authorization failure.
	ErrorCodeForbidden ErrorCode = "FORBIDDEN"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal ErrorCode = "INTERNAL_SERVER_ERROR"

	// ErrorCodeServiceUnavailable indicates the service is temporarily down.
	ErrorCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// ErrorCodeExternalAPI indicates an upstream data API failure.
	ErrorCodeExternalAPI ErrorCode = "EXTERNAL_API_ERROR"
)

// statusForCode maps every error code to its fixed HTTP status.
var statusForCode = map[ErrorCode]int{
	ErrorCodeValidation:         http.StatusBadRequest,
	ErrorCodeNotFound:           http.StatusNotFound,
	ErrorCodeUnauthorized:       http.StatusUnauthorized,
	ErrorCodeForbidden:          http.StatusForbidden,
	ErrorCodeInternal:           http.StatusInternalServerError,
	ErrorCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrorCodeExternalAPI:        http.StatusBadGateway,
}

// APIError is the one error type used throughout the service. Behavior is
// data (status, code, details), so there is no hierarchy: every failure is an
// APIError carrying one of the seven codes above.
type APIError struct {
	// Status is the HTTP status code fixed to the error code.
	Status int `json:"status"`

	// Code is the machine-readable error classification.
	Code ErrorCode `json:"error_code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Details carries free-form structured context, e.g. the offending
	// parameters or an upstream API's raw error body.
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatusCode returns the HTTP status for this error, falling back to the
// code's fixed status when unset.
func (e *APIError) HTTPStatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	if status, ok := statusForCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithDetails replaces the structured details attached to the error.
func (e *APIError) WithDetails(details map[string]any) *APIError {
	e.Details = details
	return e
}

// WithDetail attaches a single structured detail to the error.
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewAPIError creates an error of the given code with its fixed HTTP status.
func NewAPIError(code ErrorCode, message string) *APIError {
	return &APIError{
		Status:  statusForCode[code],
		Code:    code,
		Message: message,
	}
}

// Convenience constructors, one per taxonomy kind.

// ErrValidation creates a validation error (400).
func ErrValidation(message string) *APIError {
	return NewAPIError(ErrorCodeValidation, message)
}

// ErrNotFound creates a not found error (404).
func ErrNotFound(message string) *APIError {
	return NewAPIError(ErrorCodeNotFound, message)
}

// ErrUnauthorized creates an authentication error (401).
func ErrUnauthorized(message string) *APIError {
	return NewAPIError(ErrorCodeUnauthorized, message)
}

// ErrForbidden creates a permission error (403).
func ErrForbidden(message string) *APIError {
	return NewAPIError(ErrorCodeForbidden, message)
}

// ErrInternal creates an internal server error (500).
func ErrInternal(message string) *APIError {
	return NewAPIError(ErrorCodeInternal, message)
}

// ErrServiceUnavailable creates a service unavailable error (503).
func ErrServiceUnavailable(message string) *APIError {
	return NewAPIError(ErrorCodeServiceUnavailable, message)
}

// ErrExternalAPI creates an external API error (502).
func ErrExternalAPI(message string) *APIError {
	return NewAPIError(ErrorCodeExternalAPI, message)
}

// ErrorEnvelope is the uniform JSON body written for every failed request.
// Data is always null.
type ErrorEnvelope struct {
	Status  int            `json:"status"`
	Data    any            `json:"data"`
	Message string         `json:"message"`
	Code    ErrorCode      `json:"error_code"`
	Details map[string]any `json:"details,omitempty"`
}

// ToEnvelope converts any error into an ErrorEnvelope. Taxonomy errors
// convert via their own status and code; anything else is presented as an
// internal error with the original message preserved under
// details.original_error. The conversion is total: it never fails, including
// on nil.
func ToEnvelope(err error) *ErrorEnvelope {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &ErrorEnvelope{
			Status:  apiErr.HTTPStatusCode(),
			Message: apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}
	}

	details := map[string]any{"original_error": "unknown"}
	if err != nil {
		details["original_error"] = err.Error()
	}
	return &ErrorEnvelope{
		Status:  http.StatusInternalServerError,
		Message: "an unexpected error occurred",
		Code:    ErrorCodeInternal,
		Details: details,
	}
}
