package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases.
// Use errors.Is() to check against these.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUpstream      = errors.New("upstream error")
	ErrRateLimited   = errors.New("rate limited")
	ErrNotConfigured = errors.New("backend not configured")
)

// APIError represents a structured error for API responses.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"` // HTTP status, not serialized
	Err        error  `json:"-"` // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a 404 error for missing resources.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: 404,
		Err:        ErrNotFound,
	}
}

// NewValidationError creates a 400 error for invalid input.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: 400,
		Err:        ErrInvalidInput,
	}
}

// NewUnauthorizedError creates a 401 error for auth failures.
func NewUnauthorizedError(reason string) *APIError {
	return &APIError{
		Code:       "UNAUTHORIZED",
		Message:    reason,
		StatusCode: 401,
		Err:        ErrUnauthorized,
	}
}

// NewUpstreamError creates a 502 error for backend failures.
func NewUpstreamError(err error) *APIError {
	return &APIError{
		Code:       "UPSTREAM_ERROR",
		Message:    "store backend request failed",
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrUpstream, err),
	}
}

// NewRateLimitError creates a 429 error for rate limiting.
func NewRateLimitError() *APIError {
	return &APIError{
		Code:       "RATE_LIMITED",
		Message:    "store backend rate limit exceeded, please retry later",
		StatusCode: 429,
		Err:        ErrRateLimited,
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: 500,
		Err:        err,
	}
}

// NewNotConfiguredError creates a 503 error for a missing backend setup.
// Read paths never surface this (they degrade to empty results); it exists
// for mutations, which cannot meaningfully soft-fail.
func NewNotConfiguredError() *APIError {
	return &APIError{
		Code:       "NOT_CONFIGURED",
		Message:    "store backend URL or publishable key is not configured",
		StatusCode: 503,
		Err:        ErrNotConfigured,
	}
}

// PartialFailureError reports a multi-line cart mutation that failed midway.
// Lines applied before the failure are NOT rolled back; the caller decides
// whether to retry the failed line or surface the partial state.
type PartialFailureError struct {
	Op       string   // "add", "update", or "remove"
	Applied  []string // ids successfully applied before the failure
	FailedID string   // id of the line that failed
	Err      error    // cause from the failing backend call
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("cart %s failed at %s after %d applied (%s): %v",
		e.Op, e.FailedID, len(e.Applied), strings.Join(e.Applied, ","), e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
