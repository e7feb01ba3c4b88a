// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Every gateway failure is normalized into an *APIError wrapping one of
// these sentinels, so callers branch with errors.Is and never inspect
// transport detail.
var (
	// ErrUnauthorized indicates a 401, or a protected request blocked
	// before send because no token is stored.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a 403: authenticated but not allowed.
	// No logout side effect.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates a 404 on an endpoint where the resource
	// must exist. Collection-by-owner endpoints never produce this;
	// their 404s decode as an empty result instead.
	ErrNotFound = errors.New("not found")

	// ErrServer indicates a 5xx. The gateway does not retry these.
	ErrServer = errors.New("server error")

	// ErrNetwork indicates no usable response arrived.
	ErrNetwork = errors.New("network error")

	// ErrValidation indicates a 400/422 the backend rejected
	// field-by-field.
	ErrValidation = errors.New("validation failed")
)

// APIError is the one error shape the gateway surfaces: a readable
// message, a machine code mapped from the HTTP status, and optional
// per-field details for validation failures.
type APIError struct {
	Message string            // human-readable
	Code    string            // "unauthorized", "forbidden", "not_found", ...
	Status  int               // HTTP status, 0 for network failures
	Details map[string]string // field -> message, validation only

	err error // taxonomy sentinel
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("api error [%s]: %s", e.Code, e.Message)
}

// Unwrap returns the taxonomy sentinel for errors.Is matching.
func (e *APIError) Unwrap() error {
	return e.err
}

// newAPIError builds an APIError wrapping the given sentinel.
func newAPIError(sentinel error, status int, code, message string) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
		Status:  status,
		err:     sentinel,
	}
}

// codeForStatus maps an HTTP status to the machine code carried in
// APIError.Code.
func codeForStatus(status int) string {
	switch {
	case status == 401:
		return "unauthorized"
	case status == 403:
		return "forbidden"
	case status == 404:
		return "not_found"
	case status == 400 || status == 422:
		return "validation"
	case status >= 500:
		return "server_error"
	default:
		return "request_failed"
	}
}
