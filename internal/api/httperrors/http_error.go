// Package httperrors defines the public error envelope returned by the HTTP
// API. Every error carries an HTTP status, a machine-readable type and a
// human-readable title; internal details stay server side.
package httperrors

import (
	"fmt"

	"github.com/kashguard/go-hdkey-infra/internal/types"
)

// HTTPError is rendered as the JSON error body by the server's error
// handler.
type HTTPError struct {
	Code     int                       `json:"status"`
	Type     types.PublicHTTPErrorType `json:"type"`
	Title    string                    `json:"title"`
	Internal error                     `json:"-"`
}

// NewHTTPError creates a public error with no internal cause attached.
func NewHTTPError(code int, errorType types.PublicHTTPErrorType, title string) *HTTPError {
	return &HTTPError{
		Code:  code,
		Type:  errorType,
		Title: title,
	}
}

// NewHTTPErrorWithInternal attaches a private cause for logging.
func NewHTTPErrorWithInternal(code int, errorType types.PublicHTTPErrorType, title string, internal error) *HTTPError {
	return &HTTPError{
		Code:     code,
		Type:     errorType,
		Title:    title,
		Internal: internal,
	}
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s: %v", e.Code, e.Type, e.Title, e.Internal)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

// Unwrap exposes the internal cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.Internal
}
