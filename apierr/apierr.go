// Package apierr carries an HTTP status alongside an error message so that
// failures from validation, upstream services and internal faults can be
// relayed to the caller with the right status code.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failure that knows which HTTP status it should be reported with.
type Error struct {
	// Status is the HTTP status code relayed to the caller
	Status int

	// Message is the human readable reason, sent as {"error": Message}
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// New builds an Error with an explicit status.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// BadRequest is a client input failure. No upstream call should have been made.
func BadRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure as a 500 with the raw error message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
}

// StatusOf reports the status and message to use for err.
// Anything that is not an *Error is treated as internal.
func StatusOf(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Message
	}
	return http.StatusInternalServerError, err.Error()
}
