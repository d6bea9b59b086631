package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"

	"penbridge/apierr"
)

// Result is the outcome of one logical upstream call. Exactly one of Body
// (on success) or Message (on failure) is meaningful.
type Result struct {
	// OK is true for a 2xx response with a JSON (or empty) body
	OK bool

	// Status is the upstream HTTP status, or 500 when no usable response arrived
	Status int

	// Body is the parsed JSON body of a successful response
	Body json.RawMessage

	// Message is the error message extracted from a failed response
	Message string
}

func success(status int, body json.RawMessage) Result {
	return Result{OK: true, Status: status, Body: body}
}

func failure(status int, message string) Result {
	return Result{Status: status, Message: message}
}

// Err returns nil for a successful result, otherwise an *apierr.Error that
// carries the upstream status and message.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return apierr.New(r.Status, r.Message)
}

// Decode unmarshals the success body into v.
func (r Result) Decode(v any) error {
	if !r.OK {
		return r.Err()
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return apierr.Internal(fmt.Errorf("failed to parse upstream response: %w", err))
	}
	return nil
}

// errorMessage pulls a message out of the common upstream error shapes:
// {"error": {"message": ...}}, {"message": ...} and {"error": "..."}.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
				return nested.Message
			}
		}
		if payload.Message != "" {
			return payload.Message
		}
		if len(payload.Error) > 0 {
			var plain string
			if json.Unmarshal(payload.Error, &plain) == nil && plain != "" {
				return plain
			}
		}
	}
	return fmt.Sprintf("Upstream request failed with status %d", status)
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}
