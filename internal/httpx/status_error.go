package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// StatusError represents a non-2xx HTTP response from a vendor API.
type StatusError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the human-readable error extracted from the response
	// body, falling back to the standard status text.
	Message string

	// Body is the raw response body, capped at maxErrorBody bytes.
	Body []byte
}

// maxErrorBody caps how much of an error response body is retained.
const maxErrorBody = 4096

// Error formats the error as "HTTP <code>: <message>".
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewStatusError builds a StatusError from a status code and body.
// The message is pulled from common vendor error envelopes.
func NewStatusError(statusCode int, body []byte) *StatusError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{
		StatusCode: statusCode,
		Message:    extractMessage(statusCode, body),
		Body:       body,
	}
}

// extractMessage digs a message out of the usual vendor error shapes:
// {"message": ...}, {"error_description": ...}, {"error": ...},
// {"errors": [{"message": ...}]}. Falls back to the status text.
func extractMessage(statusCode int, body []byte) string {
	var envelope struct {
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            any    `json:"error"`
		Errors           []struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Message != "":
			return envelope.Message
		case envelope.ErrorDescription != "":
			return envelope.ErrorDescription
		case len(envelope.Errors) > 0 && envelope.Errors[0].Message != "":
			return envelope.Errors[0].Message
		case len(envelope.Errors) > 0 && envelope.Errors[0].Detail != "":
			return envelope.Errors[0].Detail
		}
		if s, ok := envelope.Error.(string); ok && s != "" {
			return s
		}
	}

	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return "unexpected status"
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, statusCode int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == statusCode
}

// IsAuth reports whether err is a 401 or 403 response.
func IsAuth(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
}

// IsThrottle reports whether err is a 429 response.
func IsThrottle(err error) bool {
	return IsStatus(err, http.StatusTooManyRequests)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
