package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Defensive fallbacks for configuration values outside the declared
// enumerations. Always fatal: they indicate a configuration or version
// mismatch between the host and this connector.
var (
	ErrUnknownResource  = errors.New("unknown resource")
	ErrUnknownOperation = errors.New("unknown operation")
)

// UpstreamFormatError reports a Directus response that is missing the
// expected data envelope or has the wrong shape. Never retried.
type UpstreamFormatError struct {
	Status  int
	Message string
}

func (e *UpstreamFormatError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("invalid response from Directus API (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("invalid response from Directus API: %s", e.Message)
}

// PermissionError reports an HTTP 403. The message is fixed so users can tell
// a token scope problem apart from a generic failure.
type PermissionError struct {
	Endpoint string
}

func (e *PermissionError) Error() string {
	return "Permission error: Token does not have access to this resource."
}

// NotFoundError reports an HTTP 404 on an introspection endpoint.
type NotFoundError struct {
	Endpoint string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Endpoint not found: %s", e.Endpoint)
}

// InvalidPayloadError reports user-supplied raw JSON that fails to parse.
// Raised before any network call.
type InvalidPayloadError struct {
	Cause error
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("Invalid JSON format: %v", e.Cause)
}

func (e *InvalidPayloadError) Unwrap() error { return e.Cause }

// ValidationError reports an unmet UI-level precondition, such as a missing
// email on a user invite. Raised before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// directusErrorBody is the error shape Directus returns in response bodies.
type directusErrorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Message string `json:"message"`
	Data    *struct {
		Message string `json:"message"`
	} `json:"data"`
}

// FormatErrorBody mines a human-readable message out of a Directus error
// response body. Falls back to the raw body when nothing recognizable is
// found, and to a fixed string when the body is empty.
func FormatErrorBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "An unknown error occurred"
	}

	var parsed directusErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if len(parsed.Errors) > 0 {
			messages := make([]string, 0, len(parsed.Errors))
			for _, e := range parsed.Errors {
				if e.Message != "" {
					messages = append(messages, e.Message)
				}
			}
			if len(messages) > 0 {
				return strings.Join(messages, ", ")
			}
		}
		if parsed.Data != nil && parsed.Data.Message != "" {
			return parsed.Data.Message
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return trimmed
}

// StatusError converts a non-2xx response into the matching taxonomy error.
func StatusError(status int, endpoint string, body []byte) error {
	switch status {
	case 403:
		return &PermissionError{Endpoint: endpoint}
	case 404:
		return &NotFoundError{Endpoint: endpoint}
	default:
		return fmt.Errorf("directus request failed (status %d): %s", status, FormatErrorBody(body))
	}
}
