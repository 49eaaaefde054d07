package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors surfaced by the transport.
var (
	// ErrSessionExpired means the refresh credential was rejected. The session
	// layer treats this as a forced logout.
	ErrSessionExpired = errors.New("session expired")
)

// ErrorKind tags the two error payload shapes the backend produces.
type ErrorKind int

const (
	// Flat is a single human-readable message ({"detail": "..."} or plain text).
	Flat ErrorKind = iota
	// Fielded is a field-keyed validation map ({"phone_number": ["Invalid format"]}).
	Fielded
)

// Error is the structured failure returned by every transport call that
// reached the server. Rendering code branches on Kind instead of probing the
// payload shape.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Kind == Fielded {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
		}
		return fmt.Sprintf("validation failed (%d): %s", e.Status, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

// FieldError returns the first message recorded for a field, or "".
func (e *Error) FieldError(field string) string {
	if e == nil || e.Kind != Fielded {
		return ""
	}
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// IsValidation reports whether err is a field-keyed server rejection.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == Fielded
}

// decodeError converts a non-2xx response body into an *Error. The backend
// answers writes with either a DRF-style validation map or a flat
// {"detail": ...} object; anything undecodable falls back to the raw body.
func decodeError(status int, body []byte) *Error {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return &Error{Kind: Flat, Status: status, Message: fmt.Sprintf("server returned %d", status)}
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return &Error{Kind: Flat, Status: status, Message: trimmed}
	}

	if raw, ok := payload["detail"]; ok {
		var detail string
		if err := json.Unmarshal(raw, &detail); err == nil {
			return &Error{Kind: Flat, Status: status, Message: detail}
		}
	}

	fields := make(map[string][]string, len(payload))
	for key, raw := range payload {
		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err == nil {
			fields[key] = msgs
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil {
			fields[key] = []string{msg}
			continue
		}
		// Nested objects and numbers are flattened to their raw form so the
		// message is never lost.
		fields[key] = []string{string(raw)}
	}
	return &Error{Kind: Fielded, Status: status, Fields: fields}
}
