package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// GenericMessage is shown when the upstream gives no usable detail.
const GenericMessage = "Something went wrong. Please try again."

var (
	// ErrSessionExpired is returned after the upstream answered 403; the session
	// has already been logged out when callers see it.
	ErrSessionExpired = errors.New("apiclient: session expired")
	// ErrNotFound maps upstream 404 responses.
	ErrNotFound = errors.New("apiclient: not found")
)

// Error is a non-2xx upstream response.
type Error struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("apiclient: %s %s: %d: %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("apiclient: %s %s: %d", e.Method, e.Path, e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// UserMessage extracts the text to show in a toast for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrSessionExpired) {
		return "Your session has expired. Please sign in again."
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return GenericMessage
}

// upstream error bodies are not uniform across endpoints.
type errorBody struct {
	Message any `json:"message"`
	Error   any `json:"error"`
	Detail  any `json:"detail"`
	Errors  any `json:"errors"`
}

func detailFrom(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	for _, candidate := range []any{parsed.Message, parsed.Detail, parsed.Error, parsed.Errors} {
		if text := flatten(candidate); text != "" {
			return text
		}
	}
	return ""
}

func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if s := flatten(t["message"]); s != "" {
			return s
		}
		parts := make([]string, 0, len(t))
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if s := flatten(t[k]); s != "" {
				parts = append(parts, k+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}
