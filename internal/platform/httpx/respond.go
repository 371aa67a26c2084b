// Package httpx writes the JSON answers of the picker and job endpoints.
// Failures are RFC 7807 problem documents.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ProblemContentType is the media type of problem documents.
const ProblemContentType = "application/problem+json"

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends data with status. Answers depend on the caller's session, so
// they are never cached.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, "application/json", status, data)
}

// Problem sends an RFC7807 problem document.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	write(w, ProblemContentType, status, ProblemDetail{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

func write(w http.ResponseWriter, contentType string, status int, data any) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
