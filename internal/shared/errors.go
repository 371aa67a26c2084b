package shared

import "errors"

var (
	// ErrSessionMissing indicates the request carries no session.
	ErrSessionMissing = errors.New("session missing")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
	// ErrPageNotNumeric rejects a go-to-page value that is not a number.
	ErrPageNotNumeric = errors.New("page must be a number")
	// ErrPageOutOfRange rejects a go-to-page value beyond the known page count.
	ErrPageOutOfRange = errors.New("page out of range")
)
