package screen

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/shared"
)

// ListPager reads the pager from the query string. A rejected "go to page"
// value becomes a toast and the previous page is kept.
func (b Base) ListPager(r *http.Request) shared.Pager {
	pager, err := shared.PagerFromQuery(r.URL.Query())
	if err != nil {
		b.Flash(r, shared.FlashError, shared.PageMessage(err, pager.TotalPages))
	}
	return pager
}

// FormInt parses an integer form value, zero when absent or malformed.
func FormInt(r *http.Request, name string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue(name)), 10, 64)
	return n
}

// FormBool reads a checkbox.
func FormBool(r *http.Request, name string) bool {
	v := strings.ToLower(strings.TrimSpace(r.FormValue(name)))
	return v == "true" || v == "on" || v == "1"
}

// FormString reads a trimmed form value.
func FormString(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// DateLayout is the wire and form format of calendar dates.
const DateLayout = "2006-01-02"

// Today returns the current date at midnight in loc.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// FormatDay renders a date for form inputs and list cells.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ListFailed handles a failed table load. An expired session is redirected
// and true returned; any other error becomes a toast over an empty table.
func (b Base) ListFailed(w http.ResponseWriter, r *http.Request, err error) bool {
	if b.Expired(w, r, err) {
		return true
	}
	b.Logger.Warn("list load failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	b.Flash(r, shared.FlashError, apiclient.UserMessage(err))
	return false
}
