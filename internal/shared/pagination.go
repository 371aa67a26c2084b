package shared

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DefaultRowsPerPage is used when the request names no page size.
const DefaultRowsPerPage = 10

// RowsPerPageOptions lists the page sizes offered by every table.
var RowsPerPageOptions = []int{10, 25, 50, 100}

// Pager tracks the table position. Page is zero-based; the upstream API counts
// from one.
type Pager struct {
	Page        int
	RowsPerPage int
	Total       int
	TotalPages  int
}

// PageMeta is the pagination block returned by the upstream API.
type PageMeta struct {
	Page       int `json:"page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPager returns a pager at page zero.
func NewPager(rowsPerPage int) Pager {
	if !slices.Contains(RowsPerPageOptions, rowsPerPage) {
		rowsPerPage = DefaultRowsPerPage
	}
	return Pager{RowsPerPage: rowsPerPage}
}

// UpstreamPage converts the local page index to the one-based upstream page.
func (p Pager) UpstreamPage() int {
	return p.Page + 1
}

// DisplayPage is the one-based page shown to users.
func (p Pager) DisplayPage() int {
	return p.Page + 1
}

// SetRowsPerPage changes the page size and rewinds to the first page.
func (p *Pager) SetRowsPerPage(n int) {
	if !slices.Contains(RowsPerPageOptions, n) {
		n = DefaultRowsPerPage
	}
	p.RowsPerPage = n
	p.Page = 0
}

// GoTo moves to the one-based page typed by the user. On error the current page is kept.
func (p *Pager) GoTo(input string) error {
	input = strings.TrimSpace(input)
	n, err := strconv.Atoi(input)
	if err != nil {
		return fmt.Errorf("%q: %w", input, ErrPageNotNumeric)
	}
	if n < 1 || n > p.TotalPages {
		return fmt.Errorf("page %d of %d: %w", n, p.TotalPages, ErrPageOutOfRange)
	}
	p.Page = n - 1
	return nil
}

// Apply records the totals reported by the upstream API.
func (p *Pager) Apply(meta PageMeta) {
	p.Total = meta.Total
	p.TotalPages = meta.TotalPages
	if p.TotalPages == 0 && p.RowsPerPage > 0 && meta.Total > 0 {
		p.TotalPages = int(math.Ceil(float64(meta.Total) / float64(p.RowsPerPage)))
	}
}

// HasPrev reports whether a previous page exists.
func (p Pager) HasPrev() bool { return p.Page > 0 }

// HasNext reports whether a next page exists.
func (p Pager) HasNext() bool { return p.Page+1 < p.TotalPages }

// PageMessage converts a GoTo error into the toast shown to the user.
func PageMessage(err error, totalPages int) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPageNotNumeric):
		return "Please enter a page number."
	default:
		return fmt.Sprintf("Page must be between 1 and %d.", totalPages)
	}
}

// PagerFromQuery reads page, rows and last-known total pages from a query string.
// A "goto" value is validated against the known total pages; when it is rejected
// the pager keeps the previous page and the error is returned so the caller can
// show it without sending the bad value upstream.
func PagerFromQuery(q url.Values) (Pager, error) {
	rows, _ := strconv.Atoi(q.Get("rows"))
	p := NewPager(rows)
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		p.Page = page - 1
	}
	if known, err := strconv.Atoi(q.Get("pages")); err == nil && known > 0 {
		p.TotalPages = known
		if p.Page >= known {
			p.Page = known - 1
		}
	}
	if q.Has("rows_changed") {
		p.SetRowsPerPage(p.RowsPerPage)
	}
	if raw := q.Get("goto"); raw != "" {
		if err := p.GoTo(raw); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Query renders the pager back into query parameters for links.
func (p Pager) Query(page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page+1))
	q.Set("rows", strconv.Itoa(p.RowsPerPage))
	if p.TotalPages > 0 {
		q.Set("pages", strconv.Itoa(p.TotalPages))
	}
	return q
}
