// Package unbilled reports active customers without an invoice in a date range.
package unbilled

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/screen"
)

const basePath = "/admin/reports/unbilled_customers"

var (
	// ErrBadDate rejects a range bound that is not YYYY-MM-DD.
	ErrBadDate = errors.New("unbilled: date must be YYYY-MM-DD")
	// ErrRangeOrder rejects a range whose start is after its end.
	ErrRangeOrder = errors.New("unbilled: from is after to")
)

// Customer is one row of the report.
type Customer struct {
	ID              int64  `json:"customer_id"`
	Name            string `json:"customer_name"`
	Phone           string `json:"phone"`
	SalesName       string `json:"sales_name"`
	LastInvoiceDate string `json:"last_invoice_date"`
}

// Range is an inclusive date range.
type Range struct {
	From time.Time
	To   time.Time
}

// DefaultRange runs from the first of the current month to today.
func DefaultRange(now time.Time) Range {
	today := screen.Today(now)
	return Range{From: today.AddDate(0, 0, 1-today.Day()), To: today}
}

// ParseRange reads from and to, falling back to def for missing bounds.
func ParseRange(from, to string, def Range) (Range, error) {
	out := def
	if from != "" {
		t, err := time.ParseInLocation(screen.DateLayout, from, def.From.Location())
		if err != nil {
			return def, ErrBadDate
		}
		out.From = t
	}
	if to != "" {
		t, err := time.ParseInLocation(screen.DateLayout, to, def.To.Location())
		if err != nil {
			return def, ErrBadDate
		}
		out.To = t
	}
	if out.From.After(out.To) {
		return out, ErrRangeOrder
	}
	return out, nil
}

// Values renders the range as query parameters.
func (r Range) Values() url.Values {
	return url.Values{"from": {screen.FormatDay(r.From)}, "to": {screen.FormatDay(r.To)}}
}

// Message is the toast for a rejected range.
func Message(err error) string {
	if errors.Is(err, ErrRangeOrder) {
		return "The start date must not be after the end date."
	}
	return "Dates must be in YYYY-MM-DD format."
}

// Repository reads the report upstream.
type Repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) List(ctx context.Context, query url.Values) (apiclient.Page[Customer], error) {
	return apiclient.ListPage[Customer](ctx, r.client, basePath, query)
}
