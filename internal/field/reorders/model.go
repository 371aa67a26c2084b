// Package reorders records when a customer is expected to order again.
package reorders

import (
	"errors"
	"time"

	"github.com/fieldsales/backoffice/internal/screen"
)

// ErrDateInPast rejects an expected date before today.
var ErrDateInPast = errors.New("expected date must be today or later")

// Reorder is one expected reorder.
type Reorder struct {
	ID           int64  `json:"id"`
	CustomerID   int64  `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	ExpectedDate string `json:"expected_date"`
	Notes        string `json:"notes"`
}

// ReorderInput is the create/edit payload.
type ReorderInput struct {
	CustomerID   int64  `json:"customer_id" form:"customer_id" validate:"gt=0"`
	ProductName  string `json:"product_name" form:"product_name" validate:"required,max=150"`
	Quantity     int    `json:"quantity" form:"quantity" validate:"gt=0"`
	ExpectedDate string `json:"expected_date" form:"expected_date" validate:"required,datetime=2006-01-02"`
	Notes        string `json:"notes" form:"notes" validate:"max=1000"`
}

// CheckDate rejects an expected date before the day of now.
func (in ReorderInput) CheckDate(now time.Time) error {
	d, err := time.ParseInLocation(screen.DateLayout, in.ExpectedDate, now.Location())
	if err != nil {
		return err
	}
	if d.Before(screen.Today(now)) {
		return ErrDateInPast
	}
	return nil
}
