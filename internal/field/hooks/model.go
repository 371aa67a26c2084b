// Package hooks tracks how many display hooks of each category a customer
// has available and installed.
package hooks

import (
	"errors"
	"time"

	"github.com/fieldsales/backoffice/internal/listedit"
)

var (
	ErrNoCategory    = errors.New("hook category is required")
	ErrNegativeCount = errors.New("counts cannot be negative")
	ErrOverInstalled = errors.New("installed cannot exceed available")
	ErrDuplicateCat  = errors.New("category is already listed")
)

// Entry is the count of one hook category at the customer's shop.
type Entry struct {
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Available    int    `json:"available"`
	Installed    int    `json:"installed"`
}

// Validate checks a single entry.
func (e Entry) Validate() error {
	switch {
	case e.CategoryID <= 0:
		return ErrNoCategory
	case e.Available < 0 || e.Installed < 0:
		return ErrNegativeCount
	case e.Installed > e.Available:
		return ErrOverInstalled
	}
	return nil
}

// Counts is the editable numeric part of an entry.
type Counts struct {
	Available int
	Installed int
}

// Hook is one customer's submitted hook record.
type Hook struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Entries      []Entry   `json:"entries"`
	Active       bool      `json:"is_active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Totals sums the entry counts.
func (h Hook) Totals() Counts {
	var c Counts
	for _, e := range h.Entries {
		c.Available += e.Available
		c.Installed += e.Installed
	}
	return c
}

// HookInput is the create/edit payload.
type HookInput struct {
	CustomerID int64   `json:"customer_id"`
	Entries    []Entry `json:"entries"`
}

// Draft is a hook record being edited in the session.
type Draft struct {
	HookID       int64                   `json:"hook_id,omitempty"`
	CustomerID   int64                   `json:"customer_id,omitempty"`
	CustomerName string                  `json:"customer_name,omitempty"`
	Entries      *listedit.Editor[Entry] `json:"entries"`
}

// DraftStore keeps drafts between requests.
type DraftStore interface {
	SetJSON(key string, v any) error
	GetJSON(key string, dest any) (bool, error)
	Delete(key string)
}

const draftKey = "draft:hooks"

func LoadDraft(store DraftStore) (Draft, bool, error) {
	var d Draft
	ok, err := store.GetJSON(draftKey, &d)
	if err != nil || !ok {
		return Draft{}, false, err
	}
	if d.Entries == nil {
		d.Entries = listedit.New[Entry]()
	}
	return d, true, nil
}

func SaveDraft(store DraftStore, d Draft) error {
	return store.SetJSON(draftKey, d)
}

func DiscardDraft(store DraftStore) {
	store.Delete(draftKey)
}

// Check validates entry i against the rest of the list. Each category may
// appear once.
func (d Draft) Check(i int, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	for j, other := range d.Entries.Values() {
		if j < i && other.CategoryID == e.CategoryID {
			return ErrDuplicateCat
		}
	}
	return nil
}

var (
	categoryField = listedit.Field[Entry, int64]{
		Name: "category",
		Get:  func(e Entry) int64 { return e.CategoryID },
		Set: func(e Entry, v int64) Entry {
			e.CategoryID = v
			return e
		},
	}
	countsField = listedit.Field[Entry, Counts]{
		Name: "counts",
		Get:  func(e Entry) Counts { return Counts{Available: e.Available, Installed: e.Installed} },
		Set: func(e Entry, v Counts) Entry {
			e.Available, e.Installed = v.Available, v.Installed
			return e
		},
	}
)
