// Package listedit holds an ordered, editable collection of sub-records that
// belongs to one parent form and is submitted as a single batch.
//
// Every mutation is copy-on-write: a slice returned by Items is never changed
// afterwards, so callers can compare snapshots by reference to detect change.
package listedit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrIndexOutOfRange is returned for an index that names no item.
	ErrIndexOutOfRange = errors.New("listedit: index out of range")
	// ErrStillEditing rejects a submit while an item is open for editing.
	ErrStillEditing = errors.New("item is still being edited")
)

// Entry is one item of the list. ID is client generated until the parent form
// is persisted upstream.
type Entry[T any] struct {
	ID      string `json:"id"`
	Editing bool   `json:"editing"`
	Value   T      `json:"value"`
}

// ItemError reports the first rule an item violated.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index+1, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Position is the one-based position shown to users.
func (e *ItemError) Position() int { return e.Index + 1 }

// Editor is an ordered list of entries. The zero value is an empty list.
type Editor[T any] struct {
	items   []Entry[T]
	version uint64
}

// New returns an editor holding already persisted values, none in edit mode.
func New[T any](values ...T) *Editor[T] {
	e := &Editor[T]{}
	if len(values) == 0 {
		return e
	}
	e.items = make([]Entry[T], 0, len(values))
	for _, v := range values {
		e.items = append(e.items, Entry[T]{ID: uuid.NewString(), Value: v})
	}
	return e
}

// Items returns the current snapshot. Do not modify it.
func (e *Editor[T]) Items() []Entry[T] { return e.items }

// Len returns the number of items.
func (e *Editor[T]) Len() int { return len(e.items) }

// Version increments on every effective mutation.
func (e *Editor[T]) Version() uint64 { return e.version }

// Values returns the values in order.
func (e *Editor[T]) Values() []T {
	out := make([]T, len(e.items))
	for i, item := range e.items {
		out[i] = item.Value
	}
	return out
}

// At returns the entry at index.
func (e *Editor[T]) At(index int) (Entry[T], error) {
	if err := e.check(index); err != nil {
		return Entry[T]{}, err
	}
	return e.items[index], nil
}

// Index returns the position of the entry with id, or -1.
func (e *Editor[T]) Index(id string) int {
	return slices.IndexFunc(e.items, func(item Entry[T]) bool { return item.ID == id })
}

// Add appends value in edit mode and returns the new entry.
func (e *Editor[T]) Add(value T) Entry[T] {
	entry := Entry[T]{ID: uuid.NewString(), Editing: true, Value: value}
	next := make([]Entry[T], len(e.items), len(e.items)+1)
	copy(next, e.items)
	e.commit(append(next, entry))
	return entry
}

// ToggleEdit flips the edit flag of one item.
func (e *Editor[T]) ToggleEdit(index int) error {
	if err := e.check(index); err != nil {
		return err
	}
	next := slices.Clone(e.items)
	next[index].Editing = !next[index].Editing
	e.commit(next)
	return nil
}

// Remove deletes one item. Confirmation is the caller's concern.
func (e *Editor[T]) Remove(index int) error {
	if err := e.check(index); err != nil {
		return err
	}
	next := make([]Entry[T], 0, len(e.items)-1)
	next = append(next, e.items[:index]...)
	next = append(next, e.items[index+1:]...)
	e.commit(next)
	return nil
}

// MoveUp swaps the item with its predecessor. Index 0 is a no-op.
func (e *Editor[T]) MoveUp(index int) error {
	if err := e.check(index); err != nil {
		return err
	}
	if index == 0 {
		return nil
	}
	e.swap(index, index-1)
	return nil
}

// MoveDown swaps the item with its successor. The last index is a no-op.
func (e *Editor[T]) MoveDown(index int) error {
	if err := e.check(index); err != nil {
		return err
	}
	if index == len(e.items)-1 {
		return nil
	}
	e.swap(index, index+1)
	return nil
}

// Replace stores value at index unconditionally.
func (e *Editor[T]) Replace(index int, value T) error {
	if err := e.check(index); err != nil {
		return err
	}
	next := slices.Clone(e.items)
	next[index].Value = value
	e.commit(next)
	return nil
}

// Submit validates the list and hands the ordered values to persist.
//
// It fails on the first item still in edit mode, then on the first item check
// rejects; persist is not called in either case. A persist error leaves the
// list untouched so the user can retry.
func (e *Editor[T]) Submit(ctx context.Context, check func(index int, value T) error, persist func(context.Context, []T) error) error {
	for i, item := range e.items {
		if item.Editing {
			return &ItemError{Index: i, Err: ErrStillEditing}
		}
	}
	if check != nil {
		for i, item := range e.items {
			if err := check(i, item.Value); err != nil {
				return &ItemError{Index: i, Err: err}
			}
		}
	}
	return persist(ctx, e.Values())
}

// Editing reports whether any item is open for editing.
func (e *Editor[T]) Editing() bool {
	return slices.ContainsFunc(e.items, func(item Entry[T]) bool { return item.Editing })
}

type editorJSON[T any] struct {
	Items   []Entry[T] `json:"items"`
	Version uint64     `json:"version"`
}

// MarshalJSON lets a draft survive between requests.
func (e *Editor[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(editorJSON[T]{Items: e.items, Version: e.version})
}

// UnmarshalJSON restores a draft.
func (e *Editor[T]) UnmarshalJSON(data []byte) error {
	var raw editorJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.items = raw.Items
	e.version = raw.Version
	return nil
}

func (e *Editor[T]) swap(a, b int) {
	next := slices.Clone(e.items)
	next[a], next[b] = next[b], next[a]
	e.commit(next)
}

func (e *Editor[T]) commit(next []Entry[T]) {
	e.items = next
	e.version++
}

func (e *Editor[T]) check(index int) error {
	if index < 0 || index >= len(e.items) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(e.items))
	}
	return nil
}

// Positional operations accepted by Apply.
const (
	OpToggle   = "toggle"
	OpRemove   = "remove"
	OpMoveUp   = "up"
	OpMoveDown = "down"
)

// ErrUnknownOp rejects an operation name Apply does not know.
var ErrUnknownOp = errors.New("listedit: unknown operation")

// Apply runs the positional operation op on index. Forms post the operation
// name, so handlers can dispatch without a switch of their own.
func (e *Editor[T]) Apply(op string, index int) error {
	switch op {
	case OpToggle:
		return e.ToggleEdit(index)
	case OpRemove:
		return e.Remove(index)
	case OpMoveUp:
		return e.MoveUp(index)
	case OpMoveDown:
		return e.MoveDown(index)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
}
