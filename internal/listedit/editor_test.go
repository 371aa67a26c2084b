package listedit

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shop struct {
	Name   string
	Reason string
}

var reasonField = Field[shop, string]{
	Name: "reason",
	Get:  func(s shop) string { return s.Reason },
	Set: func(s shop, v string) shop {
		s.Reason = v
		return s
	},
}

func names(e *Editor[shop]) []string {
	out := make([]string, 0, e.Len())
	for _, v := range e.Values() {
		out = append(out, v.Name)
	}
	return out
}

func TestScenarioReorderAndDelete(t *testing.T) {
	e := &Editor[shop]{}
	e.Add(shop{Name: "1"})
	e.Add(shop{Name: "2"})
	e.Add(shop{Name: "3"})

	require.NoError(t, e.MoveUp(2))
	require.NoError(t, e.MoveUp(1))
	if diff := cmp.Diff([]string{"3", "1", "2"}, names(e)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, e.Remove(1))
	if diff := cmp.Diff([]string{"3", "2"}, names(e)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAddStartsInEditMode(t *testing.T) {
	e := &Editor[shop]{}
	entry := e.Add(shop{Name: "a"})

	assert.True(t, entry.Editing)
	assert.NotEmpty(t, entry.ID)
	assert.True(t, e.Editing())
	assert.Equal(t, 0, e.Index(entry.ID))
}

func TestBoundaryMovesAreNoOps(t *testing.T) {
	e := New(shop{Name: "a"}, shop{Name: "b"})
	before := e.Items()
	version := e.Version()

	require.NoError(t, e.MoveUp(0))
	require.NoError(t, e.MoveDown(1))

	assert.Equal(t, version, e.Version())
	assert.Same(t, &before[0], &e.Items()[0])
	assert.Equal(t, []string{"a", "b"}, names(e))
}

func TestMovesPreserveMultiset(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	e := &Editor[shop]{}
	want := []string{"a", "b", "c", "d", "e", "f"}
	for _, n := range want {
		e.Add(shop{Name: n})
	}

	for range 500 {
		i := rng.IntN(e.Len())
		if rng.IntN(2) == 0 {
			require.NoError(t, e.MoveUp(i))
		} else {
			require.NoError(t, e.MoveDown(i))
		}
		got := names(e)
		slices.Sort(got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("multiset changed (-want +got):\n%s", diff)
		}
	}
}

func TestUpdateSameValueKeepsSnapshot(t *testing.T) {
	e := New(shop{Name: "a", Reason: "restock"})
	before := e.Items()
	version := e.Version()

	changed, err := Update(e, 0, reasonField, "restock")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, &before[0], &e.Items()[0])
	assert.Equal(t, version, e.Version())

	changed, err = Update(e, 0, reasonField, "new product")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotSame(t, &before[0], &e.Items()[0])
	assert.Equal(t, "restock", before[0].Value.Reason, "old snapshot must not change")
	assert.Equal(t, "new product", e.Items()[0].Value.Reason)
}

func TestOutOfRange(t *testing.T) {
	e := New(shop{Name: "a"})
	assert.ErrorIs(t, e.MoveUp(1), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.MoveDown(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.Remove(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.ToggleEdit(1), ErrIndexOutOfRange)
	_, err := Update(e, 2, reasonField, "x")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSubmitRejectsEditingItem(t *testing.T) {
	e := New(shop{Name: "a", Reason: "r"})
	e.Add(shop{Name: "b", Reason: "r"})

	called := false
	err := e.Submit(context.Background(), nil, func(context.Context, []shop) error {
		called = true
		return nil
	})

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.ErrorIs(t, err, ErrStillEditing)
	assert.Equal(t, 2, itemErr.Position())
	assert.False(t, called)
}

func TestSubmitRejectsMissingField(t *testing.T) {
	errReason := errors.New("reason is required")
	e := New(shop{Name: "a", Reason: "r"}, shop{Name: "b"}, shop{Name: "c"})

	called := false
	err := e.Submit(context.Background(), func(_ int, s shop) error {
		if s.Reason == "" {
			return errReason
		}
		return nil
	}, func(context.Context, []shop) error {
		called = true
		return nil
	})

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.ErrorIs(t, err, errReason)
	assert.Equal(t, 1, itemErr.Index)
	assert.False(t, called)
}

func TestSubmitPersistsInOrderAndKeepsStateOnFailure(t *testing.T) {
	e := New(shop{Name: "a", Reason: "r"}, shop{Name: "b", Reason: "r"})
	require.NoError(t, e.MoveDown(0))
	before := e.Items()

	var sent []shop
	err := e.Submit(context.Background(), nil, func(_ context.Context, values []shop) error {
		sent = values
		return errors.New("network down")
	})
	require.Error(t, err)
	assert.Equal(t, []string{"b", "a"}, []string{sent[0].Name, sent[1].Name})
	assert.Same(t, &before[0], &e.Items()[0])
	assert.Equal(t, 2, e.Len())
}

func TestToggleEditFlips(t *testing.T) {
	e := &Editor[shop]{}
	e.Add(shop{Name: "a"})
	require.NoError(t, e.ToggleEdit(0))
	assert.False(t, e.Items()[0].Editing)
	require.NoError(t, e.ToggleEdit(0))
	assert.True(t, e.Items()[0].Editing)
}

func TestJSONRoundTrip(t *testing.T) {
	e := New(shop{Name: "a"})
	e.Add(shop{Name: "b"})

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var restored Editor[shop]
	require.NoError(t, json.Unmarshal(raw, &restored))
	if diff := cmp.Diff(e.Items(), restored.Items()); diff != "" {
		t.Fatalf("restored mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, e.Version(), restored.Version())
}

func TestApplyDispatchesByName(t *testing.T) {
	e := New(shop{Name: "a"}, shop{Name: "b"}, shop{Name: "c"})

	require.NoError(t, e.Apply(OpMoveDown, 0))
	assert.Equal(t, []string{"b", "a", "c"}, names(e))
	require.NoError(t, e.Apply(OpMoveUp, 2))
	assert.Equal(t, []string{"b", "c", "a"}, names(e))
	require.NoError(t, e.Apply(OpToggle, 1))
	assert.True(t, e.Items()[1].Editing)
	require.NoError(t, e.Apply(OpRemove, 0))
	assert.Equal(t, []string{"c", "a"}, names(e))

	assert.ErrorIs(t, e.Apply("explode", 0), ErrUnknownOp)
	assert.ErrorIs(t, e.Apply(OpRemove, 5), ErrIndexOutOfRange)
}
