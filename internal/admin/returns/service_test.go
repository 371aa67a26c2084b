package returns

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	order ReturnOrder
	sent  []statusInput
	err   error
}

func (m *memoryStore) Get(context.Context, int64) (ReturnOrder, error) {
	return m.order, nil
}

func (m *memoryStore) SetStatus(_ context.Context, _ int64, in statusInput) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, in)
	return nil
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusPickedUp, true},
		{StatusDraft, StatusRejected, true},
		{StatusDraft, StatusCompleted, false},
		{StatusPickedUp, StatusCompleted, true},
		{StatusPickedUp, StatusRejected, true},
		{StatusPickedUp, StatusDraft, false},
		{StatusCompleted, StatusRejected, false},
		{StatusRejected, StatusDraft, false},
		{StatusRejected, StatusPickedUp, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestFinalStatusesHaveNoActions(t *testing.T) {
	assert.Empty(t, NextStatuses(StatusCompleted))
	assert.Empty(t, NextStatuses(StatusRejected))
}

func TestTransitionRejectedLocally(t *testing.T) {
	store := &memoryStore{order: ReturnOrder{ID: 1, Status: StatusCompleted}}
	_, err := NewService(store).Transition(context.Background(), 1, StatusRejected, "")

	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, store.sent)
}

func TestTransitionSendsStatus(t *testing.T) {
	store := &memoryStore{order: ReturnOrder{ID: 1, Status: StatusDraft}}
	order, err := NewService(store).Transition(context.Background(), 1, StatusPickedUp, "driver Budi")

	require.NoError(t, err)
	assert.Equal(t, StatusPickedUp, order.Status)
	assert.Equal(t, []statusInput{{Status: StatusPickedUp, Note: "driver Budi"}}, store.sent)
}

func TestTransitionUpstreamFailureKeepsStatus(t *testing.T) {
	boom := errors.New("boom")
	store := &memoryStore{order: ReturnOrder{ID: 1, Status: StatusPickedUp}, err: boom}
	order, err := NewService(store).Transition(context.Background(), 1, StatusCompleted, "")

	require.ErrorIs(t, err, boom)
	assert.Equal(t, StatusPickedUp, order.Status)
}
