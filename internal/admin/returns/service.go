package returns

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidTransition rejects a status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("returns: invalid status transition")

var transitions = map[Status][]Status{
	StatusDraft:    {StatusPickedUp, StatusRejected},
	StatusPickedUp: {StatusCompleted, StatusRejected},
}

// NextStatuses lists the states reachable from s. Completed and rejected
// orders are final.
func NextStatuses(s Status) []Status {
	return transitions[s]
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Store is the upstream side of the service.
type Store interface {
	Get(ctx context.Context, id int64) (ReturnOrder, error)
	SetStatus(ctx context.Context, id int64, in statusInput) error
}

// Service applies status transitions after checking them locally.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Transition moves the order to the requested status. The current status is
// re-read so a stale list page cannot request an illegal move.
func (s *Service) Transition(ctx context.Context, id int64, to Status, note string) (ReturnOrder, error) {
	order, err := s.store.Get(ctx, id)
	if err != nil {
		return ReturnOrder{}, err
	}
	if !CanTransition(order.Status, to) {
		return order, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, to)
	}
	if err := s.store.SetStatus(ctx, id, statusInput{Status: to, Note: note}); err != nil {
		return order, err
	}
	order.Status = to
	return order, nil
}
