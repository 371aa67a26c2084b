// Package returns tracks customer return orders through pickup and completion.
package returns

import "time"

// Status is the lifecycle state of a return order.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPickedUp  Status = "picked_up"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// Label renders the status for people.
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPickedUp:
		return "Picked up"
	case StatusCompleted:
		return "Completed"
	case StatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// ReturnOrder is one return request.
type ReturnOrder struct {
	ID           int64      `json:"id"`
	Number       string     `json:"return_number"`
	CustomerName string     `json:"customer_name"`
	Reason       string     `json:"reason"`
	Status       Status     `json:"status"`
	ItemCount    int        `json:"item_count"`
	CreatedAt    time.Time  `json:"created_at"`
	PickedUpAt   *time.Time `json:"picked_up_at,omitempty"`
}

type statusInput struct {
	Status Status `json:"status"`
	Note   string `json:"note,omitempty"`
}
