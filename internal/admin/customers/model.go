// Package customers lists and edits customer accounts, which the API keeps
// as users with the customer role.
package customers

import "time"

// Account statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Customer is a user account with the customer role.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	ShopName  string    `json:"shop_name"`
	Tier      string    `json:"tier"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Active reports whether the account may sign in.
func (c Customer) Active() bool {
	return c.Status == StatusActive
}

// NextStatus is the status the toggle action moves to.
func NextStatus(current string) string {
	if current == StatusActive {
		return StatusInactive
	}
	return StatusActive
}
