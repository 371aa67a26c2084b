// Package attendance shows field staff check-ins and exports them as a
// spreadsheet.
package attendance

import "time"

// Record is one day of check-in/check-out for a staff member.
type Record struct {
	ID        int64      `json:"id"`
	UserName  string     `json:"user_name"`
	Date      string     `json:"date"`
	CheckIn   *time.Time `json:"check_in"`
	CheckOut  *time.Time `json:"check_out"`
	Location  string     `json:"location"`
	PhotoURL  string     `json:"photo_url"`
	LateByMin int        `json:"late_minutes"`
}

func clock(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "–"
	}
	return t.Format("15:04")
}
