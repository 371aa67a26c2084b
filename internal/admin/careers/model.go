// Package careers manages job postings and their training videos.
package careers

import "time"

// Career is one job posting.
type Career struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	VideoURL     string    `json:"video_url,omitempty"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
