// Package announcements manages the broadcast notices shown in the field app,
// each with an optional voice recording.
package announcements

import "time"

// Announcement is one notice.
type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AudioURL  string    `json:"audio_url,omitempty"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
