package models

import "time"

// Notification is an in-app message for a user.
type Notification struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`

	LinkURL   string `json:"link_url,omitempty"`
	BookingID string `json:"booking_id,omitempty"`

	IsRead bool       `json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	SentViaEmail bool `json:"sent_via_email"`

	CreatedAt time.Time `json:"created_at"`
}
