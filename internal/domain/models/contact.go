package models

import "time"

// ContactMessage is a support inquiry submitted through the contact form.
type ContactMessage struct {
	ID string `json:"id"`

	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`

	UserID string `json:"user_id,omitempty"`

	Status   string `json:"status"`
	Priority string `json:"priority"`

	AssignedTo string     `json:"assigned_to,omitempty"`
	AdminNotes string     `json:"admin_notes,omitempty"`
	RepliedAt  *time.Time `json:"replied_at,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
