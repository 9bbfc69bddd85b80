package models

import (
	"encoding/json"
	"time"
)

// AuditLog records a sensitive action for the audit trail.
type AuditLog struct {
	ID     string `json:"id"`
	UserID string `json:"user_id,omitempty"`

	Action     string `json:"action"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`

	Description string          `json:"description,omitempty"`
	Changes     json.RawMessage `json:"changes,omitempty"`

	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
