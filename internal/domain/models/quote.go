package models

import (
	"encoding/json"
	"time"
)

// Quote is a pre-booking price estimate awaiting agent response.
type Quote struct {
	ID             string `json:"id"`
	QuoteReference string `json:"quote_reference"`
	UserID         string `json:"user_id"`

	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	FlexibleDates string `json:"flexible_dates"`
	TripType      string `json:"trip_type"`

	NumAdults   int `json:"num_adults"`
	NumChildren int `json:"num_children"`

	AdditionalDetails string `json:"additional_details,omitempty"`

	Status          string `json:"status"`
	QuotedCents     int64  `json:"quoted_cents,omitempty"`
	ServiceFeeCents int64  `json:"service_fee_cents,omitempty"`
	TotalCents      int64  `json:"total_cents,omitempty"`

	AgentNotes   string          `json:"agent_notes,omitempty"`
	QuoteDetails json.RawMessage `json:"quote_details,omitempty"`

	ConvertedToBookingID string `json:"converted_to_booking_id,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	QuotedAt  *time.Time `json:"quoted_at,omitempty"`
}

// IsExpired reports whether the quote passed its expiry.
func (q Quote) IsExpired(now time.Time) bool {
	if q.ExpiresAt == nil {
		return false
	}
	return now.After(*q.ExpiresAt)
}

// EffectiveStatus folds expiry into the stored status.
func (q Quote) EffectiveStatus(now time.Time) string {
	if (q.Status == "pending" || q.Status == "sent") && q.IsExpired(now) {
		return "expired"
	}
	return q.Status
}
