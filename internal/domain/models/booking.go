package models

import (
	"encoding/json"
	"time"
)

// Booking links a user, trip details and pricing. Flight bookings keep the
// raw inventory offer in FlightOffer for later price confirmation.
type Booking struct {
	ID               string `json:"id"`
	BookingReference string `json:"booking_reference"`
	UserID           string `json:"user_id"`
	BookingType      string `json:"booking_type"`
	Status           string `json:"status"`

	TripType      string     `json:"trip_type,omitempty"`
	Origin        string     `json:"origin,omitempty"`
	Destination   string     `json:"destination,omitempty"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`

	Airline      string          `json:"airline,omitempty"`
	FlightNumber string          `json:"flight_number,omitempty"`
	FlightOffer  json.RawMessage `json:"flight_offer,omitempty"`
	TravelClass  string          `json:"travel_class,omitempty"`
	NumAdults    int             `json:"num_adults"`
	NumChildren  int             `json:"num_children"`
	NumInfants   int             `json:"num_infants"`

	PackageID string `json:"package_id,omitempty"`

	BasePriceCents  int64 `json:"base_price_cents"`
	ServiceFeeCents int64 `json:"service_fee_cents"`
	TaxesCents      int64 `json:"taxes_cents"`
	DiscountCents   int64 `json:"discount_cents"`
	TotalCents      int64 `json:"total_cents"`

	IsUrgent        bool   `json:"is_urgent"`
	SpecialRequests string `json:"special_requests,omitempty"`
	Notes           string `json:"notes,omitempty"`

	AirlineConfirmation string          `json:"airline_confirmation,omitempty"`
	TicketNumbers       json.RawMessage `json:"ticket_numbers,omitempty"`

	AssignedAgentID string `json:"assigned_agent_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func (b Booking) TotalPassengers() int {
	return b.NumAdults + b.NumChildren + b.NumInfants
}

// CalculateTotal recomputes TotalCents from the price components.
func (b *Booking) CalculateTotal() int64 {
	b.TotalCents = b.BasePriceCents + b.ServiceFeeCents + b.TaxesCents - b.DiscountCents
	return b.TotalCents
}

// BookingUpdate supports PATCH-style updates via key presence.
type BookingUpdate struct {
	Status              *string `json:"status"`
	AssignedAgentID     *string `json:"assigned_agent_id"`
	AirlineConfirmation *string `json:"airline_confirmation"`
	Notes               *string `json:"notes"`
}
