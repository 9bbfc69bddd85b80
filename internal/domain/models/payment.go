package models

import (
	"encoding/json"
	"time"
)

// Payment is one gateway transaction. BookingID is empty for subscription
// payments, which only reference the user.
type Payment struct {
	ID               string `json:"id"`
	PaymentReference string `json:"payment_reference"`
	BookingID        string `json:"booking_id,omitempty"`
	UserID           string `json:"user_id"`

	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Status        string `json:"status"`

	StripePaymentIntentID string `json:"stripe_payment_intent_id,omitempty"`
	StripeChargeID        string `json:"stripe_charge_id,omitempty"`
	TransactionID         string `json:"transaction_id,omitempty"`

	CardLast4 string `json:"card_last4,omitempty"`
	CardBrand string `json:"card_brand,omitempty"`

	Metadata      json.RawMessage `json:"metadata,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`

	RefundAmountCents int64      `json:"refund_amount_cents"`
	RefundReason      string     `json:"refund_reason,omitempty"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}
