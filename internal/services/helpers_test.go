package services

import (
	"database/sql/driver"
	"time"
)

func testNow() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

// paymentTestColumns mirrors the payments select list used by the repository.
func paymentTestColumns() []string {
	return []string{
		"id", "payment_reference", "booking_id", "user_id",
		"amount_cents", "currency", "payment_method", "status",
		"stripe_payment_intent_id", "stripe_charge_id", "transaction_id",
		"card_last4", "card_brand", "metadata", "failure_reason",
		"refund_amount_cents", "refund_reason", "refunded_at",
		"created_at", "paid_at",
	}
}

func paymentTestRow(id, intentID string, amountCents int64, currency string) []driver.Value {
	var refundedAt, paidAt driver.Value
	return []driver.Value{
		id, "PAY-TEST01", "b1", "u1",
		amountCents, currency, "card", "pending",
		intentID, "", "",
		"", "", "", "",
		int64(0), "", refundedAt,
		testNow(), paidAt,
	}
}
