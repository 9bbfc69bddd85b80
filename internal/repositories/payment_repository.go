package repositories

import (
	"database/sql"
	"strings"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB { return fallbackDB(r.DB) }

const paymentColumns = `
	id, payment_reference, COALESCE(booking_id,''), user_id,
	amount_cents, currency, COALESCE(payment_method,''), status,
	COALESCE(stripe_payment_intent_id,''), COALESCE(stripe_charge_id,''),
	COALESCE(transaction_id,''),
	COALESCE(card_last4,''), COALESCE(card_brand,''),
	COALESCE(metadata,''), COALESCE(failure_reason,''),
	refund_amount_cents, COALESCE(refund_reason,''), refunded_at,
	created_at, paid_at`

func scanPayment(row rowScanner) (models.Payment, error) {
	var (
		p                models.Payment
		meta             []byte
		refundedAt, paid sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.PaymentReference, &p.BookingID, &p.UserID,
		&p.AmountCents, &p.Currency, &p.PaymentMethod, &p.Status,
		&p.StripePaymentIntentID, &p.StripeChargeID,
		&p.TransactionID,
		&p.CardLast4, &p.CardBrand,
		&meta, &p.FailureReason,
		&p.RefundAmountCents, &p.RefundReason, &refundedAt,
		&p.CreatedAt, &paid,
	)
	if err != nil {
		return models.Payment{}, err
	}
	if len(meta) > 0 {
		p.Metadata = meta
	}
	p.RefundedAt = nullTime(refundedAt)
	p.PaidAt = nullTime(paid)
	return p, nil
}

func (r PaymentRepository) Create(p models.Payment) error {
	_, err := r.db().Exec(`
		INSERT INTO payments (
			id, payment_reference, booking_id, user_id,
			amount_cents, currency, payment_method, status,
			stripe_payment_intent_id, metadata, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,NOW())`,
		p.ID, p.PaymentReference, nullIfEmpty(p.BookingID), p.UserID,
		p.AmountCents, p.Currency, nullIfEmpty(p.PaymentMethod), p.Status,
		nullIfEmpty(p.StripePaymentIntentID), nullIfEmptyBytes(p.Metadata),
	)
	return err
}

func (r PaymentRepository) GetByID(id string) (models.Payment, error) {
	row := r.db().QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE id=? LIMIT 1`, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return models.Payment{}, domain.NotFoundError{Resource: "payment"}
	}
	return p, err
}

func (r PaymentRepository) GetByIntentID(intentID string) (models.Payment, error) {
	row := r.db().QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE stripe_payment_intent_id=? LIMIT 1`, intentID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return models.Payment{}, domain.NotFoundError{Resource: "payment"}
	}
	return p, err
}

func (r PaymentRepository) ListByBooking(bookingID string) ([]models.Payment, error) {
	rows, err := r.db().Query(`SELECT `+paymentColumns+` FROM payments WHERE booking_id=? ORDER BY created_at DESC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPaidByBooking returns the settled payment used for refunds.
func (r PaymentRepository) GetPaidByBooking(bookingID string) (models.Payment, error) {
	row := r.db().QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE booking_id=? AND status='paid' ORDER BY paid_at DESC LIMIT 1`, bookingID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return models.Payment{}, domain.NotFoundError{Resource: "payment"}
	}
	return p, err
}

// PaymentFilter narrows admin payment listings.
type PaymentFilter struct {
	UserID string
	Status string
	Method string
}

func (r PaymentRepository) List(f PaymentFilter, p *domain.Pagination) ([]models.Payment, error) {
	p.Clamp()
	where := []string{"1=1"}
	args := []any{}
	if f.UserID != "" {
		where = append(where, "user_id=?")
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	if f.Method != "" {
		where = append(where, "payment_method=?")
		args = append(args, f.Method)
	}
	cond := strings.Join(where, " AND ")

	if err := r.db().QueryRow(`SELECT COUNT(*) FROM payments WHERE `+cond, args...).Scan(&p.Total); err != nil {
		return nil, err
	}

	args = append(args, p.PageSize, p.Offset())
	rows, err := r.db().Query(`SELECT `+paymentColumns+` FROM payments WHERE `+cond+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		pay, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pay)
	}
	return out, rows.Err()
}

// MarkPaid settles a pending payment. It is idempotent: a second call on an
// already-paid row affects nothing and returns nil.
func (r PaymentRepository) MarkPaid(id, chargeID, cardBrand, cardLast4 string) error {
	_, err := r.db().Exec(`
		UPDATE payments
		SET status='paid', stripe_charge_id=?, transaction_id=?, card_brand=?, card_last4=?, paid_at=NOW()
		WHERE id=? AND status='pending'`,
		nullIfEmpty(chargeID), nullIfEmpty(chargeID), nullIfEmpty(cardBrand), nullIfEmpty(cardLast4), id)
	return err
}

func (r PaymentRepository) MarkFailed(id, reason string) error {
	_, err := r.db().Exec(`
		UPDATE payments SET status='failed', failure_reason=? WHERE id=? AND status='pending'`,
		nullIfEmpty(reason), id)
	return err
}

func (r PaymentRepository) MarkRefunded(id string, amountCents int64, reason string, at time.Time) error {
	_, err := r.db().Exec(`
		UPDATE payments
		SET status='refunded', refund_amount_cents=?, refund_reason=?, refunded_at=?
		WHERE id=?`, amountCents, nullIfEmpty(reason), at, id)
	return err
}

// TotalPaidCents sums settled payments for a user (dashboard "total spent").
func (r PaymentRepository) TotalPaidCents(userID string) (int64, error) {
	var total int64
	err := r.db().QueryRow(`SELECT COALESCE(SUM(amount_cents),0) FROM payments WHERE user_id=? AND status='paid'`, userID).Scan(&total)
	return total, err
}

// MonthlySpendPoint is one month of the dashboard spending chart.
type MonthlySpendPoint struct {
	Name  string `json:"name"`
	Cents int64  `json:"total_cents"`
}

// MonthlySpend returns the last `months` months of settled spend, oldest
// first, with zero-filled gaps.
func (r PaymentRepository) MonthlySpend(userID string, months int, now time.Time) ([]MonthlySpendPoint, error) {
	rows, err := r.db().Query(`
		SELECT DATE_FORMAT(paid_at, '%Y-%m'), COALESCE(SUM(amount_cents),0)
		FROM payments
		WHERE user_id=? AND status='paid' AND paid_at >= DATE_SUB(?, INTERVAL ? MONTH)
		GROUP BY DATE_FORMAT(paid_at, '%Y-%m')`,
		userID, now, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byMonth := map[string]int64{}
	for rows.Next() {
		var key string
		var cents int64
		if err := rows.Scan(&key, &cents); err != nil {
			return nil, err
		}
		byMonth[key] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]MonthlySpendPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := now.AddDate(0, -i, 0)
		out = append(out, MonthlySpendPoint{
			Name:  m.Format("Jan"),
			Cents: byMonth[m.Format("2006-01")],
		})
	}
	return out, nil
}

// PaymentStats backs the admin payments dashboard.
type PaymentStats struct {
	Total         int   `json:"total"`
	PaidCents     int64 `json:"paid_cents"`
	RefundedCents int64 `json:"refunded_cents"`
	PendingCount  int   `json:"pending_count"`
	FailedCount   int   `json:"failed_count"`
	RefundedCount int   `json:"refunded_count"`
	PaidCount     int   `json:"paid_count"`
}

func (r PaymentRepository) Stats() (PaymentStats, error) {
	var s PaymentStats
	err := r.db().QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status='paid' THEN amount_cents ELSE 0 END),0),
		       COALESCE(SUM(refund_amount_cents),0),
		       COALESCE(SUM(status='pending'),0),
		       COALESCE(SUM(status='failed'),0),
		       COALESCE(SUM(status='refunded'),0),
		       COALESCE(SUM(status='paid'),0)
		FROM payments`).Scan(
		&s.Total, &s.PaidCents, &s.RefundedCents,
		&s.PendingCount, &s.FailedCount, &s.RefundedCount, &s.PaidCount)
	return s, err
}
