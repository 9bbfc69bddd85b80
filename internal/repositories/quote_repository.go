package repositories

import (
	"database/sql"
	"strings"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type QuoteRepository struct {
	DB *sql.DB
}

func (r QuoteRepository) db() *sql.DB { return fallbackDB(r.DB) }

const quoteColumns = `
	id, quote_reference, user_id,
	origin, destination, COALESCE(flexible_dates,''), trip_type,
	num_adults, num_children,
	COALESCE(additional_details,''),
	status, quoted_cents, service_fee_cents, total_cents,
	COALESCE(agent_notes,''), COALESCE(quote_details,''),
	COALESCE(converted_to_booking_id,''),
	created_at, expires_at, quoted_at`

func scanQuote(row rowScanner) (models.Quote, error) {
	var (
		q               models.Quote
		details         []byte
		expires, quoted sql.NullTime
	)
	err := row.Scan(
		&q.ID, &q.QuoteReference, &q.UserID,
		&q.Origin, &q.Destination, &q.FlexibleDates, &q.TripType,
		&q.NumAdults, &q.NumChildren,
		&q.AdditionalDetails,
		&q.Status, &q.QuotedCents, &q.ServiceFeeCents, &q.TotalCents,
		&q.AgentNotes, &details,
		&q.ConvertedToBookingID,
		&q.CreatedAt, &expires, &quoted,
	)
	if err != nil {
		return models.Quote{}, err
	}
	if len(details) > 0 {
		q.QuoteDetails = details
	}
	q.ExpiresAt = nullTime(expires)
	q.QuotedAt = nullTime(quoted)
	return q, nil
}

func (r QuoteRepository) Create(q models.Quote) error {
	_, err := r.db().Exec(`
		INSERT INTO quotes (
			id, quote_reference, user_id,
			origin, destination, flexible_dates, trip_type,
			num_adults, num_children, additional_details,
			status, quoted_cents, service_fee_cents, total_cents,
			created_at, expires_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,0,0,0,NOW(),?)`,
		q.ID, q.QuoteReference, q.UserID,
		q.Origin, q.Destination, nullIfEmpty(q.FlexibleDates), q.TripType,
		q.NumAdults, q.NumChildren, nullIfEmpty(q.AdditionalDetails),
		q.Status, timeArg(q.ExpiresAt),
	)
	return err
}

func (r QuoteRepository) GetByID(id string) (models.Quote, error) {
	row := r.db().QueryRow(`SELECT `+quoteColumns+` FROM quotes WHERE id=? LIMIT 1`, id)
	q, err := scanQuote(row)
	if err == sql.ErrNoRows {
		return models.Quote{}, domain.NotFoundError{Resource: "quote"}
	}
	return q, err
}

func (r QuoteRepository) GetOwned(id, userID string) (models.Quote, error) {
	row := r.db().QueryRow(`SELECT `+quoteColumns+` FROM quotes WHERE id=? AND user_id=? LIMIT 1`, id, userID)
	q, err := scanQuote(row)
	if err == sql.ErrNoRows {
		return models.Quote{}, domain.NotFoundError{Resource: "quote"}
	}
	return q, err
}

// QuoteFilter narrows quote listings.
type QuoteFilter struct {
	UserID string
	Status string
}

func (r QuoteRepository) List(f QuoteFilter, p *domain.Pagination) ([]models.Quote, error) {
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
	cond := strings.Join(where, " AND ")

	if err := r.db().QueryRow(`SELECT COUNT(*) FROM quotes WHERE `+cond, args...).Scan(&p.Total); err != nil {
		return nil, err
	}

	args = append(args, p.PageSize, p.Offset())
	rows, err := r.db().Query(`SELECT `+quoteColumns+` FROM quotes WHERE `+cond+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// SendQuote records the agent's priced response and moves the quote to sent.
func (r QuoteRepository) SendQuote(id string, quotedCents, feeCents, totalCents int64, agentNotes string, details []byte, expiresAt time.Time) error {
	res, err := r.db().Exec(`
		UPDATE quotes
		SET status='sent', quoted_cents=?, service_fee_cents=?, total_cents=?,
		    agent_notes=?, quote_details=?, quoted_at=NOW(), expires_at=?
		WHERE id=? AND status='pending'`,
		quotedCents, feeCents, totalCents,
		nullIfEmpty(agentNotes), nullIfEmptyBytes(details), expiresAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ConflictError{Resource: "quote", Msg: "quote already answered or not found"}
	}
	return nil
}

// MarkAccepted links the quote to the booking created from it. Only a sent
// quote can be accepted.
func (r QuoteRepository) MarkAccepted(id, bookingID string) error {
	res, err := r.db().Exec(`
		UPDATE quotes SET status='accepted', converted_to_booking_id=?
		WHERE id=? AND status='sent'`, bookingID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ConflictError{Resource: "quote", Msg: "quote is not awaiting acceptance"}
	}
	return nil
}

// ExpireStale flips sent quotes past their expiry. Safe to call on a schedule.
func (r QuoteRepository) ExpireStale(now time.Time) (int64, error) {
	res, err := r.db().Exec(`
		UPDATE quotes SET status='expired'
		WHERE status IN ('pending','sent') AND expires_at IS NOT NULL AND expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// QuoteStats backs the admin quotes dashboard.
type QuoteStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

func (r QuoteRepository) Stats() (QuoteStats, error) {
	s := QuoteStats{ByStatus: map[string]int{}}
	rows, err := r.db().Query(`SELECT status, COUNT(*) FROM quotes GROUP BY status`)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return s, err
		}
		s.ByStatus[status] = n
		s.Total += n
	}
	return s, rows.Err()
}
