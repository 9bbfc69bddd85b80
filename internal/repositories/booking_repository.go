package repositories

import (
	"database/sql"
	"strings"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB { return fallbackDB(r.DB) }

const bookingColumns = `
	id, booking_reference, user_id, booking_type, status,
	COALESCE(trip_type,''), COALESCE(origin,''), COALESCE(destination,''),
	departure_date, return_date,
	COALESCE(airline,''), COALESCE(flight_number,''), COALESCE(flight_offer,''),
	COALESCE(travel_class,''), num_adults, num_children, num_infants,
	COALESCE(package_id,''),
	base_price_cents, service_fee_cents, taxes_cents, discount_cents, total_cents,
	is_urgent, COALESCE(special_requests,''), COALESCE(notes,''),
	COALESCE(airline_confirmation,''), COALESCE(ticket_numbers,''),
	COALESCE(assigned_agent_id,''),
	created_at, updated_at, confirmed_at, cancelled_at`

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b                    models.Booking
		depDate, retDate     sql.NullTime
		confirmed, cancelled sql.NullTime
		offer, tickets       []byte
	)
	err := row.Scan(
		&b.ID, &b.BookingReference, &b.UserID, &b.BookingType, &b.Status,
		&b.TripType, &b.Origin, &b.Destination,
		&depDate, &retDate,
		&b.Airline, &b.FlightNumber, &offer,
		&b.TravelClass, &b.NumAdults, &b.NumChildren, &b.NumInfants,
		&b.PackageID,
		&b.BasePriceCents, &b.ServiceFeeCents, &b.TaxesCents, &b.DiscountCents, &b.TotalCents,
		&b.IsUrgent, &b.SpecialRequests, &b.Notes,
		&b.AirlineConfirmation, &tickets,
		&b.AssignedAgentID,
		&b.CreatedAt, &b.UpdatedAt, &confirmed, &cancelled,
	)
	if err != nil {
		return models.Booking{}, err
	}
	b.DepartureDate = nullTime(depDate)
	b.ReturnDate = nullTime(retDate)
	b.ConfirmedAt = nullTime(confirmed)
	b.CancelledAt = nullTime(cancelled)
	if len(offer) > 0 {
		b.FlightOffer = offer
	}
	if len(tickets) > 0 {
		b.TicketNumbers = tickets
	}
	return b, nil
}

func (r BookingRepository) Create(b models.Booking) error {
	_, err := r.db().Exec(`
		INSERT INTO bookings (
			id, booking_reference, user_id, booking_type, status,
			trip_type, origin, destination, departure_date, return_date,
			airline, flight_number, flight_offer, travel_class,
			num_adults, num_children, num_infants, package_id,
			base_price_cents, service_fee_cents, taxes_cents, discount_cents, total_cents,
			is_urgent, special_requests, notes, assigned_agent_id,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())`,
		b.ID, b.BookingReference, b.UserID, b.BookingType, b.Status,
		nullIfEmpty(b.TripType), nullIfEmpty(b.Origin), nullIfEmpty(b.Destination),
		timeArg(b.DepartureDate), timeArg(b.ReturnDate),
		nullIfEmpty(b.Airline), nullIfEmpty(b.FlightNumber), nullIfEmptyBytes(b.FlightOffer),
		nullIfEmpty(b.TravelClass),
		b.NumAdults, b.NumChildren, b.NumInfants, nullIfEmpty(b.PackageID),
		b.BasePriceCents, b.ServiceFeeCents, b.TaxesCents, b.DiscountCents, b.TotalCents,
		b.IsUrgent, nullIfEmpty(b.SpecialRequests), nullIfEmpty(b.Notes),
		nullIfEmpty(b.AssignedAgentID),
	)
	return err
}

func (r BookingRepository) GetByID(id string) (models.Booking, error) {
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

// GetOwned fetches a booking and enforces ownership in one query.
func (r BookingRepository) GetOwned(id, userID string) (models.Booking, error) {
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? AND user_id=? LIMIT 1`, id, userID)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	UserID      string
	Status      string
	BookingType string
	Search      string
	From        *time.Time
	To          *time.Time
}

func (f BookingFilter) clause() (string, []any) {
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
	if f.BookingType != "" {
		where = append(where, "booking_type=?")
		args = append(args, f.BookingType)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "(booking_reference LIKE ? OR origin LIKE ? OR destination LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}
	if f.From != nil {
		where = append(where, "departure_date >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		where = append(where, "departure_date <= ?")
		args = append(args, *f.To)
	}
	return strings.Join(where, " AND "), args
}

func (r BookingRepository) List(f BookingFilter, p *domain.Pagination) ([]models.Booking, error) {
	p.Clamp()
	cond, args := f.clause()

	if err := r.db().QueryRow(`SELECT COUNT(*) FROM bookings WHERE `+cond, args...).Scan(&p.Total); err != nil {
		return nil, err
	}

	args = append(args, p.PageSize, p.Offset())
	rows, err := r.db().Query(`SELECT `+bookingColumns+` FROM bookings WHERE `+cond+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BookingRepository) Recent(userID string, limit int) ([]models.Booking, error) {
	rows, err := r.db().Query(`SELECT `+bookingColumns+` FROM bookings WHERE user_id=? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SetStatus transitions a booking, stamping confirmed_at / cancelled_at for
// the matching terminal states.
func (r BookingRepository) SetStatus(id, status string) error {
	extra := ""
	switch status {
	case domain.BookingConfirmed:
		extra = ", confirmed_at=NOW()"
	case domain.BookingCancelled:
		extra = ", cancelled_at=NOW()"
	}
	res, err := r.db().Exec(`UPDATE bookings SET status=?, updated_at=NOW()`+extra+` WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

// Patch applies an admin partial update via key presence.
func (r BookingRepository) Patch(id string, u models.BookingUpdate) error {
	sets := []string{}
	args := []any{}
	if u.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *u.Status)
		switch *u.Status {
		case domain.BookingConfirmed:
			sets = append(sets, "confirmed_at=NOW()")
		case domain.BookingCancelled:
			sets = append(sets, "cancelled_at=NOW()")
		}
	}
	if u.AssignedAgentID != nil {
		sets = append(sets, "assigned_agent_id=?")
		args = append(args, nullIfEmpty(*u.AssignedAgentID))
	}
	if u.AirlineConfirmation != nil {
		sets = append(sets, "airline_confirmation=?")
		args = append(args, nullIfEmpty(*u.AirlineConfirmation))
	}
	if u.Notes != nil {
		sets = append(sets, "notes=?")
		args = append(args, nullIfEmpty(*u.Notes))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	_, err := r.db().Exec(`UPDATE bookings SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}

// SetAirlineOrder stores the inventory order results after ticketing.
func (r BookingRepository) SetAirlineOrder(id, confirmation string, ticketNumbers []byte) error {
	_, err := r.db().Exec(`
		UPDATE bookings SET airline_confirmation=?, ticket_numbers=?, updated_at=NOW()
		WHERE id=?`, nullIfEmpty(confirmation), nullIfEmptyBytes(ticketNumbers), id)
	return err
}

// DashboardCounts backs the client dashboard summary.
type DashboardCounts struct {
	Total     int
	Confirmed int
	Upcoming  int
	Trips     int
}

func (r BookingRepository) DashboardCounts(userID string, now time.Time) (DashboardCounts, error) {
	var c DashboardCounts
	horizon := now.Add(30 * 24 * time.Hour)
	err := r.db().QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(status='confirmed'),0),
		       COALESCE(SUM(departure_date >= ? AND departure_date <= ? AND status IN ('confirmed','pending')),0),
		       COALESCE(SUM(booking_type='package' AND status='confirmed' AND departure_date >= ?),0)
		FROM bookings WHERE user_id=?`,
		now, horizon, now, userID,
	).Scan(&c.Total, &c.Confirmed, &c.Upcoming, &c.Trips)
	return c, err
}

// BookingStats backs the admin bookings dashboard.
type BookingStats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	ByType       map[string]int `json:"by_type"`
	RevenueCents int64          `json:"revenue_cents"`
}

func (r BookingRepository) Stats() (BookingStats, error) {
	s := BookingStats{ByStatus: map[string]int{}, ByType: map[string]int{}}
	rows, err := r.db().Query(`SELECT status, COUNT(*), COALESCE(SUM(total_cents),0) FROM bookings GROUP BY status`)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		var revenue int64
		if err := rows.Scan(&status, &n, &revenue); err != nil {
			return s, err
		}
		s.ByStatus[status] = n
		s.Total += n
		if status == domain.BookingConfirmed || status == domain.BookingCompleted {
			s.RevenueCents += revenue
		}
	}
	if err := rows.Err(); err != nil {
		return s, err
	}
	typeRows, err := r.db().Query(`SELECT booking_type, COUNT(*) FROM bookings GROUP BY booking_type`)
	if err != nil {
		return s, err
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var t string
		var n int
		if err := typeRows.Scan(&t, &n); err != nil {
			return s, err
		}
		s.ByType[t] = n
	}
	return s, typeRows.Err()
}
