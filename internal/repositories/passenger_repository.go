package repositories

import (
	"database/sql"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type PassengerRepository struct {
	DB *sql.DB
}

func (r PassengerRepository) db() *sql.DB { return fallbackDB(r.DB) }

const passengerColumns = `
	id, booking_id, COALESCE(title,''), first_name, last_name,
	COALESCE(middle_name,''), date_of_birth, COALESCE(gender,''),
	COALESCE(nationality,''),
	COALESCE(passport_number,''), COALESCE(passport_expiry,''),
	COALESCE(passport_country,''),
	passenger_type, COALESCE(ticket_number,''), COALESCE(seat_number,''),
	COALESCE(frequent_flyer_number,''),
	COALESCE(meal_preference,''), COALESCE(special_assistance,''),
	created_at`

func scanPassenger(row rowScanner) (models.Passenger, error) {
	var p models.Passenger
	err := row.Scan(
		&p.ID, &p.BookingID, &p.Title, &p.FirstName, &p.LastName,
		&p.MiddleName, &p.DateOfBirth, &p.Gender,
		&p.Nationality,
		&p.PassportNumber, &p.PassportExpiry,
		&p.PassportCountry,
		&p.PassengerType, &p.TicketNumber, &p.SeatNumber,
		&p.FrequentFlyerNumber,
		&p.MealPreference, &p.SpecialAssistance,
		&p.CreatedAt,
	)
	return p, err
}

func (r PassengerRepository) Create(p models.Passenger) error {
	_, err := r.db().Exec(`
		INSERT INTO passengers (
			id, booking_id, title, first_name, last_name, middle_name,
			date_of_birth, gender, nationality,
			passport_number, passport_expiry, passport_country,
			passenger_type, ticket_number, seat_number, frequent_flyer_number,
			meal_preference, special_assistance, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,NOW())`,
		p.ID, p.BookingID, nullIfEmpty(p.Title), p.FirstName, p.LastName, nullIfEmpty(p.MiddleName),
		p.DateOfBirth, nullIfEmpty(p.Gender), nullIfEmpty(p.Nationality),
		nullIfEmpty(p.PassportNumber), nullIfEmpty(p.PassportExpiry), nullIfEmpty(p.PassportCountry),
		p.PassengerType, nullIfEmpty(p.TicketNumber), nullIfEmpty(p.SeatNumber), nullIfEmpty(p.FrequentFlyerNumber),
		nullIfEmpty(p.MealPreference), nullIfEmpty(p.SpecialAssistance),
	)
	return err
}

func (r PassengerRepository) GetByID(id string) (models.Passenger, error) {
	row := r.db().QueryRow(`SELECT `+passengerColumns+` FROM passengers WHERE id=? LIMIT 1`, id)
	p, err := scanPassenger(row)
	if err == sql.ErrNoRows {
		return models.Passenger{}, domain.NotFoundError{Resource: "passenger"}
	}
	return p, err
}

func (r PassengerRepository) ListByBooking(bookingID string) ([]models.Passenger, error) {
	rows, err := r.db().Query(`SELECT `+passengerColumns+` FROM passengers WHERE booking_id=? ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetTicketNumber records the ticket issued for one passenger.
func (r PassengerRepository) SetTicketNumber(id, ticketNumber string) error {
	_, err := r.db().Exec(`UPDATE passengers SET ticket_number=? WHERE id=?`, nullIfEmpty(ticketNumber), id)
	return err
}
