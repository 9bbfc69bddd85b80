package models

import "time"

// Passenger is one traveler attached to a booking.
type Passenger struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`

	Title       string `json:"title,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	MiddleName  string `json:"middle_name,omitempty"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender,omitempty"`
	Nationality string `json:"nationality,omitempty"`

	PassportNumber  string `json:"passport_number,omitempty"`
	PassportExpiry  string `json:"passport_expiry,omitempty"`
	PassportCountry string `json:"passport_country,omitempty"`

	PassengerType       string `json:"passenger_type"`
	TicketNumber        string `json:"ticket_number,omitempty"`
	SeatNumber          string `json:"seat_number,omitempty"`
	FrequentFlyerNumber string `json:"frequent_flyer_number,omitempty"`

	MealPreference    string `json:"meal_preference,omitempty"`
	SpecialAssistance string `json:"special_assistance,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (p Passenger) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
