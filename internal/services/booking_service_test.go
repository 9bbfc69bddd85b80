package services

import (
	"testing"
	"time"

	"thrive/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTravelDates(t *testing.T) {
	s := BookingService{}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	dep := now.Add(48 * time.Hour)
	ret := dep.Add(7 * 24 * time.Hour)
	assert.NoError(t, s.ValidateTravelDates(&dep, &ret, now))
	assert.NoError(t, s.ValidateTravelDates(&dep, nil, now))
}

func TestValidateTravelDatesRejectsPastDeparture(t *testing.T) {
	s := BookingService{}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	dep := now.Add(-time.Hour)

	err := s.ValidateTravelDates(&dep, nil, now)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestValidateTravelDatesRejectsMissingDeparture(t *testing.T) {
	err := BookingService{}.ValidateTravelDates(nil, nil, time.Now())
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestValidateTravelDatesRejectsReturnBeforeDeparture(t *testing.T) {
	s := BookingService{}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	dep := now.Add(72 * time.Hour)
	ret := dep.Add(-24 * time.Hour)

	err := s.ValidateTravelDates(&dep, &ret, now)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestValidateTravelDatesRejectsFarFuture(t *testing.T) {
	s := BookingService{}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	dep := now.AddDate(1, 0, 1)

	err := s.ValidateTravelDates(&dep, nil, now)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestCountPassengerTypes(t *testing.T) {
	adults, children, infants := countTypes([]PassengerInput{
		{PassengerType: "adult"},
		{PassengerType: ""},
		{PassengerType: "child"},
		{PassengerType: "infant"},
		{PassengerType: "child"},
	})
	assert.Equal(t, 2, adults)
	assert.Equal(t, 2, children)
	assert.Equal(t, 1, infants)
}

func TestPassengerInputValidation(t *testing.T) {
	ok := PassengerInput{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		DateOfBirth:    "1990-12-10",
		PassportNumber: "P1234567",
		PassengerType:  "adult",
	}
	assert.NoError(t, ok.validate(0))

	missingName := ok
	missingName.FirstName = " "
	assert.True(t, domain.IsValidation(missingName.validate(0)))

	badDOB := ok
	badDOB.DateOfBirth = "3000-01-01"
	assert.True(t, domain.IsValidation(badDOB.validate(0)))

	badPassport := ok
	badPassport.PassportNumber = "!!"
	assert.True(t, domain.IsValidation(badPassport.validate(0)))

	badType := ok
	badType.PassengerType = "pet"
	assert.True(t, domain.IsValidation(badType.validate(0)))
}
