package services

import (
	"testing"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestFlightServiceFeeDomestic(t *testing.T) {
	p := PricingService{}

	assert.Equal(t, int64(2500), p.FlightServiceFee(true, 1, false))
	assert.Equal(t, int64(5000), p.FlightServiceFee(true, 2, false))
	// capped at the domestic max
	assert.Equal(t, int64(5000), p.FlightServiceFee(true, 3, false))
	assert.Equal(t, int64(5000), p.FlightServiceFee(true, 4, false))
}

func TestFlightServiceFeeInternational(t *testing.T) {
	p := PricingService{}

	assert.Equal(t, int64(5000), p.FlightServiceFee(false, 1, false))
	assert.Equal(t, int64(10000), p.FlightServiceFee(false, 2, false))
	// capped at the international max
	assert.Equal(t, int64(10000), p.FlightServiceFee(false, 4, false))
}

func TestFlightServiceFeeGroupRate(t *testing.T) {
	p := PricingService{}

	// five or more pay per head, no cap
	assert.Equal(t, int64(7500), p.FlightServiceFee(true, 5, false))
	assert.Equal(t, int64(7500), p.FlightServiceFee(false, 5, false))
	assert.Equal(t, int64(12000), p.FlightServiceFee(false, 8, false))
}

func TestFlightServiceFeeUrgentSurcharge(t *testing.T) {
	p := PricingService{}

	assert.Equal(t, int64(5000), p.FlightServiceFee(true, 1, true))
	assert.Equal(t, int64(10000), p.FlightServiceFee(true, 5, true))
}

func TestFlightServiceFeeZeroPassengers(t *testing.T) {
	assert.Equal(t, int64(2500), PricingService{}.FlightServiceFee(true, 0, false))
}

func TestIsUrgent(t *testing.T) {
	p := PricingService{}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, p.IsUrgent(now.Add(3*24*time.Hour), now))
	assert.False(t, p.IsUrgent(now.Add(8*24*time.Hour), now))
	assert.False(t, p.IsUrgent(now.Add(7*24*time.Hour), now))
	// already departed is not urgent, it is invalid upstream
	assert.False(t, p.IsUrgent(now.Add(-time.Hour), now))
}

func TestSubscriptionDiscount(t *testing.T) {
	p := PricingService{}

	assert.Equal(t, int64(1000), p.SubscriptionDiscount(10000, domain.TierBronze))
	assert.Equal(t, int64(1500), p.SubscriptionDiscount(10000, domain.TierSilver))
	assert.Equal(t, int64(2000), p.SubscriptionDiscount(10000, domain.TierGold))
	assert.Equal(t, int64(0), p.SubscriptionDiscount(10000, domain.TierNone))
	assert.Equal(t, int64(0), p.SubscriptionDiscount(10000, "platinum"))
}

func TestApplyReferralCredit(t *testing.T) {
	p := PricingService{}

	newTotal, used := p.ApplyReferralCredit(10000, 3000)
	assert.Equal(t, int64(7000), newTotal)
	assert.Equal(t, int64(3000), used)

	// credit larger than the total is clamped
	newTotal, used = p.ApplyReferralCredit(2000, 5000)
	assert.Equal(t, int64(0), newTotal)
	assert.Equal(t, int64(2000), used)

	newTotal, used = p.ApplyReferralCredit(2000, 0)
	assert.Equal(t, int64(2000), newTotal)
	assert.Equal(t, int64(0), used)
}

func bookingDepartingIn(d time.Duration, now time.Time) models.Booking {
	dep := now.Add(d)
	return models.Booking{DepartureDate: &dep, TotalCents: 50000}
}

func TestRefundPercentWindows(t *testing.T) {
	p := PricingService{}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 100, p.RefundPercent(bookingDepartingIn(48*time.Hour, now), domain.TierNone, now))
	assert.Equal(t, 100, p.RefundPercent(bookingDepartingIn(24*time.Hour, now), domain.TierNone, now))
	assert.Equal(t, 50, p.RefundPercent(bookingDepartingIn(18*time.Hour, now), domain.TierNone, now))
	assert.Equal(t, 50, p.RefundPercent(bookingDepartingIn(12*time.Hour, now), domain.TierNone, now))
	assert.Equal(t, 0, p.RefundPercent(bookingDepartingIn(6*time.Hour, now), domain.TierNone, now))
	assert.Equal(t, 0, p.RefundPercent(bookingDepartingIn(-time.Hour, now), domain.TierNone, now))
}

func TestRefundPercentPremiumTiers(t *testing.T) {
	p := PricingService{}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	lastMinute := bookingDepartingIn(time.Hour, now)

	assert.Equal(t, 100, p.RefundPercent(lastMinute, domain.TierSilver, now))
	assert.Equal(t, 100, p.RefundPercent(lastMinute, domain.TierGold, now))
	assert.Equal(t, 0, p.RefundPercent(lastMinute, domain.TierBronze, now))
}

func TestRefundAmount(t *testing.T) {
	p := PricingService{}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(50000), p.RefundAmount(bookingDepartingIn(48*time.Hour, now), domain.TierNone, now))
	assert.Equal(t, int64(25000), p.RefundAmount(bookingDepartingIn(18*time.Hour, now), domain.TierNone, now))
	assert.Equal(t, int64(0), p.RefundAmount(bookingDepartingIn(time.Hour, now), domain.TierNone, now))
}
