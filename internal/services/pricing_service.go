package services

import (
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

// Flight service fee schedule, in cents.
const (
	domesticFeeCents      int64 = 2500
	domesticFeeCapCents   int64 = 5000
	internationalFeeCents int64 = 5000
	internationalCapCents int64 = 10000
	urgentFeeCents        int64 = 2500
	groupFeePerPaxCents   int64 = 1500
	groupMinSize                = 5

	urgentWindow = 7 * 24 * time.Hour
)

// Subscription discount rates in percent of the base fare.
var tierDiscountPercent = map[string]int64{
	domain.TierBronze: 10,
	domain.TierSilver: 15,
	domain.TierGold:   20,
}

// PricingService is pure fee arithmetic; it touches no storage.
type PricingService struct{}

// FlightServiceFee follows the published fee schedule. Groups of five or more
// pay per head instead of the flat fee; the flat fee scales with passengers
// up to a cap. The urgent surcharge applies on top in both cases.
func (PricingService) FlightServiceFee(isDomestic bool, numPassengers int, isUrgent bool) int64 {
	if numPassengers < 1 {
		numPassengers = 1
	}

	var fee int64
	if numPassengers >= groupMinSize {
		fee = groupFeePerPaxCents * int64(numPassengers)
	} else {
		base, cap := internationalFeeCents, internationalCapCents
		if isDomestic {
			base, cap = domesticFeeCents, domesticFeeCapCents
		}
		fee = base * int64(numPassengers)
		if fee > cap {
			fee = cap
		}
	}

	if isUrgent {
		fee += urgentFeeCents
	}
	return fee
}

// IsUrgent reports whether a departure is inside the urgent surcharge window.
func (PricingService) IsUrgent(departure, now time.Time) bool {
	return departure.After(now) && departure.Sub(now) < urgentWindow
}

// SubscriptionDiscount returns the tier discount on a base amount. Unknown or
// empty tiers get no discount.
func (PricingService) SubscriptionDiscount(baseCents int64, tier string) int64 {
	pct, ok := tierDiscountPercent[tier]
	if !ok {
		return 0
	}
	return baseCents * pct / 100
}

// ApplyReferralCredit spends up to creditCents against a total, never going
// negative. Returns the new total and the amount actually used.
func (PricingService) ApplyReferralCredit(totalCents, creditCents int64) (newTotal, used int64) {
	if creditCents <= 0 || totalCents <= 0 {
		return totalCents, 0
	}
	used = creditCents
	if used > totalCents {
		used = totalCents
	}
	return totalCents - used, used
}

// RefundPercent implements the cancellation policy: a full refund at least 24
// hours before departure, half at least 12 hours out, nothing inside that.
// Silver and gold members always get a full refund.
func (PricingService) RefundPercent(b models.Booking, tier string, now time.Time) int {
	if tier == domain.TierSilver || tier == domain.TierGold {
		return 100
	}
	if b.DepartureDate == nil {
		return 100
	}
	hours := b.DepartureDate.Sub(now).Hours()
	switch {
	case hours >= 24:
		return 100
	case hours >= 12:
		return 50
	default:
		return 0
	}
}

// RefundAmount converts the policy percentage into cents of the booking total.
func (s PricingService) RefundAmount(b models.Booking, tier string, now time.Time) int64 {
	return b.TotalCents * int64(s.RefundPercent(b, tier, now)) / 100
}
