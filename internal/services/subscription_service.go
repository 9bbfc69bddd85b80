package services

import (
	"fmt"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/repositories"
	"thrive/internal/utils"
)

const subscriptionPeriod = 30 * 24 * time.Hour

// Plan describes one paid tier.
type Plan struct {
	Tier        string   `json:"tier"`
	Name        string   `json:"name"`
	PriceCents  int64    `json:"price_cents"`
	Currency    string   `json:"currency"`
	Interval    string   `json:"interval"`
	MaxBookings int      `json:"max_bookings"` // -1 means unlimited
	Benefits    []string `json:"benefits"`
}

var plans = []Plan{
	{
		Tier: domain.TierBronze, Name: "Bronze", PriceCents: 2999,
		Currency: "usd", Interval: "month", MaxBookings: 6,
		Benefits: []string{
			"6 bookings per month",
			"Basic customer support",
			"10% discount on all bookings",
			"Email notifications",
		},
	},
	{
		Tier: domain.TierSilver, Name: "Silver", PriceCents: 5999,
		Currency: "usd", Interval: "month", MaxBookings: 15,
		Benefits: []string{
			"15 bookings per month",
			"Priority customer support",
			"15% discount on all bookings",
			"SMS and email notifications",
			"Free cancellation up to departure",
		},
	},
	{
		Tier: domain.TierGold, Name: "Gold", PriceCents: 9999,
		Currency: "usd", Interval: "month", MaxBookings: -1,
		Benefits: []string{
			"Unlimited bookings",
			"24/7 VIP customer support",
			"20% discount on all bookings",
			"Free cancellation anytime",
			"Dedicated travel agent",
		},
	},
}

// SubscriptionService handles tier activation and monthly booking limits.
type SubscriptionService struct {
	UserRepo    repositories.UserRepository
	PaymentRepo repositories.PaymentRepository
	Notifier    NotificationService
	RequestID   string

	// Charge collects the plan price and returns the provider intent id.
	// Injectable for tests.
	Charge func(user models.User, amountCents int64, currency, description, paymentMethodID string) (string, error)
}

// Plans returns the published tier catalog.
func (SubscriptionService) Plans() []Plan { return plans }

// PlanFor looks up a tier in the catalog.
func PlanFor(tier string) (Plan, bool) {
	for _, p := range plans {
		if p.Tier == tier {
			return p, true
		}
	}
	return Plan{}, false
}

// Status summarizes the user's current subscription for the dashboard.
func (s SubscriptionService) Status(u models.User, now time.Time) map[string]any {
	remaining := 0
	if plan, ok := PlanFor(u.SubscriptionTier); ok && u.HasActiveSubscription(now) {
		if plan.MaxBookings < 0 {
			remaining = -1
		} else if r := plan.MaxBookings - u.MonthlyBookingsUsed; r > 0 {
			remaining = r
		}
	}
	return map[string]any{
		"tier":               u.SubscriptionTier,
		"start_date":         u.SubscriptionStart,
		"end_date":           u.SubscriptionEnd,
		"is_active":          u.HasActiveSubscription(now),
		"bookings_used":      u.MonthlyBookingsUsed,
		"bookings_remaining": remaining,
	}
}

// Upgrade charges the plan price and activates the tier for 30 days.
func (s SubscriptionService) Upgrade(user models.User, tier, paymentMethodID string, now time.Time) (models.Payment, error) {
	plan, ok := PlanFor(tier)
	if !ok {
		return models.Payment{}, domain.ValidationError{Field: "tier", Msg: "unknown subscription tier"}
	}
	if user.SubscriptionTier == tier && user.HasActiveSubscription(now) {
		return models.Payment{}, domain.ConflictError{Resource: "subscription", Msg: "tier already active"}
	}

	description := fmt.Sprintf("%s subscription (30 days)", plan.Name)
	intentID, err := s.Charge(user, plan.PriceCents, plan.Currency, description, paymentMethodID)
	if err != nil {
		utils.LogEvent(s.RequestID, "subscription", "charge_failed", "user_id="+user.ID+" tier="+tier)
		return models.Payment{}, domain.PaymentError{Msg: "subscription payment declined", Err: err}
	}

	payment := models.Payment{
		ID:                    utils.NewID(),
		PaymentReference:      utils.NewReference("SUB"),
		UserID:                user.ID,
		AmountCents:           plan.PriceCents,
		Currency:              plan.Currency,
		PaymentMethod:         "card",
		Status:                domain.PaymentPending,
		StripePaymentIntentID: intentID,
	}
	if err := s.PaymentRepo.Create(payment); err != nil {
		return models.Payment{}, err
	}
	// The charge id is not known here; the intent id is already on the row.
	if err := s.PaymentRepo.MarkPaid(payment.ID, "", "", ""); err != nil {
		return models.Payment{}, err
	}

	if err := s.UserRepo.ActivateSubscription(user.ID, tier, now, now.Add(subscriptionPeriod)); err != nil {
		return models.Payment{}, err
	}

	utils.LogEvent(s.RequestID, "subscription", "upgrade", "user_id="+user.ID+" tier="+tier)
	s.Notifier.Notify(user.ID, "subscription", "Subscription Activated",
		fmt.Sprintf("Your %s plan is now active until %s.", plan.Name,
			now.Add(subscriptionPeriod).Format("Jan 2, 2006")), "")
	return payment, nil
}

// CanBook enforces the monthly booking limit for the user's tier. Users
// without an active subscription are not limited.
func (SubscriptionService) CanBook(u models.User, now time.Time) error {
	if !u.HasActiveSubscription(now) {
		return nil
	}
	plan, ok := PlanFor(u.SubscriptionTier)
	if !ok || plan.MaxBookings < 0 {
		return nil
	}
	if u.MonthlyBookingsUsed >= plan.MaxBookings {
		return domain.ForbiddenError{Msg: fmt.Sprintf("monthly booking limit of %d reached for the %s plan", plan.MaxBookings, plan.Name)}
	}
	return nil
}

// ResetMonthlyCounters zeroes usage for all users; run at month start.
func (s SubscriptionService) ResetMonthlyCounters() (int64, error) {
	n, err := s.UserRepo.ResetMonthlyCounters()
	if err == nil {
		utils.LogEvent(s.RequestID, "subscription", "reset_counters", fmt.Sprintf("users=%d", n))
	}
	return n, err
}
