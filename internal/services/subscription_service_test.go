package services

import (
	"testing"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeUser(tier string, used int, now time.Time) models.User {
	end := now.Add(10 * 24 * time.Hour)
	return models.User{
		ID:                  "u1",
		SubscriptionTier:    tier,
		SubscriptionEnd:     &end,
		MonthlyBookingsUsed: used,
	}
}

func TestCanBookWithinLimit(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := SubscriptionService{}

	assert.NoError(t, s.CanBook(activeUser(domain.TierBronze, 5, now), now))
	assert.NoError(t, s.CanBook(activeUser(domain.TierSilver, 14, now), now))
}

func TestCanBookLimitReached(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := SubscriptionService{}

	err := s.CanBook(activeUser(domain.TierBronze, 6, now), now)
	require.Error(t, err)
	assert.True(t, domain.IsForbidden(err))
}

func TestCanBookGoldUnlimited(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := SubscriptionService{}

	assert.NoError(t, s.CanBook(activeUser(domain.TierGold, 500, now), now))
}

func TestCanBookNoSubscription(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := SubscriptionService{}

	// free users are not limited
	assert.NoError(t, s.CanBook(models.User{ID: "u1", SubscriptionTier: domain.TierNone, MonthlyBookingsUsed: 99}, now))
}

func TestCanBookExpiredSubscription(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := now.Add(-time.Hour)
	u := models.User{ID: "u1", SubscriptionTier: domain.TierBronze, SubscriptionEnd: &end, MonthlyBookingsUsed: 99}

	assert.NoError(t, SubscriptionService{}.CanBook(u, now))
}

func TestPlansCatalog(t *testing.T) {
	got := SubscriptionService{}.Plans()
	require.Len(t, got, 3)

	bronze, ok := PlanFor(domain.TierBronze)
	require.True(t, ok)
	assert.Equal(t, int64(2999), bronze.PriceCents)
	assert.Equal(t, 6, bronze.MaxBookings)

	silver, _ := PlanFor(domain.TierSilver)
	assert.Equal(t, int64(5999), silver.PriceCents)
	assert.Equal(t, 15, silver.MaxBookings)

	gold, _ := PlanFor(domain.TierGold)
	assert.Equal(t, int64(9999), gold.PriceCents)
	assert.Equal(t, -1, gold.MaxBookings)

	_, ok = PlanFor("platinum")
	assert.False(t, ok)
}

func TestStatusRemainingBookings(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := SubscriptionService{}

	st := s.Status(activeUser(domain.TierBronze, 4, now), now)
	assert.Equal(t, 2, st["bookings_remaining"])
	assert.Equal(t, true, st["is_active"])

	st = s.Status(activeUser(domain.TierGold, 40, now), now)
	assert.Equal(t, -1, st["bookings_remaining"])

	st = s.Status(models.User{SubscriptionTier: domain.TierNone}, now)
	assert.Equal(t, 0, st["bookings_remaining"])
	assert.Equal(t, false, st["is_active"])
}

func TestUpgradeUnknownTier(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := SubscriptionService{}

	_, err := s.Upgrade(models.User{ID: "u1"}, "platinum", "pm_1", now)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestUpgradeSameActiveTier(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := SubscriptionService{}

	_, err := s.Upgrade(activeUser(domain.TierSilver, 0, now), domain.TierSilver, "pm_1", now)
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestUpgradeKeepsIntentIDOutOfChargeColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// stripe_charge_id and transaction_id settle as NULL; the intent id is
	// stored by the INSERT above.
	mock.ExpectExec("UPDATE payments").
		WithArgs(nil, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET subscription_tier").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := SubscriptionService{
		UserRepo:    repositories.UserRepository{DB: db},
		PaymentRepo: repositories.PaymentRepository{DB: db},
		Notifier:    NotificationService{Repo: repositories.NotificationRepository{DB: db}},
		Charge: func(_ models.User, amountCents int64, currency, _, _ string) (string, error) {
			assert.Equal(t, int64(5999), amountCents)
			assert.Equal(t, "usd", currency)
			return "pi_123", nil
		},
	}

	p, err := s.Upgrade(models.User{ID: "u1"}, domain.TierSilver, "pm_1", now)
	require.NoError(t, err)
	assert.Equal(t, "pi_123", p.StripePaymentIntentID)
	require.NoError(t, mock.ExpectationsWereMet())
}
