package services

import (
	"database/sql/driver"
	"testing"

	"thrive/internal/domain"
	"thrive/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userTestColumns() []string {
	return []string{
		"id", "email", "password_hash", "first_name", "last_name", "phone",
		"role",
		"date_of_birth", "passport_number",
		"passport_expiry", "nationality",
		"preferred_airline", "frequent_flyer_numbers",
		"dietary_preferences", "special_assistance",
		"subscription_tier", "subscription_start", "subscription_end",
		"monthly_bookings_used",
		"company_name", "company_tax_id",
		"billing_address", "custom_settings",
		"email_verified", "is_active",
		"referral_code", "referred_by",
		"referral_credits_cents",
		"created_at", "updated_at", "last_login",
	}
}

func userTestRow(id, email, referralCode string) []driver.Value {
	var subStart, subEnd, lastLogin driver.Value
	return []driver.Value{
		id, email, "$2a$10$hash", "Jane", "Doe", "",
		"customer",
		"", "",
		"", "",
		"", "",
		"", "",
		"none", subStart, subEnd,
		0,
		"", "",
		"", "",
		true, true,
		referralCode, "",
		int64(0),
		testNow(), testNow(), lastLogin,
	}
}

func TestResolveEmptyCodeIsNoop(t *testing.T) {
	s := ReferralService{}
	referrer, err := s.Resolve("  ", "new-user")
	require.NoError(t, err)
	assert.Empty(t, referrer)
}

func TestResolveUnknownCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)+FROM users WHERE referral_code=").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := ReferralService{UserRepo: repositories.UserRepository{DB: db}}
	_, err = s.Resolve("NOPE42", "new-user")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestResolveOwnCodeRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)+FROM users WHERE referral_code=").
		WillReturnRows(sqlmock.NewRows(userTestColumns()).
			AddRow(userTestRow("u1", "jane@example.com", "JANE01")...))

	s := ReferralService{UserRepo: repositories.UserRepository{DB: db}}
	_, err = s.Resolve("JANE01", "u1")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestResolveLeavesBalancesUntouched(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)+FROM users WHERE referral_code=").
		WillReturnRows(sqlmock.NewRows(userTestColumns()).
			AddRow(userTestRow("ref-1", "referrer@example.com", "JANE01")...))

	s := ReferralService{UserRepo: repositories.UserRepository{DB: db}}
	referrer, err := s.Resolve("JANE01", "new-user")
	require.NoError(t, err)
	assert.Equal(t, "ref-1", referrer)

	// Only the lookup may run; the credit UPDATE belongs to Reward.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRewardCreditsReferrer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET referral_credits_cents=referral_credits_cents").
		WithArgs(int64(1000), "ref-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := ReferralService{
		UserRepo: repositories.UserRepository{DB: db},
		Notifier: NotificationService{Repo: repositories.NotificationRepository{DB: db}},
	}
	require.NoError(t, s.Reward("ref-1", "new-user"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRewardEmptyReferrerIsNoop(t *testing.T) {
	s := ReferralService{}
	require.NoError(t, s.Reward("", "new-user"))
}

func TestSpendNothingWhenNoCredits(t *testing.T) {
	s := ReferralService{}
	used, err := s.Spend("u1", 10000, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), used)
}
