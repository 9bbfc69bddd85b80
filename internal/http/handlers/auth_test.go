package handlers

import (
	"database/sql/driver"
	"fmt"
	"net/http"
	"testing"
	"time"

	intconfig "thrive/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referrerTestColumns() []string {
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

func referrerTestRow(id, email, referralCode string) []driver.Value {
	var subStart, subEnd, lastLogin driver.Value
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, email, "$2a$10$hash", "Rex", "Ferrer", "",
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
		now, now, lastLogin,
	}
}

func TestRegisterFailedInsertLeavesReferrerUntouched(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	prev := intconfig.DB
	intconfig.DB = db
	defer func() { intconfig.DB = prev }()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT(.|\n)+FROM users WHERE referral_code=").
		WillReturnRows(sqlmock.NewRows(referrerTestColumns()).
			AddRow(referrerTestRow("ref-1", "referrer@example.com", "REXF01")...))
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(fmt.Errorf("Duplicate entry 'jane@example.com' for key 'users.email'"))

	w, payload := performJSON(t, Register, http.MethodPost, "/register", `{
		"fullName": "Jane Doe",
		"email": "jane@example.com",
		"password": "Str0ngpass",
		"confirmPassword": "Str0ngpass",
		"referralCode": "REXF01"
	}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, payload["success"])

	// The credit UPDATE and referral notification must not have run.
	require.NoError(t, mock.ExpectationsWereMet())
}
