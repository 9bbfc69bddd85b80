package models

import (
	"encoding/json"
	"time"
)

// User is an account row. Money amounts are integer cents.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role"`

	// Traveler profile
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	PassportNumber string `json:"passport_number,omitempty"`
	PassportExpiry string `json:"passport_expiry,omitempty"`
	Nationality    string `json:"nationality,omitempty"`

	// Preferences
	PreferredAirline     string          `json:"preferred_airline,omitempty"`
	FrequentFlyerNumbers json.RawMessage `json:"frequent_flyer_numbers,omitempty"`
	DietaryPreferences   string          `json:"dietary_preferences,omitempty"`
	SpecialAssistance    string          `json:"special_assistance,omitempty"`

	// Subscription
	SubscriptionTier    string     `json:"subscription_tier"`
	SubscriptionStart   *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd     *time.Time `json:"subscription_end,omitempty"`
	MonthlyBookingsUsed int        `json:"monthly_bookings_used"`

	// Corporate billing
	CompanyName    string `json:"company_name,omitempty"`
	CompanyTaxID   string `json:"company_tax_id,omitempty"`
	BillingAddress string `json:"billing_address,omitempty"`

	CustomSettings json.RawMessage `json:"custom_settings,omitempty"`

	EmailVerified        bool   `json:"email_verified"`
	IsActive             bool   `json:"is_active"`
	ReferralCode         string `json:"referral_code,omitempty"`
	ReferredBy           string `json:"referred_by,omitempty"`
	ReferralCreditsCents int64  `json:"referral_credits_cents"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// HasActiveSubscription reports whether the paid tier is still in effect.
func (u User) HasActiveSubscription(now time.Time) bool {
	if u.SubscriptionEnd == nil {
		return false
	}
	return now.Before(*u.SubscriptionEnd)
}

// Public trims the user down to the payload returned by auth endpoints.
func (u User) Public() map[string]any {
	return map[string]any{
		"id":                     u.ID,
		"email":                  u.Email,
		"first_name":             u.FirstName,
		"last_name":              u.LastName,
		"phone":                  u.Phone,
		"role":                   u.Role,
		"subscription_tier":      u.SubscriptionTier,
		"referral_code":          u.ReferralCode,
		"referral_credits_cents": u.ReferralCreditsCents,
		"email_verified":         u.EmailVerified,
		"created_at":             u.CreatedAt,
	}
}
