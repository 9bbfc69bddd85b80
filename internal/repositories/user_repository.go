package repositories

import (
	"database/sql"
	"strings"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB { return fallbackDB(r.DB) }

const userColumns = `
	id, email, password_hash, first_name, last_name, COALESCE(phone,''),
	role,
	COALESCE(date_of_birth,''), COALESCE(passport_number,''),
	COALESCE(passport_expiry,''), COALESCE(nationality,''),
	COALESCE(preferred_airline,''), COALESCE(frequent_flyer_numbers,''),
	COALESCE(dietary_preferences,''), COALESCE(special_assistance,''),
	subscription_tier, subscription_start, subscription_end,
	monthly_bookings_used,
	COALESCE(company_name,''), COALESCE(company_tax_id,''),
	COALESCE(billing_address,''), COALESCE(custom_settings,''),
	email_verified, is_active,
	COALESCE(referral_code,''), COALESCE(referred_by,''),
	referral_credits_cents,
	created_at, updated_at, last_login`

func scanUser(row rowScanner) (models.User, error) {
	var (
		u          models.User
		ffn, cs    []byte
		subStart   sql.NullTime
		subEnd     sql.NullTime
		lastLogin  sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.Role,
		&u.DateOfBirth, &u.PassportNumber,
		&u.PassportExpiry, &u.Nationality,
		&u.PreferredAirline, &ffn,
		&u.DietaryPreferences, &u.SpecialAssistance,
		&u.SubscriptionTier, &subStart, &subEnd,
		&u.MonthlyBookingsUsed,
		&u.CompanyName, &u.CompanyTaxID,
		&u.BillingAddress, &cs,
		&u.EmailVerified, &u.IsActive,
		&u.ReferralCode, &u.ReferredBy,
		&u.ReferralCreditsCents,
		&u.CreatedAt, &u.UpdatedAt, &lastLogin,
	)
	if err != nil {
		return models.User{}, err
	}
	if len(ffn) > 0 {
		u.FrequentFlyerNumbers = ffn
	}
	if len(cs) > 0 {
		u.CustomSettings = cs
	}
	u.SubscriptionStart = nullTime(subStart)
	u.SubscriptionEnd = nullTime(subEnd)
	u.LastLogin = nullTime(lastLogin)
	return u, nil
}

func (r UserRepository) GetByID(id string) (models.User, error) {
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepository) GetByEmail(email string) (models.User, error) {
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepository) GetByReferralCode(code string) (models.User, error) {
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE referral_code=? LIMIT 1`, strings.ToUpper(strings.TrimSpace(code)))
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepository) EmailExists(email string) (bool, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE email=?`, strings.ToLower(strings.TrimSpace(email))).Scan(&n)
	return n > 0, err
}

func (r UserRepository) Create(u models.User) error {
	_, err := r.db().Exec(`
		INSERT INTO users (
			id, email, password_hash, first_name, last_name, phone, role,
			subscription_tier, monthly_bookings_used,
			email_verified, is_active,
			referral_code, referred_by, referral_credits_cents,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())`,
		u.ID, strings.ToLower(u.Email), u.PasswordHash, u.FirstName, u.LastName,
		nullIfEmpty(u.Phone), u.Role,
		u.SubscriptionTier, u.MonthlyBookingsUsed,
		u.EmailVerified, u.IsActive,
		nullIfEmpty(u.ReferralCode), nullIfEmpty(u.ReferredBy), u.ReferralCreditsCents,
	)
	return err
}

// ProfileUpdate carries the PUT /profile payload; nil pointers are skipped.
type ProfileUpdate struct {
	FirstName            *string
	LastName             *string
	Phone                *string
	DateOfBirth          *string
	PassportNumber       *string
	PassportExpiry       *string
	Nationality          *string
	PreferredAirline     *string
	FrequentFlyerNumbers []byte
	DietaryPreferences   *string
	SpecialAssistance    *string
	CompanyName          *string
	CompanyTaxID         *string
	BillingAddress       *string
	CustomSettings       []byte
}

func (r UserRepository) UpdateProfile(id string, p ProfileUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, nullIfEmpty(strings.TrimSpace(*v)))
		}
	}
	add("first_name", p.FirstName)
	add("last_name", p.LastName)
	add("phone", p.Phone)
	add("date_of_birth", p.DateOfBirth)
	add("passport_number", p.PassportNumber)
	add("passport_expiry", p.PassportExpiry)
	add("nationality", p.Nationality)
	add("preferred_airline", p.PreferredAirline)
	add("dietary_preferences", p.DietaryPreferences)
	add("special_assistance", p.SpecialAssistance)
	add("company_name", p.CompanyName)
	add("company_tax_id", p.CompanyTaxID)
	add("billing_address", p.BillingAddress)
	if p.FrequentFlyerNumbers != nil {
		sets = append(sets, "frequent_flyer_numbers=?")
		args = append(args, nullIfEmptyBytes(p.FrequentFlyerNumbers))
	}
	if p.CustomSettings != nil {
		sets = append(sets, "custom_settings=?")
		args = append(args, nullIfEmptyBytes(p.CustomSettings))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	_, err := r.db().Exec(`UPDATE users SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}

func (r UserRepository) UpdatePassword(id, passwordHash string) error {
	_, err := r.db().Exec(`UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?`, passwordHash, id)
	return err
}

func (r UserRepository) TouchLastLogin(id string) error {
	_, err := r.db().Exec(`UPDATE users SET last_login=NOW() WHERE id=?`, id)
	return err
}

func (r UserRepository) SetActive(id string, active bool) error {
	_, err := r.db().Exec(`UPDATE users SET is_active=?, updated_at=NOW() WHERE id=?`, active, id)
	return err
}

func (r UserRepository) SetRole(id, role string) error {
	_, err := r.db().Exec(`UPDATE users SET role=?, updated_at=NOW() WHERE id=?`, role, id)
	return err
}

func (r UserRepository) AddReferralCredits(id string, cents int64) error {
	_, err := r.db().Exec(`UPDATE users SET referral_credits_cents=referral_credits_cents+?, updated_at=NOW() WHERE id=?`, cents, id)
	return err
}

// SpendReferralCredits decrements credits but never below zero; the WHERE
// guard makes concurrent spends safe.
func (r UserRepository) SpendReferralCredits(id string, cents int64) error {
	res, err := r.db().Exec(`
		UPDATE users SET referral_credits_cents=referral_credits_cents-?, updated_at=NOW()
		WHERE id=? AND referral_credits_cents>=?`, cents, id, cents)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ConflictError{Resource: "referral credits", Msg: "insufficient balance"}
	}
	return nil
}

func (r UserRepository) ActivateSubscription(id, tier string, start, end time.Time) error {
	_, err := r.db().Exec(`
		UPDATE users
		SET subscription_tier=?, subscription_start=?, subscription_end=?,
		    monthly_bookings_used=0, updated_at=NOW()
		WHERE id=?`, tier, start, end, id)
	return err
}

func (r UserRepository) IncrementMonthlyBookings(id string) error {
	_, err := r.db().Exec(`UPDATE users SET monthly_bookings_used=monthly_bookings_used+1, updated_at=NOW() WHERE id=?`, id)
	return err
}

// ResetMonthlyCounters zeroes usage for all paid tiers; run by the CLI or a
// scheduled job at month boundaries.
func (r UserRepository) ResetMonthlyCounters() (int64, error) {
	res, err := r.db().Exec(`UPDATE users SET monthly_bookings_used=0 WHERE subscription_tier IN ('bronze','silver','gold')`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Search   string
	Role     string
	Active   *bool
	Tier     string
}

func (r UserRepository) List(f UserFilter, p *domain.Pagination) ([]models.User, error) {
	p.Clamp()
	where := []string{"1=1"}
	args := []any{}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "(email LIKE ? OR first_name LIKE ? OR last_name LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}
	if f.Role != "" {
		where = append(where, "role=?")
		args = append(args, f.Role)
	}
	if f.Active != nil {
		where = append(where, "is_active=?")
		args = append(args, *f.Active)
	}
	if f.Tier != "" {
		where = append(where, "subscription_tier=?")
		args = append(args, f.Tier)
	}
	cond := strings.Join(where, " AND ")

	if err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE `+cond, args...).Scan(&p.Total); err != nil {
		return nil, err
	}

	args = append(args, p.PageSize, p.Offset())
	rows, err := r.db().Query(`SELECT `+userColumns+` FROM users WHERE `+cond+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UserStats backs the admin users dashboard card.
type UserStats struct {
	Total       int            `json:"total"`
	Active      int            `json:"active"`
	NewThisWeek int            `json:"new_this_week"`
	ByRole      map[string]int `json:"by_role"`
	ByTier      map[string]int `json:"by_tier"`
}

func (r UserRepository) Stats() (UserStats, error) {
	s := UserStats{ByRole: map[string]int{}, ByTier: map[string]int{}}
	if err := r.db().QueryRow(`SELECT COUNT(*), COALESCE(SUM(is_active),0) FROM users`).Scan(&s.Total, &s.Active); err != nil {
		return s, err
	}
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE created_at >= DATE_SUB(NOW(), INTERVAL 7 DAY)`).Scan(&s.NewThisWeek); err != nil {
		return s, err
	}
	rows, err := r.db().Query(`SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return s, err
		}
		s.ByRole[role] = n
	}
	if err := rows.Err(); err != nil {
		return s, err
	}
	tierRows, err := r.db().Query(`SELECT subscription_tier, COUNT(*) FROM users GROUP BY subscription_tier`)
	if err != nil {
		return s, err
	}
	defer tierRows.Close()
	for tierRows.Next() {
		var tier string
		var n int
		if err := tierRows.Scan(&tier, &n); err != nil {
			return s, err
		}
		s.ByTier[tier] = n
	}
	return s, tierRows.Err()
}
