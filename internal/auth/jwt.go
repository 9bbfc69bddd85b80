package auth

import (
	"errors"
	"time"

	"thrive/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. A token only works where its purpose is expected.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
	TokenReset   = "password_reset"
)

const resetTokenTTL = time.Hour

// Claims carries identity plus the token purpose.
type Claims struct {
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Manager signs and verifies the application's HS256 tokens.
type Manager struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (m Manager) issue(userID, role, tokenType string, ttl time.Duration, now time.Time) (string, string, error) {
	jti := uuid.NewString()
	claims := Claims{
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	return signed, jti, err
}

// IssueAccess returns a short-lived bearer token and its jti.
func (m Manager) IssueAccess(userID, role string, now time.Time) (string, string, error) {
	return m.issue(userID, role, TokenAccess, m.AccessTTL, now)
}

// IssueRefresh returns a long-lived refresh token and its jti.
func (m Manager) IssueRefresh(userID, role string, now time.Time) (string, string, error) {
	return m.issue(userID, role, TokenRefresh, m.RefreshTTL, now)
}

// IssueReset returns a one-hour token only valid for password resets.
func (m Manager) IssueReset(userID string, now time.Time) (string, string, error) {
	return m.issue(userID, "", TokenReset, resetTokenTTL, now)
}

// Parse validates the signature and expiry and enforces the token purpose.
func (m Manager) Parse(token, wantType string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid or expired token", Err: err}
	}
	if claims.TokenType != wantType {
		return Claims{}, domain.UnauthorizedError{Msg: "wrong token type"}
	}
	if claims.Subject == "" || claims.ID == "" {
		return Claims{}, domain.UnauthorizedError{Msg: "malformed token"}
	}
	return claims, nil
}

// TTLRemaining reports how long the token stays valid, used to bound the
// revocation record's lifetime.
func (c Claims) TTLRemaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}
