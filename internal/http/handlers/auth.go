package handlers

import (
	"net/http"
	"strings"
	"time"

	"thrive/internal/auth"
	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/http/middleware"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Phone           string `json:"phone"`
	ReferralCode    string `json:"referralCode"`
}

// splitFullName breaks a display name at the first space. A single token
// fills both parts so every account has a last name.
func splitFullName(full string) (string, string) {
	full = strings.Join(strings.Fields(full), " ")
	if i := strings.IndexByte(full, ' '); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, full
}

func (r registerRequest) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.FullName) == "" {
		errs["fullName"] = "full name is required"
	}
	if !utils.ValidEmail(r.Email) {
		errs["email"] = "a valid email address is required"
	}
	if !utils.ValidPassword(r.Password) {
		errs["password"] = "password needs at least 8 characters with letters and digits"
	}
	if r.ConfirmPassword == "" {
		errs["confirmPassword"] = "password confirmation is required"
	} else if r.ConfirmPassword != r.Password {
		errs["confirmPassword"] = "passwords do not match"
	}
	if r.Phone != "" && !utils.ValidPhone(r.Phone) {
		errs["phone"] = "phone number format is invalid"
	}
	return errs
}

// Register creates a customer account, optionally crediting a referrer.
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		RespondValidation(c, "registration failed validation", errs)
		return
	}

	users := repositories.UserRepository{}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := users.EmailExists(email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists {
		RespondError(c, http.StatusConflict, "an account with this email already exists", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	ref := referrals(c)
	firstName, lastName := splitFullName(req.FullName)
	u := models.User{
		ID:               utils.NewID(),
		Email:            email,
		PasswordHash:     string(hash),
		FirstName:        firstName,
		LastName:         lastName,
		Phone:            strings.TrimSpace(req.Phone),
		Role:             domain.RoleCustomer,
		SubscriptionTier: domain.TierNone,
		IsActive:         true,
	}
	u.ReferralCode = ref.CodeFor(u.ID)

	referrerID, err := ref.Resolve(req.ReferralCode, u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	u.ReferredBy = referrerID

	if err := users.Create(u); err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := ref.Reward(referrerID, u.ID); err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "referral", "reward_failed", "referrer="+referrerID+" err="+err.Error())
	}
	auditor(c).RecordRequest(u.ID, "user.register", "user", u.ID, "account created", c.ClientIP(), c.Request.UserAgent(), nil)

	tokens, err := issueTokenPair(u)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, "account created", gin.H{
		"user":   u.Public(),
		"tokens": tokens,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues an access/refresh pair.
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	users := repositories.UserRepository{}
	u, err := users.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		RespondError(c, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}
	if !u.IsActive {
		RespondError(c, http.StatusForbidden, "account is deactivated", nil)
		return
	}

	if err := users.TouchLastLogin(u.ID); err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "auth", "touch_last_login_failed", err.Error())
	}

	tokens, err := issueTokenPair(u)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "login successful", gin.H{
		"user":   u.Public(),
		"tokens": tokens,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh rotates a refresh token: the old jti is revoked for its remaining
// lifetime and a fresh pair is issued.
func Refresh(c *gin.Context) {
	var req refreshRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	claims, err := deps.Tokens.Parse(req.RefreshToken, auth.TokenRefresh)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if deps.Revoked.IsRevoked(c.Request.Context(), claims.ID) {
		RespondError(c, http.StatusUnauthorized, "refresh token has been revoked", nil)
		return
	}

	u, err := repositories.UserRepository{}.GetByID(claims.Subject)
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "account no longer exists", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	if !u.IsActive {
		RespondError(c, http.StatusForbidden, "account is deactivated", nil)
		return
	}

	deps.Revoked.Revoke(c.Request.Context(), claims.ID, claims.TTLRemaining(utils.NowUTC()))

	tokens, err := issueTokenPair(u)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "token refreshed", gin.H{"tokens": tokens})
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the current access token and, when supplied, the refresh
// token as well.
func Logout(c *gin.Context) {
	now := utils.NowUTC()
	if jti := middleware.TokenJTI(c); jti != "" {
		deps.Revoked.Revoke(c.Request.Context(), jti, deps.Tokens.AccessTTL)
	}

	var req logoutRequest
	if c.Request.Body != nil {
		_ = c.ShouldBindJSON(&req)
	}
	if req.RefreshToken != "" {
		if claims, err := deps.Tokens.Parse(req.RefreshToken, auth.TokenRefresh); err == nil {
			deps.Revoked.Revoke(c.Request.Context(), claims.ID, claims.TTLRemaining(now))
		}
	}
	RespondOK(c, "logged out", nil)
}

// Me returns the authenticated account.
func Me(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	RespondOK(c, "current user", gin.H{"user": u})
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset issues a short-lived reset token. The response is the
// same whether or not the email exists, so accounts cannot be enumerated.
func RequestPasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	msg := "if the email exists, reset instructions have been sent"
	u, err := repositories.UserRepository{}.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if !domain.IsNotFound(err) {
			RespondDomainError(c, err)
			return
		}
		RespondOK(c, msg, nil)
		return
	}

	token, _, err := deps.Tokens.IssueReset(u.ID, utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	notifier(c).NotifyWithEmail(u.ID, "password_reset", "Password reset requested",
		"Use this link within one hour: "+deps.FrontendURL+"/reset-password?token="+token, "")
	RespondOK(c, msg, nil)
}

type passwordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ConfirmPasswordReset exchanges a valid reset token for a new password and
// burns the token.
func ConfirmPasswordReset(c *gin.Context) {
	var req passwordResetConfirm
	if !BindJSONOrError(c, &req) {
		return
	}
	if !utils.ValidPassword(req.NewPassword) {
		RespondValidation(c, "password does not meet requirements", map[string]string{
			"newPassword": "password needs at least 8 characters with letters and digits",
		})
		return
	}

	claims, err := deps.Tokens.Parse(req.Token, auth.TokenReset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if deps.Revoked.IsRevoked(c.Request.Context(), claims.ID) {
		RespondError(c, http.StatusUnauthorized, "reset token already used", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := (repositories.UserRepository{}).UpdatePassword(claims.Subject, string(hash)); err != nil {
		RespondDomainError(c, err)
		return
	}
	deps.Revoked.Revoke(c.Request.Context(), claims.ID, claims.TTLRemaining(utils.NowUTC()))
	auditor(c).RecordRequest(claims.Subject, "user.password_reset", "user", claims.Subject, "password reset via token", c.ClientIP(), c.Request.UserAgent(), nil)
	RespondOK(c, "password updated", nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword updates the password for an authenticated user after
// re-checking the current one.
func ChangePassword(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		RespondError(c, http.StatusUnauthorized, "current password is incorrect", nil)
		return
	}
	if !utils.ValidPassword(req.NewPassword) {
		RespondValidation(c, "password does not meet requirements", map[string]string{
			"newPassword": "password needs at least 8 characters with letters and digits",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := (repositories.UserRepository{}).UpdatePassword(u.ID, string(hash)); err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).RecordRequest(u.ID, "user.password_change", "user", u.ID, "password changed", c.ClientIP(), c.Request.UserAgent(), nil)
	RespondOK(c, "password updated", nil)
}

func issueTokenPair(u models.User) (gin.H, error) {
	now := time.Now().UTC()
	access, _, err := deps.Tokens.IssueAccess(u.ID, u.Role, now)
	if err != nil {
		return nil, err
	}
	refresh, _, err := deps.Tokens.IssueRefresh(u.ID, u.Role, now)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"expires_in":    int(deps.Tokens.AccessTTL.Seconds()),
	}, nil
}
