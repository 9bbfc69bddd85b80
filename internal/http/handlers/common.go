package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"thrive/internal/amadeus"
	"thrive/internal/auth"
	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/http/middleware"
	"thrive/internal/repositories"
	"thrive/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps carries the process-wide collaborators handlers need. Repositories
// are zero-value structs falling back to the shared DB, so only the stateful
// pieces live here.
type Deps struct {
	Tokens  auth.Manager
	Revoked auth.RevocationStore
	Flights *amadeus.Client

	StripeWebhookSecret string
	FrontendURL         string
}

var deps Deps

// Configure installs the shared dependencies. Call once before mounting
// routes.
func Configure(d Deps) {
	deps = d
}

// RespondError sends the standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"success":    false,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// RespondValidation adds the per-field errors map to the standard payload.
func RespondValidation(c *gin.Context, message string, fields map[string]string) {
	payload := gin.H{
		"success":    false,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if len(fields) > 0 {
		payload["errors"] = fields
	}
	c.JSON(http.StatusBadRequest, payload)
}

// RespondDomainError maps domain errors to HTTP statuses. Unknown errors
// become a generic 500 so internals never leak to clients.
func RespondDomainError(c *gin.Context, err error) {
	var apiErr amadeus.APIError
	switch {
	case domain.IsValidation(err):
		var v domain.ValidationError
		if errors.As(err, &v) {
			RespondValidation(c, v.Error(), v.FieldMap())
			return
		}
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case domain.IsUnauthorized(err):
		RespondError(c, http.StatusUnauthorized, err.Error(), nil)
	case domain.IsPayment(err):
		RespondError(c, http.StatusPaymentRequired, err.Error(), nil)
	case domain.IsForbidden(err):
		RespondError(c, http.StatusForbidden, err.Error(), nil)
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error(), nil)
	case domain.IsConflict(err):
		RespondError(c, http.StatusConflict, err.Error(), nil)
	case domain.IsRateLimit(err):
		RespondError(c, http.StatusTooManyRequests, err.Error(), nil)
	case errors.As(err, &apiErr):
		RespondError(c, http.StatusBadGateway, "flight provider rejected the request", err)
	default:
		RespondError(c, http.StatusInternalServerError, "something went wrong", nil)
	}
}

// RespondOK wraps data in the success envelope.
func RespondOK(c *gin.Context, message string, data any) {
	respond(c, http.StatusOK, message, data)
}

// RespondCreated is RespondOK with a 201.
func RespondCreated(c *gin.Context, message string, data any) {
	respond(c, http.StatusCreated, message, data)
}

func respond(c *gin.Context, status int, message string, data any) {
	payload := gin.H{
		"success":    true,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if data != nil {
		payload["data"] = data
	}
	c.JSON(status, payload)
}

// RespondPage wraps a list plus its pagination block.
func RespondPage(c *gin.Context, message string, items any, p domain.Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    message,
		"data":       items,
		"pagination": p,
		"request_id": middleware.GetRequestID(c),
	})
}

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "request body is required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request payload", err)
		return false
	}
	return true
}

// pageFromQuery reads ?page= and ?page_size= with clamped defaults.
func pageFromQuery(c *gin.Context) domain.Pagination {
	p := domain.Pagination{
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}
	p.Clamp()
	return p
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func int64Query(c *gin.Context, key string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(c.Query(key)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func boolQuery(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// currentUser loads the authenticated account. Handlers behind Authenticate
// can assume a user id is present; a missing row means the account was
// deleted after the token was issued.
func currentUser(c *gin.Context) (models.User, bool) {
	id := middleware.UserID(c)
	if id == "" {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return models.User{}, false
	}
	u, err := repositories.UserRepository{}.GetByID(id)
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "account no longer exists", nil)
			return models.User{}, false
		}
		RespondDomainError(c, err)
		return models.User{}, false
	}
	if !u.IsActive {
		RespondError(c, http.StatusForbidden, "account is deactivated", nil)
		return models.User{}, false
	}
	return u, true
}

// Service builders, one per request so log lines carry the request id.

func notifier(c *gin.Context) services.NotificationService {
	return services.NotificationService{
		Sender:    services.LogEmailSender{},
		RequestID: middleware.GetRequestID(c),
	}
}

func auditor(c *gin.Context) services.AuditService {
	return services.AuditService{RequestID: middleware.GetRequestID(c)}
}

func referrals(c *gin.Context) services.ReferralService {
	return services.ReferralService{
		Notifier:  notifier(c),
		RequestID: middleware.GetRequestID(c),
	}
}

func payments(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Notifier:      notifier(c),
		RequestID:     middleware.GetRequestID(c),
		WebhookSecret: deps.StripeWebhookSecret,
	}
}

func subscriptions(c *gin.Context) services.SubscriptionService {
	return services.SubscriptionService{
		Notifier:  notifier(c),
		RequestID: middleware.GetRequestID(c),
		Charge:    payments(c).ChargeImmediate,
	}
}

func bookings(c *gin.Context) services.BookingService {
	return services.BookingService{
		Subscription: subscriptions(c),
		Referral:     referrals(c),
		Payments:     payments(c),
		Notifier:     notifier(c),
		Audit:        auditor(c),
		RequestID:    middleware.GetRequestID(c),
	}
}

func docs(c *gin.Context) services.DocsService {
	return services.DocsService{RequestID: middleware.GetRequestID(c)}
}
