package handlers

import (
	"net/http"
	"strings"

	"thrive/internal/domain"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

type paymentIntentRequest struct {
	BookingID string `json:"bookingId"`
	Currency  string `json:"currency"`
}

// CreatePaymentIntent opens a gateway intent for an owned pending booking
// and returns the client secret for the card form.
func CreatePaymentIntent(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req paymentIntentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	b, err := repositories.BookingRepository{}.GetOwned(req.BookingID, u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if b.Status != domain.BookingPending {
		RespondError(c, http.StatusConflict, "booking is not awaiting payment", nil)
		return
	}

	payment, clientSecret, err := payments(c).CreateIntent(u, b, req.Currency)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, "payment intent created", gin.H{
		"payment":       payment,
		"client_secret": clientSecret,
	})
}

type paymentConfirmRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

// ConfirmPayment verifies the intent with the gateway, settles the payment
// and confirms the booking.
func ConfirmPayment(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req paymentConfirmRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.PaymentIntentID) == "" {
		RespondValidation(c, "payment intent id is required", map[string]string{
			"paymentIntentId": "payment intent id is required",
		})
		return
	}

	payment, err := payments(c).Confirm(req.PaymentIntentID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if payment.UserID != u.ID {
		RespondError(c, http.StatusForbidden, "payment belongs to another account", nil)
		return
	}

	bookingsRepo := repositories.BookingRepository{}
	if payment.BookingID != "" {
		if err := bookingsRepo.SetStatus(payment.BookingID, domain.BookingConfirmed); err != nil && !domain.IsNotFound(err) {
			RespondDomainError(c, err)
			return
		}
		if b, err := bookingsRepo.GetByID(payment.BookingID); err == nil {
			notifier(c).BookingConfirmed(u.ID, b)
		}
	}
	notifier(c).PaymentReceived(u.ID, payment)
	auditor(c).Record(u.ID, "payment.confirm", "payment", payment.ID, "payment settled "+payment.PaymentReference, nil)
	RespondOK(c, "payment confirmed", gin.H{"payment": payment})
}

// GetPayment returns one of the caller's payments.
func GetPayment(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	payment, err := repositories.PaymentRepository{}.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if payment.UserID != u.ID {
		RespondDomainError(c, domain.NotFoundError{Resource: "payment"})
		return
	}
	RespondOK(c, "payment detail", gin.H{"payment": payment})
}

type refundRequest struct {
	AmountCents int64  `json:"amountCents"`
	Reason      string `json:"reason"`
}

// RefundPayment lets the payer refund a settled payment, in full when no
// amount is given.
func RefundPayment(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req refundRequest
	if c.Request.Body != nil {
		_ = c.ShouldBindJSON(&req)
	}

	repo := repositories.PaymentRepository{}
	payment, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if payment.UserID != u.ID {
		RespondDomainError(c, domain.NotFoundError{Resource: "payment"})
		return
	}

	amount := req.AmountCents
	if amount == 0 {
		amount = payment.AmountCents
	}
	if err := payments(c).Refund(payment, amount, req.Reason, utils.NowUTC()); err != nil {
		RespondDomainError(c, err)
		return
	}

	auditor(c).Record(u.ID, "payment.refund", "payment", payment.ID,
		"refunded "+utils.FormatCents(amount), nil)

	updated, err := repo.GetByID(payment.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "payment refunded", gin.H{"payment": updated})
}

// ListBookingPayments returns all transactions against an owned booking.
func ListBookingPayments(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	b, err := repositories.BookingRepository{}.GetOwned(c.Param("bookingId"), u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	items, err := repositories.PaymentRepository{}.ListByBooking(b.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "booking payments", items)
}

// ListPayments pages through the caller's payment history.
func ListPayments(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	page := pageFromQuery(c)
	items, err := repositories.PaymentRepository{}.List(repositories.PaymentFilter{
		UserID: u.ID,
		Status: strings.TrimSpace(c.Query("status")),
	}, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "payments", items, page)
}
