package handlers

import (
	"strings"

	"thrive/internal/http/middleware"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminListPayments pages through all transactions.
func AdminListPayments(c *gin.Context) {
	page := pageFromQuery(c)
	items, err := repositories.PaymentRepository{}.List(repositories.PaymentFilter{
		UserID: strings.TrimSpace(c.Query("user_id")),
		Status: strings.TrimSpace(c.Query("status")),
		Method: strings.TrimSpace(c.Query("method")),
	}, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "payments", items, page)
}

// AdminGetPayment returns any transaction.
func AdminGetPayment(c *gin.Context) {
	payment, err := repositories.PaymentRepository{}.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "payment detail", gin.H{"payment": payment})
}

// AdminPaymentStats returns revenue totals for the admin dashboard widgets.
func AdminPaymentStats(c *gin.Context) {
	stats, err := repositories.PaymentRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "payment stats", stats)
}

type adminRefundRequest struct {
	AmountCents int64  `json:"amountCents"`
	Reason      string `json:"reason"`
}

// AdminRefundPayment refunds a settled payment, in full when no amount is
// given.
func AdminRefundPayment(c *gin.Context) {
	var req adminRefundRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.PaymentRepository{}
	payment, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
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

	auditor(c).RecordRequest(middleware.UserID(c), "admin.payment_refund", "payment", payment.ID,
		"refunded "+utils.FormatCents(amount), c.ClientIP(), c.Request.UserAgent(), req)
	notifier(c).Notify(payment.UserID, "payment", "Refund issued",
		"A refund of "+utils.FormatCents(amount)+" was issued for "+payment.PaymentReference+".", payment.BookingID)

	updated, err := repo.GetByID(payment.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "payment refunded", gin.H{"payment": updated})
}
