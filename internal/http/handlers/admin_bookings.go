package handlers

import (
	"strings"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/http/middleware"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminListBookings pages through all bookings with filters.
func AdminListBookings(c *gin.Context) {
	f := repositories.BookingFilter{
		UserID:      strings.TrimSpace(c.Query("user_id")),
		Status:      strings.TrimSpace(c.Query("status")),
		BookingType: strings.TrimSpace(c.Query("type")),
		Search:      strings.TrimSpace(c.Query("search")),
	}
	if from, err := utils.ParseDate(c.Query("from")); err == nil && c.Query("from") != "" {
		f.From = &from
	}
	if to, err := utils.ParseDate(c.Query("to")); err == nil && c.Query("to") != "" {
		f.To = &to
	}

	page := pageFromQuery(c)
	items, err := repositories.BookingRepository{}.List(f, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "bookings", items, page)
}

// AdminGetBooking returns any booking with passengers and payments.
func AdminGetBooking(c *gin.Context) {
	b, err := repositories.BookingRepository{}.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	passengers, err := repositories.PassengerRepository{}.ListByBooking(b.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	paymentRows, err := repositories.PaymentRepository{}.ListByBooking(b.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "booking detail", gin.H{
		"booking":    b,
		"passengers": passengers,
		"payments":   paymentRows,
	})
}

type adminBookingUpdate struct {
	Status              *string `json:"status"`
	AssignedAgentID     *string `json:"assignedAgentId"`
	AirlineConfirmation *string `json:"airlineConfirmation"`
	Notes               *string `json:"notes"`
}

// AdminUpdateBooking patches status, assignment or notes. Status changes
// notify the customer.
func AdminUpdateBooking(c *gin.Context) {
	var req adminBookingUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.BookingPending, domain.BookingProcessing, domain.BookingConfirmed,
			domain.BookingCompleted, domain.BookingCancelled:
		default:
			RespondValidation(c, "unknown booking status", map[string]string{"status": "invalid status"})
			return
		}
	}

	repo := repositories.BookingRepository{}
	b, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	err = repo.Patch(b.ID, models.BookingUpdate{
		Status:              req.Status,
		AssignedAgentID:     req.AssignedAgentID,
		AirlineConfirmation: req.AirlineConfirmation,
		Notes:               req.Notes,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if req.Status != nil && *req.Status != b.Status {
		notifier(c).Notify(b.UserID, "booking", "Booking update",
			"Your booking "+b.BookingReference+" is now "+*req.Status+".", b.ID)
	}
	auditor(c).RecordRequest(middleware.UserID(c), "admin.booking_update", "booking", b.ID,
		"booking patched", c.ClientIP(), c.Request.UserAgent(), req)

	updated, err := repo.GetByID(b.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "booking updated", gin.H{"booking": updated})
}

// AdminCancelBooking cancels on behalf of the customer. The refund policy
// runs against the booking owner's tier, not the operator's.
func AdminCancelBooking(c *gin.Context) {
	var req cancelBookingRequest
	if c.Request.Body != nil {
		_ = c.ShouldBindJSON(&req)
	}
	requestRefund := true
	if req.RequestRefund != nil {
		requestRefund = *req.RequestRefund
	}

	b, err := repositories.BookingRepository{}.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	owner, err := repositories.UserRepository{}.GetByID(b.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	result, err := bookings(c).Cancel(owner, b.ID, req.Reason, requestRefund, utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).RecordRequest(middleware.UserID(c), "admin.booking_cancel", "booking", b.ID,
		"booking cancelled by staff", c.ClientIP(), c.Request.UserAgent(), req)
	RespondOK(c, "booking cancelled", result)
}

// AdminBookingStats returns booking totals for the admin dashboard widgets.
func AdminBookingStats(c *gin.Context) {
	stats, err := repositories.BookingRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "booking stats", stats)
}
