package handlers

import (
	"strings"
	"time"

	"thrive/internal/domain"
	"thrive/internal/repositories"
	"thrive/internal/services"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

// ListBookings pages through the caller's bookings with optional status,
// type and date filters.
func ListBookings(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	f := repositories.BookingFilter{
		UserID:      u.ID,
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

// ListFlightBookings is the flight-only view of the caller's bookings.
func ListFlightBookings(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	page := pageFromQuery(c)
	items, err := repositories.BookingRepository{}.List(repositories.BookingFilter{
		UserID:      u.ID,
		BookingType: domain.BookingTypeFlight,
		Status:      strings.TrimSpace(c.Query("status")),
	}, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "flight bookings", items, page)
}

// GetBooking returns one owned booking with its passengers and payments.
func GetBooking(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	b, err := repositories.BookingRepository{}.GetOwned(c.Param("id"), u.ID)
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

type packageBookingRequest struct {
	DepartureDate   string                    `json:"departureDate"`
	Passengers      []services.PassengerInput `json:"passengers"`
	SpecialRequests string                    `json:"specialRequests"`
	UseCredits      bool                      `json:"useCredits"`
}

// BookPackage creates a pending booking for a catalog package priced by
// head count.
func BookPackage(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req packageBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	in := services.PackageBookingInput{
		PackageID:       c.Param("id"),
		Passengers:      req.Passengers,
		SpecialRequests: req.SpecialRequests,
		UseCredits:      req.UseCredits,
	}
	if dep, err := utils.ParseDate(req.DepartureDate); err == nil && req.DepartureDate != "" {
		in.DepartureDate = &dep
	}

	b, err := bookings(c).CreatePackageBooking(u, in, utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, "package booking created", gin.H{"booking": b})
}

type cancelBookingRequest struct {
	Reason        string `json:"reason"`
	RequestRefund *bool  `json:"requestRefund"`
}

// CancelBooking applies the refund policy and cancels the booking.
func CancelBooking(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var req cancelBookingRequest
	if c.Request.Body != nil {
		_ = c.ShouldBindJSON(&req)
	}
	requestRefund := true
	if req.RequestRefund != nil {
		requestRefund = *req.RequestRefund
	}

	result, err := bookings(c).Cancel(u, c.Param("id"), req.Reason, requestRefund, time.Now().UTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "booking cancelled", result)
}
