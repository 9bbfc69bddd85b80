package services

import (
	"fmt"

	"thrive/internal/domain/models"
	"thrive/internal/repositories"
	"thrive/internal/utils"
)

// EmailSender delivers a rendered message. The default implementation only
// logs; real SMTP is wired at the edge when credentials exist.
type EmailSender interface {
	Send(to, subject, body string) error
}

// LogEmailSender writes would-be emails to the application log.
type LogEmailSender struct{}

func (LogEmailSender) Send(to, subject, _ string) error {
	utils.LogEvent("", "email", "send", fmt.Sprintf("to=%s subject=%q", to, subject))
	return nil
}

// NotificationService persists in-app notifications and mirrors the
// important ones to email. Notification failures are never fatal to the
// calling flow.
type NotificationService struct {
	Repo      repositories.NotificationRepository
	UserRepo  repositories.UserRepository
	Sender    EmailSender
	RequestID string
}

// Notify writes one in-app notification. Errors are logged and swallowed.
func (s NotificationService) Notify(userID, kind, title, message, bookingID string) {
	n := models.Notification{
		ID:        utils.NewID(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		BookingID: bookingID,
	}
	if bookingID != "" {
		n.LinkURL = "/bookings/" + bookingID
	}
	if err := s.Repo.Create(n); err != nil {
		utils.LogEvent(s.RequestID, "notification", "create_failed", "user_id="+userID+" err="+err.Error())
	}
}

// NotifyWithEmail persists the notification and also sends it by email.
func (s NotificationService) NotifyWithEmail(userID, kind, title, message, bookingID string) {
	n := models.Notification{
		ID:           utils.NewID(),
		UserID:       userID,
		Type:         kind,
		Title:        title,
		Message:      message,
		BookingID:    bookingID,
		SentViaEmail: true,
	}
	if bookingID != "" {
		n.LinkURL = "/bookings/" + bookingID
	}
	if err := s.Repo.Create(n); err != nil {
		utils.LogEvent(s.RequestID, "notification", "create_failed", "user_id="+userID+" err="+err.Error())
		return
	}

	sender := s.Sender
	if sender == nil {
		sender = LogEmailSender{}
	}
	user, err := s.UserRepo.GetByID(userID)
	if err != nil {
		utils.LogEvent(s.RequestID, "notification", "email_skipped", "user_id="+userID+" err="+err.Error())
		return
	}
	if err := sender.Send(user.Email, title, message); err != nil {
		utils.LogEvent(s.RequestID, "notification", "email_failed", "user_id="+userID+" err="+err.Error())
	}
}

// BookingConfirmed sends the standard confirmation message.
func (s NotificationService) BookingConfirmed(userID string, b models.Booking) {
	s.NotifyWithEmail(userID, "booking_confirmed", "Booking Confirmed",
		fmt.Sprintf("Your booking %s is confirmed. Total: %s.",
			b.BookingReference, utils.FormatCents(b.TotalCents)), b.ID)
}

// BookingCancelled sends the standard cancellation message.
func (s NotificationService) BookingCancelled(userID string, b models.Booking, refundCents int64) {
	msg := fmt.Sprintf("Your booking %s has been cancelled.", b.BookingReference)
	if refundCents > 0 {
		msg += fmt.Sprintf(" A refund of %s will be processed within 5-7 business days.", utils.FormatCents(refundCents))
	}
	s.NotifyWithEmail(userID, "booking_cancelled", "Booking Cancelled", msg, b.ID)
}

// PaymentReceived sends the standard payment receipt message.
func (s NotificationService) PaymentReceived(userID string, p models.Payment) {
	s.NotifyWithEmail(userID, "payment_received", "Payment Received",
		fmt.Sprintf("We received your payment %s of %s.",
			p.PaymentReference, utils.FormatCents(p.AmountCents)), p.BookingID)
}
