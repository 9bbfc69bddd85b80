package handlers

import (
	"thrive/internal/repositories"

	"github.com/gin-gonic/gin"
)

// AdminDashboard aggregates stats across every area for the back office
// landing page.
func AdminDashboard(c *gin.Context) {
	userStats, err := repositories.UserRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	bookingStats, err := repositories.BookingRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	paymentStats, err := repositories.PaymentRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	packageStats, err := repositories.PackageRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	quoteStats, err := repositories.QuoteRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	contactStats, err := repositories.ContactRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, "admin dashboard", gin.H{
		"users":    userStats,
		"bookings": bookingStats,
		"payments": paymentStats,
		"packages": packageStats,
		"quotes":   quoteStats,
		"contacts": contactStats,
	})
}

// AdminAuditLog pages through the audit trail.
func AdminAuditLog(c *gin.Context) {
	page := pageFromQuery(c)
	items, err := repositories.AuditRepository{}.List(repositories.AuditFilter{
		UserID:     c.Query("user_id"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "audit log", items, page)
}
