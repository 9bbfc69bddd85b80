package handlers

import (
	"thrive/internal/domain"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

// DashboardSummary aggregates the client dashboard: booking counts, spend
// and the subscription block.
func DashboardSummary(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	now := utils.NowUTC()

	counts, err := repositories.BookingRepository{}.DashboardCounts(u.ID, now)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	paymentsRepo := repositories.PaymentRepository{}
	totalSpend, err := paymentsRepo.TotalPaidCents(u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	spendByMonth, err := paymentsRepo.MonthlySpend(u.ID, 12, now)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	recent, err := repositories.BookingRepository{}.Recent(u.ID, 5)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	unread, err := repositories.NotificationRepository{}.CountUnread(u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, "dashboard summary", gin.H{
		"bookings": gin.H{
			"total":     counts.Total,
			"confirmed": counts.Confirmed,
			"upcoming":  counts.Upcoming,
			"trips":     counts.Trips,
		},
		"spend": gin.H{
			"total_cents": totalSpend,
			"by_month":    spendByMonth,
		},
		"recent_bookings":        recent,
		"unread_notifications":   unread,
		"subscription":           subscriptions(c).Status(u, now),
		"referral_code":          u.ReferralCode,
		"referral_credits_cents": u.ReferralCreditsCents,
	})
}

// DashboardTrips lists upcoming confirmed travel, soonest first.
func DashboardTrips(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	now := utils.NowUTC()

	page := pageFromQuery(c)
	trips, err := repositories.BookingRepository{}.List(repositories.BookingFilter{
		UserID: u.ID,
		Status: domain.BookingConfirmed,
		From:   &now,
	}, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "upcoming trips", trips, page)
}
