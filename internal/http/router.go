// Package http wires middleware and handlers into the gin engine.
package http

import (
	"net/http"

	"thrive/internal/auth"
	"thrive/internal/config"
	"thrive/internal/domain"
	"thrive/internal/http/handlers"
	"thrive/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine. handlers.Configure must run before this.
func NewRouter(env config.Env, tokens auth.Manager, revoked auth.RevocationStore) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(env.CORSOrigins))

	r.NoRoute(func(c *gin.Context) {
		handlers.RespondError(c, http.StatusNotFound, "route not found", nil)
	})

	r.GET("/health", handlers.Health)
	r.GET("/health/db", handlers.DBCheck)

	api := r.Group("/api")

	authed := middleware.Authenticate(tokens, revoked)
	limited := middleware.RateLimit(config.RDB, env.RateLimitPerMinute)

	auth := api.Group("/auth")
	{
		auth.POST("/register", limited, handlers.Register)
		auth.POST("/login", limited, handlers.Login)
		auth.POST("/refresh", handlers.Refresh)
		auth.POST("/logout", authed, handlers.Logout)
		auth.GET("/me", authed, handlers.Me)
		auth.POST("/password-reset", limited, handlers.RequestPasswordReset)
		auth.POST("/password-reset/confirm", limited, handlers.ConfirmPasswordReset)
		auth.PUT("/password", authed, handlers.ChangePassword)
	}

	packages := api.Group("/packages")
	{
		packages.GET("", handlers.SearchPackages)
		packages.GET("/featured", handlers.FeaturedPackages)
		packages.GET("/popular", handlers.PopularPackages)
		packages.GET("/destinations", handlers.PackageDestinations)
		packages.GET("/price-range", handlers.PackagePriceRange)
		packages.GET("/stats", handlers.PackageStats)
		packages.GET("/slug/:slug", handlers.GetPackageBySlug)
		packages.GET("/:id", handlers.GetPackage)
		packages.GET("/:id/similar", handlers.SimilarPackages)
		packages.POST("/:id/book", authed, handlers.BookPackage)
	}

	flights := api.Group("/flights")
	{
		flights.GET("/locations", limited, handlers.SearchFlightLocations)
		flights.GET("/search", limited, handlers.SearchFlights)
		flights.POST("/search/multi-city", limited, handlers.SearchMultiCity)
		flights.POST("/price", authed, handlers.PriceFlightOffer)
		flights.POST("/seatmaps", authed, handlers.FlightSeatMaps)
		flights.POST("/book", authed, handlers.BookFlight)
		flights.POST("/book/confirm", authed, handlers.ConfirmFlightBooking)
		flights.GET("/bookings", authed, handlers.ListFlightBookings)
		flights.GET("/bookings/:id", authed, handlers.GetBooking)
		flights.POST("/bookings/:id/cancel", authed, handlers.CancelFlightBooking)
	}

	api.POST("/contact", limited, handlers.SubmitContact)
	api.POST("/payments/webhook", handlers.StripeWebhook)

	client := api.Group("/client", authed)
	{
		client.GET("/dashboard", handlers.DashboardSummary)
		client.GET("/trips", handlers.DashboardTrips)
		client.GET("/trips/:id", handlers.GetBooking)

		client.GET("/profile", handlers.GetProfile)
		client.PUT("/profile", handlers.UpdateProfile)

		client.GET("/bookings", handlers.ListBookings)
		client.GET("/bookings/:id", handlers.GetBooking)
		client.POST("/bookings/:id/cancel", handlers.CancelBooking)
		client.GET("/bookings/:id/invoice", handlers.DownloadInvoice)
		client.GET("/bookings/:id/eticket", handlers.DownloadETicket)

		client.GET("/quotes", handlers.ListQuotes)
		client.POST("/quotes", handlers.CreateQuote)
		client.GET("/quotes/:id", handlers.GetQuote)
		client.POST("/quotes/:id/accept", handlers.AcceptQuote)

		client.GET("/payments", handlers.ListPayments)
		client.POST("/payments/intent", handlers.CreatePaymentIntent)
		client.POST("/payments/confirm", handlers.ConfirmPayment)
		client.GET("/payments/:id", handlers.GetPayment)
		client.POST("/payments/:id/refund", handlers.RefundPayment)
		client.GET("/payments/booking/:bookingId", handlers.ListBookingPayments)

		client.GET("/subscription", handlers.SubscriptionStatus)
		client.POST("/subscription/upgrade", handlers.UpgradeSubscription)

		client.GET("/favorites", handlers.ListFavorites)
		client.PUT("/favorites/:id", handlers.AddFavorite)
		client.DELETE("/favorites/:id", handlers.RemoveFavorite)
		client.GET("/favorites/:id/check", handlers.CheckFavorite)

		client.GET("/notifications", handlers.ListNotifications)
		client.GET("/notifications/unread", handlers.UnreadNotificationCount)
		client.PUT("/notifications/:id/read", handlers.MarkNotificationRead)
		client.PUT("/notifications/read-all", handlers.MarkAllNotificationsRead)
	}

	staff := middleware.RequireRoles(domain.RoleAdmin, domain.RoleAgent)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	admin := api.Group("/admin", authed, staff)
	{
		admin.GET("/dashboard", handlers.AdminDashboard)
		admin.GET("/audit-log", adminOnly, handlers.AdminAuditLog)

		admin.GET("/users", handlers.AdminListUsers)
		admin.GET("/users/stats", handlers.AdminUserStats)
		admin.GET("/users/:id", handlers.AdminGetUser)
		admin.PUT("/users/:id", adminOnly, handlers.AdminUpdateUser)
		admin.DELETE("/users/:id", adminOnly, handlers.AdminDeleteUser)

		admin.GET("/bookings", handlers.AdminListBookings)
		admin.GET("/bookings/stats", handlers.AdminBookingStats)
		admin.GET("/bookings/:id", handlers.AdminGetBooking)
		admin.PUT("/bookings/:id", handlers.AdminUpdateBooking)
		admin.POST("/bookings/:id/cancel", handlers.AdminCancelBooking)

		admin.GET("/packages", handlers.AdminListPackages)
		admin.GET("/packages/stats", handlers.AdminPackageStats)
		admin.POST("/packages", handlers.AdminCreatePackage)
		admin.PUT("/packages/:id", handlers.AdminUpdatePackage)
		admin.DELETE("/packages/:id", adminOnly, handlers.AdminDeletePackage)

		admin.GET("/payments", handlers.AdminListPayments)
		admin.GET("/payments/stats", handlers.AdminPaymentStats)
		admin.GET("/payments/:id", handlers.AdminGetPayment)
		admin.POST("/payments/:id/refund", adminOnly, handlers.AdminRefundPayment)

		admin.GET("/quotes", handlers.AdminListQuotes)
		admin.GET("/quotes/stats", handlers.AdminQuoteStats)
		admin.GET("/quotes/:id", handlers.AdminGetQuote)
		admin.POST("/quotes/:id/send", handlers.AdminSendQuote)
		admin.POST("/quotes/expire", handlers.AdminExpireQuotes)

		admin.GET("/contacts", handlers.AdminListContacts)
		admin.GET("/contacts/:id", handlers.AdminGetContact)
		admin.PUT("/contacts/:id", handlers.AdminUpdateContact)
		admin.DELETE("/contacts/:id", adminOnly, handlers.AdminDeleteContact)

		admin.GET("/settings", adminOnly, handlers.AdminListSettings)
		admin.PUT("/settings/:key", adminOnly, handlers.AdminSetSetting)
		admin.DELETE("/settings/:key", adminOnly, handlers.AdminDeleteSetting)
	}

	return r
}
