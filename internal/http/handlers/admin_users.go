package handlers

import (
	"net/http"
	"strings"

	"thrive/internal/domain"
	"thrive/internal/http/middleware"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminListUsers pages through accounts with search and filters.
func AdminListUsers(c *gin.Context) {
	f := repositories.UserFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Role:   strings.TrimSpace(c.Query("role")),
		Tier:   strings.TrimSpace(c.Query("tier")),
	}
	if raw := c.Query("active"); raw != "" {
		active := boolQuery(c, "active")
		f.Active = &active
	}

	page := pageFromQuery(c)
	items, err := repositories.UserRepository{}.List(f, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "users", items, page)
}

// AdminGetUser returns one account with its booking history.
func AdminGetUser(c *gin.Context) {
	u, err := repositories.UserRepository{}.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	page := domain.Pagination{Page: 1, PageSize: 10}
	recent, err := repositories.BookingRepository{}.List(repositories.BookingFilter{UserID: u.ID}, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "user detail", gin.H{
		"user":            u,
		"recent_bookings": recent,
	})
}

type adminUserUpdate struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
	Tier     *string `json:"tier"`
}

// AdminUpdateUser changes role, active flag or comps a subscription tier.
// Admins cannot deactivate themselves.
func AdminUpdateUser(c *gin.Context) {
	var req adminUserUpdate
	if !BindJSONOrError(c, &req) {
		return
	}

	users := repositories.UserRepository{}
	target, err := users.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if req.Role != nil {
		switch *req.Role {
		case domain.RoleCustomer, domain.RoleAgent, domain.RoleAdmin:
		default:
			RespondValidation(c, "unknown role", map[string]string{"role": "role must be customer, agent or admin"})
			return
		}
		if err := users.SetRole(target.ID, *req.Role); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	if req.IsActive != nil {
		if target.ID == middleware.UserID(c) && !*req.IsActive {
			RespondError(c, http.StatusConflict, "you cannot deactivate your own account", nil)
			return
		}
		if err := users.SetActive(target.ID, *req.IsActive); err != nil {
			RespondDomainError(c, err)
			return
		}
	}

	if req.Tier != nil {
		switch *req.Tier {
		case domain.TierBronze, domain.TierSilver, domain.TierGold:
		default:
			RespondValidation(c, "unknown tier", map[string]string{"tier": "tier must be bronze, silver or gold"})
			return
		}
		now := utils.NowUTC()
		if err := users.ActivateSubscription(target.ID, *req.Tier, now, now.AddDate(0, 0, 30)); err != nil {
			RespondDomainError(c, err)
			return
		}
	}

	auditor(c).RecordRequest(middleware.UserID(c), "admin.user_update", "user", target.ID,
		"role/active updated", c.ClientIP(), c.Request.UserAgent(), req)

	updated, err := users.GetByID(target.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "user updated", gin.H{"user": updated})
}

// AdminDeleteUser deactivates an account. Rows are never hard-deleted so
// bookings and payments keep their owner.
func AdminDeleteUser(c *gin.Context) {
	users := repositories.UserRepository{}
	target, err := users.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if target.ID == middleware.UserID(c) {
		RespondError(c, http.StatusConflict, "you cannot deactivate your own account", nil)
		return
	}
	if err := users.SetActive(target.ID, false); err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).RecordRequest(middleware.UserID(c), "admin.user_deactivate", "user", target.ID,
		"account deactivated", c.ClientIP(), c.Request.UserAgent(), nil)
	RespondOK(c, "user deactivated", nil)
}

// AdminUserStats returns account totals for the admin dashboard widgets.
func AdminUserStats(c *gin.Context) {
	stats, err := repositories.UserRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "user stats", stats)
}
