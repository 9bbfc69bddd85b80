package handlers

import (
	"thrive/internal/repositories"

	"github.com/gin-gonic/gin"
)

// ListNotifications pages through the caller's notifications, optionally
// unread only.
func ListNotifications(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	page := pageFromQuery(c)
	items, err := repositories.NotificationRepository{}.ListByUser(u.ID, boolQuery(c, "unread"), &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "notifications", items, page)
}

// UnreadNotificationCount powers the bell badge.
func UnreadNotificationCount(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := repositories.NotificationRepository{}.CountUnread(u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "unread count", gin.H{"unread": n})
}

// MarkNotificationRead marks one notification read. Re-marking is a no-op.
func MarkNotificationRead(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	if err := (repositories.NotificationRepository{}).MarkRead(c.Param("id"), u.ID); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "notification marked read", nil)
}

// MarkAllNotificationsRead clears the unread badge.
func MarkAllNotificationsRead(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := repositories.NotificationRepository{}.MarkAllRead(u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "notifications marked read", gin.H{"marked": n})
}
