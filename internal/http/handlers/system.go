package handlers

import (
	"context"
	"net/http"
	"time"

	intconfig "thrive/internal/config"
	"thrive/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// Health reports liveness without touching dependencies.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime_s":   int(time.Since(startedAt).Seconds()),
		"request_id": middleware.GetRequestID(c),
	})
}

// DBCheck pings the database so orchestrators can gate on readiness.
func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		RespondError(c, http.StatusServiceUnavailable, "database not connected", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := intconfig.DB.PingContext(ctx); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database unreachable", err)
		return
	}
	RespondOK(c, "database reachable", nil)
}
