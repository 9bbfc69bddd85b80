package middleware

import (
	"fmt"
	"net/http"
	"time"

	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit is a fixed-window per-client limiter backed by Redis. Without a
// Redis connection it fails open; losing rate limiting beats serving 500s.
func RateLimit(rdb *redis.Client, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || perMinute <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/60)
		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			utils.LogEvent(GetRequestID(c), "ratelimit", "redis_error", err.Error())
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, time.Minute)
		}
		if count > int64(perMinute) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"message":    "too many requests, slow down",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
