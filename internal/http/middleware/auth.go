package middleware

import (
	"net/http"
	"strings"

	"thrive/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "user_id"
	userRoleKey = "userRole"
	tokenJTIKey = "token_jti"
)

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success":    false,
		"message":    msg,
		"request_id": GetRequestID(c),
	})
}

// Authenticate validates the bearer access token and loads identity into the
// context. Revoked tokens are rejected even before their expiry.
func Authenticate(manager auth.Manager, revoked auth.RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "authorization header required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortUnauthorized(c, "authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := manager.Parse(parts[1], auth.TokenAccess)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		if revoked.IsRevoked(c.Request.Context(), claims.ID) {
			abortUnauthorized(c, "token has been revoked")
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(userRoleKey, claims.Role)
		c.Set(tokenJTIKey, claims.ID)
		c.Next()
	}
}

// RequireRoles is role-based access control on top of Authenticate.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if role == "" {
			abortUnauthorized(c, "authentication required")
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success":    false,
				"message":    "insufficient permissions",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id set by Authenticate.
func UserID(c *gin.Context) string { return c.GetString(userIDKey) }

// UserRole returns the authenticated role set by Authenticate.
func UserRole(c *gin.Context) string { return c.GetString(userRoleKey) }

// TokenJTI returns the current access token's jti.
func TokenJTI(c *gin.Context) string { return c.GetString(tokenJTIKey) }
