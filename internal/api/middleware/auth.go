package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kh4lidmd/portfolio-backend/internal/services"
)

const adminIDKey = "admin_id"

// RequireAuth gates a route group behind a bearer token issued by the auth
// service.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing authorization header"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if tokenStr == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid authorization format"})
			return
		}

		adminID, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		c.Set(adminIDKey, adminID)
		c.Next()
	}
}

// AdminIDFromContext returns the authenticated admin id set by RequireAuth.
func AdminIDFromContext(c *gin.Context) (string, bool) {
	id := c.GetString(adminIDKey)
	return id, id != ""
}
