package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"visitor-backend/services"
)

// RequireAdmin gates the dashboard API on a valid admin session token,
// taken from the token cookie or the Authorization header.
func RequireAdmin(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil || token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token not provided"})
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header format"})
				return
			}
			token = parts[1]
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization token"})
			return
		}

		c.Set("adminId", claims.AdminID)
		c.Set("adminUsername", claims.Username)
		c.Next()
	}
}
