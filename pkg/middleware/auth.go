package middleware

import (
	"net/http"
	"strings"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	UserIDKey = "userId"
	RoleKey   = "role"
)

// Auth requires a valid bearer token and exposes its userId and role claims.
func Auth(authenticator *auth.Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access token required",
			})
			return
		}

		claims, err := authenticator.ValidateJWT(tokenString)
		if err != nil {
			logger.Warn("Invalid token",
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}
