package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Fingel/fastastro/internal/auth"
	"github.com/Fingel/fastastro/internal/logger"
)

const userEmailKey = "userEmail"

// AuthMiddleware guards routes with a bearer session token. Action
// tokens (those carrying a scope claim) are not session credentials
// and are rejected here.
func AuthMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if auth.Scope(claims) != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		email := auth.Subject(claims)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(userEmailKey, email)
		ctx := logger.WithUser(c.Request.Context(), email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetUserEmail returns the authenticated subject set by AuthMiddleware.
func GetUserEmail(c *gin.Context) string {
	val, exists := c.Get(userEmailKey)
	if !exists {
		return ""
	}
	email, ok := val.(string)
	if !ok {
		return ""
	}
	return email
}
