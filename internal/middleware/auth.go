package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"bankledger/internal/domain" // Domain models
	"bankledger/internal/ledger" // Access guard
	"bankledger/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// CallerKey is the gin context key holding the resolved caller
const CallerKey = "caller"

// AuthMiddleware verifies the bearer token and resolves the caller through
// the access guard on every request, so a deactivated user is cut off
// immediately, not when their token expires.
func AuthMiddleware(guard *ledger.Guard, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := utils.VerifyToken(tokenStr, secret)    // Verify the JWT token
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Resolve the caller: unknown or deactivated users are rejected here
		caller, err := guard.ResolveCaller(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(CallerKey, caller) // Store the resolved user in context
		c.Next()                 // Proceed to the next handler
	}
}

// Caller returns the resolved user stored by AuthMiddleware
func Caller(c *gin.Context) domain.User {
	return c.MustGet(CallerKey).(domain.User)
}
