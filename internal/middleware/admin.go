package middleware

import (
	"net/http" // HTTP status codes

	"bankledger/internal/domain" // Domain models
	"bankledger/internal/ledger" // Access guard

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware rejects callers without the admin role. It runs after
// AuthMiddleware, so the caller is already resolved and active.
func AdminOnlyMiddleware(guard *ledger.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, exists := c.Get(CallerKey) // Get resolved caller from context
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Enforce the admin role through the guard
		if err := guard.RequireRole(caller.(domain.User), domain.RoleAdmin); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next() // Proceed to the next handler
	}
}
