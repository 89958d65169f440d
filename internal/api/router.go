package api

import (
	"bankledger/internal/ledger"     // Ledger core
	"bankledger/internal/middleware" // Auth and admin middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client, may be nil
)

// NewRouter wires the HTTP surface onto the ledger core. rdb may be nil to
// run without the read cache.
func NewRouter(repo *ledger.Repository, eng *ledger.Engine, guard *ledger.Guard, views *ledger.Views, rdb *redis.Client, jwtSecret string) *gin.Engine {
	r := gin.New()                                          // Router instance
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware()) // Panic recovery and request logging

	// Auth routes (no token required)
	r.POST("/api/register", RegisterHandler(eng))      // Registration endpoint
	r.POST("/api/login", LoginHandler(eng, jwtSecret)) // Login endpoint

	// User routes (token required, caller resolved per request)
	userGroup := r.Group("/api/user")
	userGroup.Use(middleware.AuthMiddleware(guard, jwtSecret))
	userGroup.GET("/dashboard", DashboardHandler(views, rdb))    // Dashboard endpoint
	userGroup.POST("/transfer", TransferHandler(eng, repo, rdb)) // Transfer endpoint

	// Admin routes (token + admin role required)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(guard, jwtSecret), middleware.AdminOnlyMiddleware(guard))
	adminGroup.GET("/users", ListUsersHandler(views, rdb))           // User listing endpoint
	adminGroup.POST("/direct_op", DirectOpHandler(eng, repo, rdb))   // Direct deposit/withdrawal endpoint
	adminGroup.POST("/toggle_active", ToggleActiveHandler(eng, rdb)) // Activation toggle endpoint

	return r
}
