package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes

	"bankledger/internal/ledger"     // Ledger engine and views
	"bankledger/internal/middleware" // Resolved caller accessor
	"bankledger/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact decimal amounts
	"github.com/sirupsen/logrus"    // Structured logging
)

// adminUsersKey caches the admin user listing
const adminUsersKey = "admin:users"

// Direct operation types accepted by DirectOpHandler
const (
	opDeposit    = "DEPOSIT"
	opWithdrawal = "WITHDRAWAL"
)

// ListUsersHandler returns every user with their account number and balance
func ListUsersHandler(views *ledger.Views, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		var cached []ledger.UserRow
		// Serve from cache when present
		if found, err := utils.GetCache(ctx, rdb, adminUsersKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"users": cached, "cached": true})
			return
		}
		rows := views.ListUsers()                         // Build the listing from the snapshot
		_ = utils.SetCache(ctx, rdb, adminUsersKey, rows) // Cache for subsequent reads
		c.JSON(http.StatusOK, gin.H{"users": rows, "cached": false})
	}
}

// DirectOpRequest is the admin deposit/withdrawal payload
type DirectOpRequest struct {
	TargetAcc string          `json:"targetAcc" binding:"required"` // Target account number
	Amount    decimal.Decimal `json:"amount" binding:"required"`    // Positive decimal amount
	Type      string          `json:"type" binding:"required"`      // DEPOSIT or WITHDRAWAL
}

// DirectOpHandler runs an administrative deposit or withdrawal against an
// arbitrary account. These inject or remove value from outside the ledger,
// so they are admin-only and fully audited.
func DirectOpHandler(eng *ledger.Engine, repo *ledger.Repository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.Caller(c) // Resolved admin caller
		var req DirectOpRequest       // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Dispatch on the operation type
		var err error
		switch req.Type {
		case opDeposit:
			err = eng.AdminDeposit(admin, req.TargetAcc, req.Amount)
		case opWithdrawal:
			err = eng.AdminWithdrawal(admin, req.TargetAcc, req.Amount)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operation type"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"admin_id":   admin.ID,
				"target_acc": req.TargetAcc,
				"amount":     req.Amount.String(),
				"op":         req.Type,
				"error":      err.Error(),
			}).Warn("direct operation rejected")
			writeError(c, err)
			return
		}
		// Log the committed operation
		logrus.WithFields(logrus.Fields{
			"admin_id":   admin.ID,
			"target_acc": req.TargetAcc,
			"amount":     req.Amount.String(),
			"op":         req.Type,
		}).Info("direct operation committed")
		// Invalidate the target's dashboard and the admin listing
		ctx := context.Background()
		keys := []string{adminUsersKey}
		if target, err := repo.FindAccountByNumber(req.TargetAcc); err == nil {
			keys = append(keys, dashboardKey(target.UserID))
		}
		_ = utils.DeleteCache(ctx, rdb, keys...)
		c.JSON(http.StatusOK, gin.H{"message": "Direct " + req.Type + " of " + req.Amount.String() + " completed for account " + req.TargetAcc})
	}
}

// ToggleActiveRequest is the activation toggle payload. IsActive is a
// pointer so an explicit false survives binding.
type ToggleActiveRequest struct {
	UserID   uint  `json:"userId" binding:"required"`   // Target user id
	IsActive *bool `json:"isActive" binding:"required"` // New active state
}

// ToggleActiveHandler activates or deactivates a user. No transaction record
// is produced; this is a state change, not a monetary event.
func ToggleActiveHandler(eng *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.Caller(c) // Resolved admin caller
		var req ToggleActiveRequest   // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Apply the toggle as a ledger mutation
		toggled, err := eng.ToggleActive(req.UserID, *req.IsActive)
		if err != nil {
			writeError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"admin_id":  admin.ID,
			"target_id": toggled.ID,
			"is_active": toggled.IsActive,
		}).Info("user activation toggled")
		// Invalidate the admin listing and the target's dashboard
		ctx := context.Background()
		_ = utils.DeleteCache(ctx, rdb, adminUsersKey, dashboardKey(toggled.ID))
		state := "deactivated"
		if toggled.IsActive {
			state = "activated"
		}
		c.JSON(http.StatusOK, gin.H{"message": "User " + toggled.Username + " " + state + "."})
	}
}
