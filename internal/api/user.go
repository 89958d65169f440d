package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // Cache key building

	"bankledger/internal/domain"     // Domain models
	"bankledger/internal/ledger"     // Ledger engine and views
	"bankledger/internal/middleware" // Resolved caller accessor
	"bankledger/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact decimal amounts
	"github.com/sirupsen/logrus"    // Structured logging
)

// dashboardKey builds the cache key for a user's dashboard
func dashboardKey(userID uint) string {
	return "dashboard:user:" + strconv.Itoa(int(userID))
}

// dashboardResponse is the cached and served dashboard shape
type dashboardResponse struct {
	Username     string         `json:"username"`     // Caller username
	Account      domain.Account `json:"account"`      // Caller account
	Transactions []txView       `json:"transactions"` // Recent transactions, newest first
}

// DashboardHandler returns the caller's account and recent transactions
func DashboardHandler(views *ledger.Views, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.Caller(c) // Resolved by AuthMiddleware
		ctx := context.Background()    // Context for Redis operations
		cacheKey := dashboardKey(caller.ID)

		var cached dashboardResponse
		// Serve from cache when present; mutations invalidate these keys
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"dashboard": cached, "cached": true})
			return
		}
		// Build the view from the committed snapshot
		d, err := views.Dashboard(caller)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := dashboardResponse{
			Username:     d.Username,
			Account:      d.Account,
			Transactions: renderTransactions(d.Transactions),
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp) // Cache for subsequent reads
		c.JSON(http.StatusOK, gin.H{"dashboard": resp, "cached": false})
	}
}

// TransferRequest is the peer transfer payload
type TransferRequest struct {
	SourceAcc string          `json:"sourceAcc" binding:"required"` // Caller's account number
	DestAcc   string          `json:"destAcc" binding:"required"`   // Destination account number
	Amount    decimal.Decimal `json:"amount" binding:"required"`    // Positive decimal amount
}

// TransferHandler moves funds from the caller's account to another account
func TransferHandler(eng *ledger.Engine, repo *ledger.Repository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.Caller(c) // Resolved by AuthMiddleware
		var req TransferRequest        // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Run the transfer as one atomic ledger mutation
		newBalance, err := eng.Transfer(caller, req.SourceAcc, req.DestAcc, req.Amount)
		if err != nil {
			// Log the failure with context; validation failures are expected traffic
			logrus.WithFields(logrus.Fields{
				"from_user_id": caller.ID,
				"source_acc":   req.SourceAcc,
				"dest_acc":     req.DestAcc,
				"amount":       req.Amount.String(),
				"error":        err.Error(),
			}).Warn("transfer rejected")
			writeError(c, err)
			return
		}
		// Log the committed transfer
		logrus.WithFields(logrus.Fields{
			"from_user_id": caller.ID,
			"source_acc":   req.SourceAcc,
			"dest_acc":     req.DestAcc,
			"amount":       req.Amount.String(),
			"type":         string(domain.TxTransfer),
		}).Info("transfer committed")
		// Invalidate the dashboards of both parties
		ctx := context.Background()
		keys := []string{dashboardKey(caller.ID), adminUsersKey}
		if dest, err := repo.FindAccountByNumber(req.DestAcc); err == nil {
			keys = append(keys, dashboardKey(dest.UserID))
		}
		_ = utils.DeleteCache(ctx, rdb, keys...)
		// Return the caller's new balance
		c.JSON(http.StatusOK, gin.H{
			"message":    "Transfer successful.",
			"newBalance": newBalance,
		})
	}
}
