package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Username validation

	"bankledger/internal/domain" // Domain models
	"bankledger/internal/ledger" // Ledger engine
	"bankledger/internal/utils"  // Token issuance

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
	Email    string `json:"email"`                       // Optional contact address
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued identity token
type AuthResponse struct {
	Token    string `json:"token"`    // Signed identity token
	Role     string `json:"role"`     // Caller role for the client UI
	Username string `json:"username"` // Echoed username
}

var usernameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{2,31}$`)

// isValidUsername checks the username shape: a letter followed by up to 31
// letters, digits or underscores. Matching stays case-sensitive; Alice and
// alice are different users.
func isValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// isValidPassword checks if the password length is between 8 and 64 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 64
}

// RegisterHandler creates a user with its paired zero-balance account
func RegisterHandler(eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate username shape
		if !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must start with a letter and contain only letters, digits or underscores"})
			return
		}
		// Validate password length
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-64 characters"})
			return
		}
		// Allocate the user and its account as one ledger mutation
		account, err := eng.Register(req.Username, req.Password, req.Email, domain.RoleUser)
		if err != nil {
			writeError(c, err)
			return
		}
		// Log the registration; never the credential
		logrus.WithFields(logrus.Fields{
			"user_id":        account.UserID,
			"account_number": account.AccountNumber,
		}).Info("user registered")
		c.JSON(http.StatusCreated, gin.H{
			"message": "Registration successful. Please log in.",
			"account": account,
		})
	}
}

// LoginHandler verifies credentials and issues an identity token
func LoginHandler(eng *ledger.Engine, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Verify the credential pair against the ledger
		user, err := eng.Login(req.Username, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		// Issue the signed identity token
		token, err := utils.IssueToken(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{
			Token:    token,
			Role:     string(user.Role),
			Username: user.Username,
		})
	}
}
