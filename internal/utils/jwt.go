package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenTTL is how long an issued identity token stays valid
const TokenTTL = 24 * time.Hour

// Claims carried by an identity token. The ledger core only ever sees the
// resolved user id; everything else about the token is transport detail.
type Claims struct {
	UserID               uint `json:"user_id"` // Authenticated user ID
	jwt.RegisteredClaims      // Standard JWT claims
}

// IssueToken signs an HS256 identity token for the given user ID
func IssueToken(userID uint, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID, // Authenticated user ID
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bankledger",                       // Issuing service
			IssuedAt:  jwt.NewNumericDate(now),            // Issued at current time
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)), // Expiry
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// VerifyToken parses tokenStr and returns its claims if the signature and
// expiry check out
func VerifyToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		// Reject tokens signed with anything but HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil // Secret key for validation
	})
	if err != nil {
		return nil, err // Parsing or validation failed
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims // Unexpected claims shape
	}
	return claims, nil
}
