package domain

import "github.com/shopspring/decimal"

// Account Model
type Account struct {
	ID            uint            `json:"id"`            // Primary key, allocated from Snapshot.NextAccountID (seed 100)
	UserID        uint            `json:"userId"`        // Owning user, one account per user
	AccountNumber string          `json:"accountNumber"` // Public 8-digit identifier, unique across accounts
	Balance       decimal.Decimal `json:"balance"`       // Never negative after a committed operation
}
