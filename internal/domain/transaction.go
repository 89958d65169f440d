package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType classifies a transaction record
type TxType string

// Transaction types
const (
	TxTransfer        TxType = "TRANSFER"         // Peer transfer, money conserved
	TxAdminDeposit    TxType = "ADMIN_DEPOSIT"    // External cash in, admin attributed as source of authority
	TxAdminWithdrawal TxType = "ADMIN_WITHDRAWAL" // External cash out, admin attributed as authorizing party
)

// Transaction is an immutable audit record. It is appended by the ledger
// engine at the moment a mutation commits and never changed afterwards.
type Transaction struct {
	ID           uint            `json:"id"`           // Primary key, allocated from Snapshot.NextTransactionID
	SourceUserID uint            `json:"sourceUserId"` // Sender, or admin for ADMIN_DEPOSIT
	DestUserID   uint            `json:"destUserId"`   // Receiver, or admin for ADMIN_WITHDRAWAL
	Type         TxType          `json:"type"`         // TRANSFER, ADMIN_DEPOSIT or ADMIN_WITHDRAWAL
	Amount       decimal.Decimal `json:"amount"`       // Strictly positive
	Timestamp    time.Time       `json:"timestamp"`    // Creation instant
	Description  string          `json:"description"`  // Human-readable note
}
