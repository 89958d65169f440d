package api

import (
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes

	"bankledger/internal/domain" // Domain models
	"bankledger/internal/ledger" // Ledger errors

	"github.com/gin-gonic/gin" // Gin web framework
)

// DisplayTimeFormat is how transaction timestamps are rendered for clients
const DisplayTimeFormat = "2006-01-02 15:04:05"

// txView is a transaction as rendered in responses, with the timestamp
// formatted for display
type txView struct {
	ID           uint   `json:"id"`           // Transaction id
	SourceUserID uint   `json:"sourceUserId"` // Sender or authorizing admin
	DestUserID   uint   `json:"destUserId"`   // Receiver or authorizing admin
	Type         string `json:"type"`         // Transaction type
	Amount       string `json:"amount"`       // Amount as a decimal string
	Timestamp    string `json:"timestamp"`    // Display-formatted creation time
	Description  string `json:"description"`  // Human-readable note
}

// renderTransactions maps audit records to their response form
func renderTransactions(txs []domain.Transaction) []txView {
	out := make([]txView, len(txs))
	for i, t := range txs {
		out[i] = txView{
			ID:           t.ID,
			SourceUserID: t.SourceUserID,
			DestUserID:   t.DestUserID,
			Type:         string(t.Type),
			Amount:       t.Amount.String(),
			Timestamp:    t.Timestamp.Format(DisplayTimeFormat),
			Description:  t.Description,
		}
	}
	return out
}

// statusFor maps ledger errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnauthenticated), errors.Is(err, ledger.ErrInvalidCredentials):
		return http.StatusUnauthorized // 401 for identity failures
	case errors.Is(err, ledger.ErrForbidden):
		return http.StatusForbidden // 403 for role failures
	case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, ledger.ErrUserNotFound):
		return http.StatusNotFound // 404 for missing records
	case errors.Is(err, ledger.ErrDuplicateUsername),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrSameAccount):
		return http.StatusBadRequest // 400 for validation failures
	default:
		return http.StatusInternalServerError // 500 for persistence and the rest
	}
}

// writeError sends the error as a JSON body with the mapped status.
// Persistence failures are not echoed verbatim to the client.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal error" // Do not leak store details
	}
	c.JSON(status, gin.H{"error": msg})
}
