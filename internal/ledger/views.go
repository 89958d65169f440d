package ledger

import (
	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
)

// Number of recent transactions returned on the dashboard.
const dashboardTransactions = 10

// Dashboard is the account-holder view: the caller's account and their most
// recent transactions.
type Dashboard struct {
	Username     string               `json:"username"`
	Account      domain.Account       `json:"account"`
	Transactions []domain.Transaction `json:"transactions"` // Newest first, at most dashboardTransactions
}

// UserRow is one line of the admin user listing.
type UserRow struct {
	ID            uint            `json:"id"`
	Username      string          `json:"username"`
	Role          domain.Role     `json:"role"`
	IsActive      bool            `json:"isActive"`
	AccountNumber string          `json:"accountNumber"` // "N/A" when the user has no account
	Balance       decimal.Decimal `json:"balance"`       // Zero when the user has no account
}

// Views are read-only projections over the repository. They never mutate and
// always reflect the most recently committed snapshot.
type Views struct {
	repo *Repository
}

// NewViews returns views reading from repo.
func NewViews(repo *Repository) *Views {
	return &Views{repo: repo}
}

// Dashboard builds the dashboard for user: their account plus the last
// transactions involving them, newest first.
func (v *Views) Dashboard(user domain.User) (Dashboard, error) {
	var (
		d     Dashboard
		found bool
	)
	v.repo.View(func(snap *domain.Snapshot) {
		account := snap.FindAccountByUser(user.ID)
		if account == nil {
			return
		}
		found = true
		d.Username = user.Username
		d.Account = *account

		involving := snap.TransactionsInvolving(user.ID)
		// Reverse into newest-first order, keeping at most the display limit.
		for i := len(involving) - 1; i >= 0 && len(d.Transactions) < dashboardTransactions; i-- {
			d.Transactions = append(d.Transactions, involving[i])
		}
	})
	if !found {
		return Dashboard{}, ErrAccountNotFound
	}
	return d, nil
}

// ListUsers returns one row per user with the paired account's number and
// balance. A user without an account renders the "N/A" sentinel instead of
// failing the whole listing.
func (v *Views) ListUsers() []UserRow {
	var rows []UserRow
	v.repo.View(func(snap *domain.Snapshot) {
		rows = make([]UserRow, 0, len(snap.Users))
		for _, u := range snap.Users {
			row := UserRow{
				ID:            u.ID,
				Username:      u.Username,
				Role:          u.Role,
				IsActive:      u.IsActive,
				AccountNumber: "N/A",
				Balance:       decimal.Zero,
			}
			if acc := snap.FindAccountByUser(u.ID); acc != nil {
				row.AccountNumber = acc.AccountNumber
				row.Balance = acc.Balance
			}
			rows = append(rows, row)
		}
	})
	return rows
}
