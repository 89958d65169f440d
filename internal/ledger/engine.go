package ledger

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
)

// Attempts at drawing an unused 8-digit account number before giving up.
// With 9e7 possible numbers and a closed set of account holders, exhausting
// this means something is very wrong.
const accountNumberAttempts = 100

// Engine runs every state-mutating ledger operation. Each operation
// validates its preconditions and applies its effect inside a single
// Repository.Apply call, so validation and mutation see the same snapshot
// and commit (or fail) as one unit.
type Engine struct {
	repo  *Repository
	creds CredentialVerifier
}

// NewEngine returns an engine mutating repo.
func NewEngine(repo *Repository, creds CredentialVerifier) *Engine {
	return &Engine{repo: repo, creds: creds}
}

// newAccountNumber draws a random 8-digit number not yet used by any account
// in snap. Uniqueness is enforced by checking, not assumed from randomness.
func newAccountNumber(snap *domain.Snapshot) (string, error) {
	for i := 0; i < accountNumberAttempts; i++ {
		n := 10000000 + rand.Intn(90000000)
		num := strconv.Itoa(n)
		if snap.FindAccountByNumber(num) == nil {
			return num, nil
		}
	}
	return "", errors.New("could not allocate a unique account number")
}

// Register creates a user and its paired zero-balance account as one atomic
// mutation under the shared id-counter discipline. The credential is hashed
// before it enters the snapshot. Duplicate usernames are rejected.
func (e *Engine) Register(username, credential, email string, role domain.Role) (domain.Account, error) {
	hashed, err := e.creds.Hash(credential)
	if err != nil {
		return domain.Account{}, err
	}
	var account domain.Account
	err = e.repo.Apply(func(snap *domain.Snapshot) error {
		if snap.FindUserByUsername(username) != nil {
			return ErrDuplicateUsername
		}
		number, err := newAccountNumber(snap)
		if err != nil {
			return err
		}
		user := domain.User{
			ID:         snap.NextUserID,
			Username:   username,
			Credential: hashed,
			Email:      email,
			Role:       role,
			IsActive:   true,
		}
		snap.NextUserID++
		snap.Users = append(snap.Users, user)

		account = domain.Account{
			ID:            snap.NextAccountID,
			UserID:        user.ID,
			AccountNumber: number,
			Balance:       decimal.Zero,
		}
		snap.NextAccountID++
		snap.Accounts = append(snap.Accounts, account)
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// Login verifies a username/credential pair and returns the user. Both an
// unknown username and a wrong credential fail with ErrInvalidCredentials.
// Token issuance is the transport's job; the ledger only vouches for the
// identity.
func (e *Engine) Login(username, credential string) (domain.User, error) {
	u, err := e.repo.FindUserByUsername(username)
	if err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := e.creds.Compare(u.Credential, credential); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// EnsureAdmin seeds an admin user with a paired account if the username does
// not exist yet. Used at startup so a fresh deployment has an admin.
func (e *Engine) EnsureAdmin(username, credential, email string) error {
	if _, err := e.repo.FindUserByUsername(username); err == nil {
		return nil
	}
	_, err := e.Register(username, credential, email, domain.RoleAdmin)
	return err
}

// Transfer moves amount from the caller's account to the destination
// account. Preconditions, first failure wins: the source account exists and
// is owned by the caller; the destination account exists; source and
// destination differ; the amount is positive; the source balance covers it.
// On success both balances change together and a TRANSFER record is
// appended, so the debit always equals the credit.
func (e *Engine) Transfer(caller domain.User, sourceNumber, destNumber string, amount decimal.Decimal) (decimal.Decimal, error) {
	var newBalance decimal.Decimal
	err := e.repo.Apply(func(snap *domain.Snapshot) error {
		source := snap.FindAccountByNumber(sourceNumber)
		if source == nil || source.UserID != caller.ID {
			return ErrAccountNotFound
		}
		dest := snap.FindAccountByNumber(destNumber)
		if dest == nil {
			return ErrAccountNotFound
		}
		if source.ID == dest.ID {
			return ErrSameAccount
		}
		if !amount.IsPositive() {
			return ErrInvalidAmount
		}
		if source.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		source.Balance = source.Balance.Sub(amount)
		dest.Balance = dest.Balance.Add(amount)
		newBalance = source.Balance

		snap.Transactions = append(snap.Transactions, domain.Transaction{
			ID:           snap.NextTransactionID,
			SourceUserID: source.UserID,
			DestUserID:   dest.UserID,
			Type:         domain.TxTransfer,
			Amount:       amount,
			Timestamp:    time.Now(),
			Description:  fmt.Sprintf("Transfer to account %s", dest.AccountNumber),
		})
		snap.NextTransactionID++
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// AdminDeposit credits amount to the target account. The admin is recorded
// as the transaction's source of authority, not source of funds; the money
// enters from outside the ledger, so conservation deliberately does not
// apply.
func (e *Engine) AdminDeposit(admin domain.User, targetNumber string, amount decimal.Decimal) error {
	return e.repo.Apply(func(snap *domain.Snapshot) error {
		target := snap.FindAccountByNumber(targetNumber)
		if target == nil {
			return ErrAccountNotFound
		}
		if !amount.IsPositive() {
			return ErrInvalidAmount
		}

		target.Balance = target.Balance.Add(amount)
		snap.Transactions = append(snap.Transactions, domain.Transaction{
			ID:           snap.NextTransactionID,
			SourceUserID: admin.ID,
			DestUserID:   target.UserID,
			Type:         domain.TxAdminDeposit,
			Amount:       amount,
			Timestamp:    time.Now(),
			Description:  "Direct deposit by administrator",
		})
		snap.NextTransactionID++
		return nil
	})
}

// AdminWithdrawal debits amount from the target account. The account owner
// is recorded as the source and the admin as the authorizing destination;
// the balance still may not go negative.
func (e *Engine) AdminWithdrawal(admin domain.User, targetNumber string, amount decimal.Decimal) error {
	return e.repo.Apply(func(snap *domain.Snapshot) error {
		target := snap.FindAccountByNumber(targetNumber)
		if target == nil {
			return ErrAccountNotFound
		}
		if !amount.IsPositive() {
			return ErrInvalidAmount
		}
		if target.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		target.Balance = target.Balance.Sub(amount)
		snap.Transactions = append(snap.Transactions, domain.Transaction{
			ID:           snap.NextTransactionID,
			SourceUserID: target.UserID,
			DestUserID:   admin.ID,
			Type:         domain.TxAdminWithdrawal,
			Amount:       amount,
			Timestamp:    time.Now(),
			Description:  "Direct withdrawal by administrator",
		})
		snap.NextTransactionID++
		return nil
	})
}

// ToggleActive sets a user's active flag. This is an administrative state
// change, not a monetary event, so no transaction record is produced.
func (e *Engine) ToggleActive(targetUserID uint, active bool) (domain.User, error) {
	var toggled domain.User
	err := e.repo.Apply(func(snap *domain.Snapshot) error {
		u := snap.FindUserByID(targetUserID)
		if u == nil {
			return ErrUserNotFound
		}
		u.IsActive = active
		toggled = *u
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return toggled, nil
}
