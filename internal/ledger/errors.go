package ledger

import (
	"errors"
	"fmt"
)

// Domain errors returned by the guard, the engine and the views. The HTTP
// layer maps these to status codes with errors.Is.
var (
	ErrUnauthenticated    = errors.New("caller is not authenticated or not active")
	ErrForbidden          = errors.New("caller lacks the required role")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSameAccount        = errors.New("source and destination accounts cannot be the same")
)

// PersistenceError signals that a mutation validated and applied cleanly but
// could not be flushed to the durable store. The in-memory state is rolled
// back before this is returned, so nothing was committed.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist ledger state: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// IsPersistenceError reports whether err wraps a flush failure.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
