// Package ledger is the core of the system: the in-memory ledger state, the
// operations that mutate it and the read-only views over it. All mutation
// goes through Repository.Apply, which serializes the whole
// validate-mutate-persist sequence behind one lock, so two concurrent
// transfers can never interleave their read and write steps.
package ledger

import (
	"sync"

	"bankledger/internal/domain"
	"bankledger/internal/store"
)

// Repository owns the committed snapshot and the durable store behind it.
// Readers see a complete committed snapshot at all times; Apply builds the
// next snapshot on a clone and swaps it in only after the flush succeeds.
type Repository struct {
	mu   sync.RWMutex
	st   store.Store
	snap *domain.Snapshot
}

// NewRepository loads the persisted snapshot (or an empty seeded one) from
// the store.
func NewRepository(st store.Store) (*Repository, error) {
	snap, err := st.Load()
	if err != nil {
		return nil, err
	}
	return &Repository{st: st, snap: snap}, nil
}

// View runs fn against the current committed snapshot under the read lock.
// fn must not mutate the snapshot and must not retain pointers into it past
// the call; copy out whatever it needs to return.
func (r *Repository) View(fn func(snap *domain.Snapshot)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.snap)
}

// Apply runs fn against a clone of the current snapshot under the write
// lock, then flushes the clone to the store and publishes it. If fn returns
// an error (validation failure) or the flush fails, the clone is discarded
// and the committed snapshot is untouched, so no partial write is ever
// visible to View — mutation is all-or-nothing.
func (r *Repository) Apply(fn func(snap *domain.Snapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.snap.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := r.st.Save(next); err != nil {
		return &PersistenceError{Cause: err}
	}
	r.snap = next
	return nil
}

// FindUserByID returns a copy of the user, or ErrUserNotFound.
func (r *Repository) FindUserByID(id uint) (domain.User, error) {
	var (
		u  domain.User
		ok bool
	)
	r.View(func(snap *domain.Snapshot) {
		if p := snap.FindUserByID(id); p != nil {
			u, ok = *p, true
		}
	})
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return u, nil
}

// FindUserByUsername returns a copy of the user, or ErrUserNotFound.
func (r *Repository) FindUserByUsername(username string) (domain.User, error) {
	var (
		u  domain.User
		ok bool
	)
	r.View(func(snap *domain.Snapshot) {
		if p := snap.FindUserByUsername(username); p != nil {
			u, ok = *p, true
		}
	})
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return u, nil
}

// FindAccountByNumber returns a copy of the account, or ErrAccountNotFound.
func (r *Repository) FindAccountByNumber(number string) (domain.Account, error) {
	var (
		a  domain.Account
		ok bool
	)
	r.View(func(snap *domain.Snapshot) {
		if p := snap.FindAccountByNumber(number); p != nil {
			a, ok = *p, true
		}
	})
	if !ok {
		return domain.Account{}, ErrAccountNotFound
	}
	return a, nil
}

// FindAccountByUser returns a copy of the user's account, or ErrAccountNotFound.
func (r *Repository) FindAccountByUser(userID uint) (domain.Account, error) {
	var (
		a  domain.Account
		ok bool
	)
	r.View(func(snap *domain.Snapshot) {
		if p := snap.FindAccountByUser(userID); p != nil {
			a, ok = *p, true
		}
	})
	if !ok {
		return domain.Account{}, ErrAccountNotFound
	}
	return a, nil
}

// TransactionsInvolving returns copies of every transaction the user appears
// in, oldest first.
func (r *Repository) TransactionsInvolving(userID uint) []domain.Transaction {
	var out []domain.Transaction
	r.View(func(snap *domain.Snapshot) {
		out = snap.TransactionsInvolving(userID)
	})
	return out
}
