package domain

// Snapshot is the complete ledger state: every user, account and transaction
// plus the monotonic id counters. It is the unit of loading and persistence;
// the repository publishes exactly one committed snapshot at a time.
type Snapshot struct {
	Users             []User        `json:"users"`             // All identity records
	Accounts          []Account     `json:"accounts"`          // All accounts
	Transactions      []Transaction `json:"transactions"`      // Append-only audit trail
	NextUserID        uint          `json:"nextUserId"`        // Next user id to allocate
	NextAccountID     uint          `json:"nextAccountId"`     // Next account id to allocate, seeded at 100
	NextTransactionID uint          `json:"nextTransactionId"` // Next transaction id to allocate
}

// NewSnapshot returns an empty snapshot with the id counters at their seeds.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		NextUserID:        1,
		NextAccountID:     100,
		NextTransactionID: 1,
	}
}

// Clone deep-copies the snapshot. All element types are value types, so
// copying the slices is enough to detach the clone from the original.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Users = append([]User(nil), s.Users...)
	c.Accounts = append([]Account(nil), s.Accounts...)
	c.Transactions = append([]Transaction(nil), s.Transactions...)
	return &c
}

// FindUserByID returns a pointer into the snapshot's user slice, or nil.
func (s *Snapshot) FindUserByID(id uint) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// FindUserByUsername matches the username case-sensitively, or returns nil.
func (s *Snapshot) FindUserByUsername(username string) *User {
	for i := range s.Users {
		if s.Users[i].Username == username {
			return &s.Users[i]
		}
	}
	return nil
}

// FindAccountByNumber returns the account with the given public number, or nil.
func (s *Snapshot) FindAccountByNumber(number string) *Account {
	for i := range s.Accounts {
		if s.Accounts[i].AccountNumber == number {
			return &s.Accounts[i]
		}
	}
	return nil
}

// FindAccountByUser returns the account owned by the given user, or nil.
func (s *Snapshot) FindAccountByUser(userID uint) *Account {
	for i := range s.Accounts {
		if s.Accounts[i].UserID == userID {
			return &s.Accounts[i]
		}
	}
	return nil
}

// TransactionsInvolving returns every transaction where the user appears as
// source or destination, in append (oldest first) order.
func (s *Snapshot) TransactionsInvolving(userID uint) []Transaction {
	var out []Transaction
	for _, t := range s.Transactions {
		if t.SourceUserID == userID || t.DestUserID == userID {
			out = append(out, t)
		}
	}
	return out
}
