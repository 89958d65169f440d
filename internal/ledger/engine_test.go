package ledger

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
	"bankledger/internal/store"
)

// plainVerifier keeps tests fast; the engine only sees the interface.
type plainVerifier struct{}

func (plainVerifier) Hash(plain string) (string, error) { return "hash:" + plain, nil }
func (plainVerifier) Compare(hashed, plain string) error {
	if hashed != "hash:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *Repository) {
	t.Helper()
	st := store.NewJSONStore(filepath.Join(t.TempDir(), "data.json"))
	repo, err := NewRepository(st)
	if err != nil {
		t.Fatalf("NewRepository err=%v", err)
	}
	return NewEngine(repo, plainVerifier{}), repo
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txCount(repo *Repository) int {
	n := 0
	repo.View(func(snap *domain.Snapshot) { n = len(snap.Transactions) })
	return n
}

func TestRegisterAllocatesUserAndAccount(t *testing.T) {
	eng, repo := newTestEngine(t)

	acc, err := eng.Register("alice", "secret", "alice@example.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register err=%v", err)
	}
	if acc.ID != 100 {
		t.Fatalf("first account id = %d, want 100", acc.ID)
	}
	if len(acc.AccountNumber) != 8 {
		t.Fatalf("account number %q is not 8 digits", acc.AccountNumber)
	}
	if !acc.Balance.IsZero() {
		t.Fatalf("new account balance = %s, want 0", acc.Balance)
	}

	u, err := repo.FindUserByUsername("alice")
	if err != nil {
		t.Fatalf("FindUserByUsername err=%v", err)
	}
	if u.ID != 1 || u.Role != domain.RoleUser || !u.IsActive {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Credential == "secret" {
		t.Fatal("credential stored in plaintext")
	}

	// Second registration continues both counters.
	acc2, err := eng.Register("bob", "secret", "", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register err=%v", err)
	}
	if acc2.ID != 101 || acc2.UserID != 2 {
		t.Fatalf("second account = %+v, want id 101 owned by user 2", acc2)
	}
	if acc2.AccountNumber == acc.AccountNumber {
		t.Fatal("account numbers collide")
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	eng, repo := newTestEngine(t)

	if _, err := eng.Register("alice", "secret", "", domain.RoleUser); err != nil {
		t.Fatalf("Register err=%v", err)
	}
	_, err := eng.Register("alice", "other", "", domain.RoleUser)
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("err=%v, want ErrDuplicateUsername", err)
	}
	// Usernames are case-sensitive: Alice is a different user.
	if _, err := eng.Register("Alice", "secret", "", domain.RoleUser); err != nil {
		t.Fatalf("Register case-variant err=%v", err)
	}
	var users int
	repo.View(func(snap *domain.Snapshot) { users = len(snap.Users) })
	if users != 2 {
		t.Fatalf("user count = %d, want 2", users)
	}
}

func TestLogin(t *testing.T) {
	eng, _ := newTestEngine(t)
	if _, err := eng.Register("alice", "secret", "", domain.RoleUser); err != nil {
		t.Fatalf("Register err=%v", err)
	}

	u, err := eng.Login("alice", "secret")
	if err != nil {
		t.Fatalf("Login err=%v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("logged in as %q", u.Username)
	}
	if _, err := eng.Login("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err=%v, want ErrInvalidCredentials", err)
	}
	if _, err := eng.Login("nobody", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err=%v, want ErrInvalidCredentials", err)
	}
}

// The reference scenario: deposit 100 to A, transfer 40 to B. Money is
// conserved and every mutation leaves exactly one audit record.
func TestDepositAndTransferScenario(t *testing.T) {
	eng, repo := newTestEngine(t)

	accA, _ := eng.Register("alice", "pw", "", domain.RoleUser)
	admAcc, _ := eng.Register("root", "pw", "", domain.RoleAdmin)
	admin, _ := repo.FindUserByID(admAcc.UserID)

	if err := eng.AdminDeposit(admin, accA.AccountNumber, dec("100")); err != nil {
		t.Fatalf("AdminDeposit err=%v", err)
	}
	a, _ := repo.FindAccountByNumber(accA.AccountNumber)
	if !a.Balance.Equal(dec("100")) {
		t.Fatalf("A balance = %s, want 100", a.Balance)
	}
	if n := txCount(repo); n != 1 {
		t.Fatalf("tx count = %d, want 1", n)
	}

	accB, _ := eng.Register("bob", "pw", "", domain.RoleUser)
	alice, _ := repo.FindUserByID(accA.UserID)
	newBalance, err := eng.Transfer(alice, accA.AccountNumber, accB.AccountNumber, dec("40"))
	if err != nil {
		t.Fatalf("Transfer err=%v", err)
	}
	if !newBalance.Equal(dec("60")) {
		t.Fatalf("newBalance = %s, want 60", newBalance)
	}

	a, _ = repo.FindAccountByNumber(accA.AccountNumber)
	b, _ := repo.FindAccountByNumber(accB.AccountNumber)
	if !a.Balance.Equal(dec("60")) || !b.Balance.Equal(dec("40")) {
		t.Fatalf("balances A=%s B=%s, want 60/40", a.Balance, b.Balance)
	}
	// Conservation: total across both accounts unchanged by the transfer.
	if !a.Balance.Add(b.Balance).Equal(dec("100")) {
		t.Fatalf("total = %s, want 100", a.Balance.Add(b.Balance))
	}
	if n := txCount(repo); n != 2 {
		t.Fatalf("tx count = %d, want 2", n)
	}

	var last domain.Transaction
	repo.View(func(snap *domain.Snapshot) { last = snap.Transactions[len(snap.Transactions)-1] })
	if last.Type != domain.TxTransfer || last.SourceUserID != alice.ID || last.DestUserID != accB.UserID {
		t.Fatalf("unexpected transfer record: %+v", last)
	}
}

func TestTransferPreconditions(t *testing.T) {
	eng, repo := newTestEngine(t)

	accA, _ := eng.Register("alice", "pw", "", domain.RoleUser)
	accB, _ := eng.Register("bob", "pw", "", domain.RoleUser)
	admAcc, _ := eng.Register("root", "pw", "", domain.RoleAdmin)
	admin, _ := repo.FindUserByID(admAcc.UserID)
	alice, _ := repo.FindUserByID(accA.UserID)
	if err := eng.AdminDeposit(admin, accA.AccountNumber, dec("60")); err != nil {
		t.Fatalf("AdminDeposit err=%v", err)
	}
	before := txCount(repo)

	cases := []struct {
		name   string
		source string
		dest   string
		amount decimal.Decimal
		want   error
	}{
		{"unknown source", "00000000", accB.AccountNumber, dec("10"), ErrAccountNotFound},
		{"source not owned by caller", accB.AccountNumber, accA.AccountNumber, dec("10"), ErrAccountNotFound},
		{"unknown dest", accA.AccountNumber, "00000000", dec("10"), ErrAccountNotFound},
		{"self transfer", accA.AccountNumber, accA.AccountNumber, dec("10"), ErrSameAccount},
		{"zero amount", accA.AccountNumber, accB.AccountNumber, decimal.Zero, ErrInvalidAmount},
		{"negative amount", accA.AccountNumber, accB.AccountNumber, dec("-5"), ErrInvalidAmount},
		{"insufficient funds", accA.AccountNumber, accB.AccountNumber, dec("1000"), ErrInsufficientFunds},
	}
	for _, tc := range cases {
		if _, err := eng.Transfer(alice, tc.source, tc.dest, tc.amount); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err=%v, want %v", tc.name, err, tc.want)
		}
	}

	// No failed attempt moved money or left a record.
	a, _ := repo.FindAccountByNumber(accA.AccountNumber)
	b, _ := repo.FindAccountByNumber(accB.AccountNumber)
	if !a.Balance.Equal(dec("60")) || !b.Balance.IsZero() {
		t.Fatalf("balances changed: A=%s B=%s", a.Balance, b.Balance)
	}
	if n := txCount(repo); n != before {
		t.Fatalf("tx count = %d, want %d", n, before)
	}
}

func TestAdminWithdrawalAttribution(t *testing.T) {
	eng, repo := newTestEngine(t)

	accA, _ := eng.Register("alice", "pw", "", domain.RoleUser)
	admAcc, _ := eng.Register("root", "pw", "", domain.RoleAdmin)
	admin, _ := repo.FindUserByID(admAcc.UserID)
	if err := eng.AdminDeposit(admin, accA.AccountNumber, dec("50")); err != nil {
		t.Fatalf("AdminDeposit err=%v", err)
	}

	if err := eng.AdminWithdrawal(admin, accA.AccountNumber, dec("20.50")); err != nil {
		t.Fatalf("AdminWithdrawal err=%v", err)
	}
	a, _ := repo.FindAccountByNumber(accA.AccountNumber)
	if !a.Balance.Equal(dec("29.50")) {
		t.Fatalf("balance = %s, want 29.50", a.Balance)
	}

	var last domain.Transaction
	repo.View(func(snap *domain.Snapshot) { last = snap.Transactions[len(snap.Transactions)-1] })
	// The owner is the source of funds; the admin is recorded as the
	// authorizing destination, not a recipient.
	if last.Type != domain.TxAdminWithdrawal || last.SourceUserID != accA.UserID || last.DestUserID != admin.ID {
		t.Fatalf("unexpected withdrawal record: %+v", last)
	}

	if err := eng.AdminWithdrawal(admin, accA.AccountNumber, dec("100")); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("overdraw err=%v, want ErrInsufficientFunds", err)
	}
	a, _ = repo.FindAccountByNumber(accA.AccountNumber)
	if a.Balance.IsNegative() {
		t.Fatalf("balance went negative: %s", a.Balance)
	}
}

func TestToggleActiveLeavesNoRecord(t *testing.T) {
	eng, repo := newTestEngine(t)

	accA, _ := eng.Register("alice", "pw", "", domain.RoleUser)
	before := txCount(repo)

	u, err := eng.ToggleActive(accA.UserID, false)
	if err != nil {
		t.Fatalf("ToggleActive err=%v", err)
	}
	if u.IsActive {
		t.Fatal("user still active after toggle")
	}
	if n := txCount(repo); n != before {
		t.Fatalf("toggle produced a transaction record: %d -> %d", before, n)
	}
	if _, err := eng.ToggleActive(9999, true); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user err=%v, want ErrUserNotFound", err)
	}
}

// N concurrent transfers of amount a against balance B with N*a > B: exactly
// floor(B/a) succeed, the rest fail with ErrInsufficientFunds, and the final
// balance is B - floor(B/a)*a.
func TestConcurrentTransfersNoLostUpdates(t *testing.T) {
	eng, repo := newTestEngine(t)

	accA, _ := eng.Register("alice", "pw", "", domain.RoleUser)
	accB, _ := eng.Register("bob", "pw", "", domain.RoleUser)
	admAcc, _ := eng.Register("root", "pw", "", domain.RoleAdmin)
	admin, _ := repo.FindUserByID(admAcc.UserID)
	alice, _ := repo.FindUserByID(accA.UserID)
	if err := eng.AdminDeposit(admin, accA.AccountNumber, dec("100")); err != nil {
		t.Fatalf("AdminDeposit err=%v", err)
	}

	const workers = 10
	amount := dec("30") // 10*30 > 100, only 3 can succeed

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Transfer(alice, accA.AccountNumber, accB.AccountNumber, amount)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok, insufficient := 0, 0
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 3 || insufficient != 7 {
		t.Fatalf("succeeded=%d failed=%d, want 3/7", ok, insufficient)
	}

	a, _ := repo.FindAccountByNumber(accA.AccountNumber)
	b, _ := repo.FindAccountByNumber(accB.AccountNumber)
	if !a.Balance.Equal(dec("10")) || !b.Balance.Equal(dec("90")) {
		t.Fatalf("balances A=%s B=%s, want 10/90", a.Balance, b.Balance)
	}
	// 1 deposit + 3 transfers in the audit trail.
	if n := txCount(repo); n != 4 {
		t.Fatalf("tx count = %d, want 4", n)
	}
}

// failingStore accepts the initial load but refuses every flush.
type failingStore struct{}

func (failingStore) Load() (*domain.Snapshot, error) { return domain.NewSnapshot(), nil }
func (failingStore) Save(*domain.Snapshot) error     { return errors.New("disk full") }

// A mutation whose flush fails must not become visible: the repository keeps
// the previous committed snapshot.
func TestFlushFailureRollsBack(t *testing.T) {
	repo, err := NewRepository(failingStore{})
	if err != nil {
		t.Fatalf("NewRepository err=%v", err)
	}
	eng := NewEngine(repo, plainVerifier{})

	_, err = eng.Register("alice", "pw", "", domain.RoleUser)
	if !IsPersistenceError(err) {
		t.Fatalf("err=%v, want persistence error", err)
	}
	if _, err := repo.FindUserByUsername("alice"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("half-committed user visible: err=%v", err)
	}
	var users int
	repo.View(func(snap *domain.Snapshot) { users = len(snap.Users) })
	if users != 0 {
		t.Fatalf("user count = %d after failed flush, want 0", users)
	}
}

// State committed through one repository must survive a reload through a
// fresh repository over the same store.
func TestStateSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	st := store.NewJSONStore(filepath.Join(dir, "data.json"))
	repo, err := NewRepository(st)
	if err != nil {
		t.Fatalf("NewRepository err=%v", err)
	}
	eng := NewEngine(repo, plainVerifier{})

	accA, _ := eng.Register("alice", "pw", "a@example.com", domain.RoleUser)
	admAcc, _ := eng.Register("root", "pw", "", domain.RoleAdmin)
	admin, _ := repo.FindUserByID(admAcc.UserID)
	if err := eng.AdminDeposit(admin, accA.AccountNumber, dec("12.34")); err != nil {
		t.Fatalf("AdminDeposit err=%v", err)
	}

	reloaded, err := NewRepository(store.NewJSONStore(filepath.Join(dir, "data.json")))
	if err != nil {
		t.Fatalf("reload err=%v", err)
	}
	a, err := reloaded.FindAccountByNumber(accA.AccountNumber)
	if err != nil {
		t.Fatalf("account missing after reload: %v", err)
	}
	if !a.Balance.Equal(dec("12.34")) {
		t.Fatalf("balance after reload = %s, want 12.34", a.Balance)
	}
	var next uint
	reloaded.View(func(snap *domain.Snapshot) { next = snap.NextAccountID })
	if next != 102 {
		t.Fatalf("NextAccountID after reload = %d, want 102", next)
	}
}
