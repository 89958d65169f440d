package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
)

func TestJSONStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	st := NewJSONStore(path)

	orig := &domain.Snapshot{
		Users: []domain.User{
			{ID: 1, Username: "alice", Credential: "hash", Email: "a@example.com", Role: domain.RoleUser, IsActive: true},
			{ID: 2, Username: "root", Credential: "hash", Role: domain.RoleAdmin, IsActive: true},
		},
		Accounts: []domain.Account{
			{ID: 100, UserID: 1, AccountNumber: "12345678", Balance: decimal.RequireFromString("10.50")},
		},
		Transactions: []domain.Transaction{
			{ID: 1, SourceUserID: 2, DestUserID: 1, Type: domain.TxAdminDeposit, Amount: decimal.RequireFromString("10.50"), Description: "seed"},
		},
		NextUserID:        3,
		NextAccountID:     101,
		NextTransactionID: 2,
	}
	if err := st.Save(orig); err != nil {
		t.Fatalf("Save err=%v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	// The temporary file must not linger after a successful save.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind: %v", err)
	}

	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if len(loaded.Users) != 2 || len(loaded.Accounts) != 1 || len(loaded.Transactions) != 1 {
		t.Fatalf("loaded shape mismatch: %+v", loaded)
	}
	if loaded.NextUserID != 3 || loaded.NextAccountID != 101 || loaded.NextTransactionID != 2 {
		t.Fatalf("counters mismatch: %+v", loaded)
	}
	if !loaded.Accounts[0].Balance.Equal(decimal.RequireFromString("10.50")) {
		t.Fatalf("balance = %s, want 10.50", loaded.Accounts[0].Balance)
	}
	if loaded.Users[0].Credential != "hash" {
		t.Fatalf("credential not preserved: %+v", loaded.Users[0])
	}
}

func TestJSONStoreMissingFileSeedsSnapshot(t *testing.T) {
	st := NewJSONStore(filepath.Join(t.TempDir(), "nope", "data.json"))

	snap, err := st.Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if len(snap.Users) != 0 || len(snap.Accounts) != 0 || len(snap.Transactions) != 0 {
		t.Fatalf("fresh snapshot not empty: %+v", snap)
	}
	if snap.NextUserID != 1 || snap.NextAccountID != 100 || snap.NextTransactionID != 1 {
		t.Fatalf("fresh counters wrong: %+v", snap)
	}

	// Save must create missing parent directories.
	if err := st.Save(snap); err != nil {
		t.Fatalf("Save err=%v", err)
	}
	reloaded, err := st.Load()
	if err != nil {
		t.Fatalf("reload err=%v", err)
	}
	if reloaded.NextAccountID != 100 {
		t.Fatalf("reloaded counters wrong: %+v", reloaded)
	}
}

func TestJSONStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile err=%v", err)
	}
	if _, err := NewJSONStore(path).Load(); err == nil {
		t.Fatal("corrupt snapshot loaded without error")
	}
}
