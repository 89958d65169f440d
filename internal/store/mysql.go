package store

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"bankledger/internal/domain"
)

// Row types for the MySQL backend. They mirror the domain types but carry
// gorm tags, keeping persistence concerns out of the domain package.

// ledgerUser is the users table row
type ledgerUser struct {
	ID         uint   `gorm:"primaryKey"`           // User id, allocated by the ledger, not auto-increment
	Username   string `gorm:"uniqueIndex;not null"` // Unique username
	Credential string `gorm:"not null"`             // Bcrypt hash
	Email      string // Contact address
	Role       string `gorm:"default:user"` // Role: user or admin
	IsActive   bool   // Active flag
}

// ledgerAccount is the accounts table row
type ledgerAccount struct {
	ID            uint            `gorm:"primaryKey"`          // Account id, allocated by the ledger
	UserID        uint            `gorm:"uniqueIndex"`         // Owning user
	AccountNumber string          `gorm:"uniqueIndex;size:16"` // Public 8-digit number
	Balance       decimal.Decimal `gorm:"type:decimal(20,2)"`  // Current balance
}

// ledgerTransaction is the transactions table row
type ledgerTransaction struct {
	ID           uint `gorm:"primaryKey"` // Transaction id, allocated by the ledger
	SourceUserID uint // Sender or authorizing admin
	DestUserID   uint // Receiver or authorizing admin
	Type         string
	Amount       decimal.Decimal `gorm:"type:decimal(20,2)"` // Positive amount
	Timestamp    time.Time       // Creation instant
	Description  string          // Human-readable note
}

// ledgerCounters is a single-row table holding the id counters
type ledgerCounters struct {
	ID                uint `gorm:"primaryKey"` // Always 1
	NextUserID        uint // Next user id
	NextAccountID     uint // Next account id
	NextTransactionID uint // Next transaction id
}

// MySQLStore persists the snapshot to MySQL through gorm. Every Save
// replaces the full contents inside one database transaction, so a reader
// of the tables sees either the previous or the new snapshot, never a mix.
type MySQLStore struct {
	db *gorm.DB
}

// OpenMySQLStore connects to the database with the given DSN.
func OpenMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return &MySQLStore{db: db}, nil
}

// Load reads every table and assembles the snapshot. Empty tables (fresh
// schema) yield an empty seeded snapshot.
func (s *MySQLStore) Load() (*domain.Snapshot, error) {
	var (
		users    []ledgerUser
		accounts []ledgerAccount
		txs      []ledgerTransaction
		counters ledgerCounters
	)
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id").Find(&txs).Error; err != nil {
		return nil, err
	}
	if err := s.db.First(&counters, 1).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.NewSnapshot(), nil
		}
		return nil, err
	}

	snap := &domain.Snapshot{
		NextUserID:        counters.NextUserID,
		NextAccountID:     counters.NextAccountID,
		NextTransactionID: counters.NextTransactionID,
	}
	for _, u := range users {
		snap.Users = append(snap.Users, domain.User{
			ID: u.ID, Username: u.Username, Credential: u.Credential,
			Email: u.Email, Role: domain.Role(u.Role), IsActive: u.IsActive,
		})
	}
	for _, a := range accounts {
		snap.Accounts = append(snap.Accounts, domain.Account{
			ID: a.ID, UserID: a.UserID, AccountNumber: a.AccountNumber, Balance: a.Balance,
		})
	}
	for _, t := range txs {
		snap.Transactions = append(snap.Transactions, domain.Transaction{
			ID: t.ID, SourceUserID: t.SourceUserID, DestUserID: t.DestUserID,
			Type: domain.TxType(t.Type), Amount: t.Amount,
			Timestamp: t.Timestamp, Description: t.Description,
		})
	}
	return snap, nil
}

// Save replaces the persisted snapshot atomically inside one DB transaction.
func (s *MySQLStore) Save(snap *domain.Snapshot) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Clear previous contents
		for _, model := range []any{&ledgerUser{}, &ledgerAccount{}, &ledgerTransaction{}, &ledgerCounters{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		for _, u := range snap.Users {
			row := ledgerUser{
				ID: u.ID, Username: u.Username, Credential: u.Credential,
				Email: u.Email, Role: string(u.Role), IsActive: u.IsActive,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, a := range snap.Accounts {
			row := ledgerAccount{ID: a.ID, UserID: a.UserID, AccountNumber: a.AccountNumber, Balance: a.Balance}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, t := range snap.Transactions {
			row := ledgerTransaction{
				ID: t.ID, SourceUserID: t.SourceUserID, DestUserID: t.DestUserID,
				Type: string(t.Type), Amount: t.Amount,
				Timestamp: t.Timestamp, Description: t.Description,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		counters := ledgerCounters{
			ID:                1,
			NextUserID:        snap.NextUserID,
			NextAccountID:     snap.NextAccountID,
			NextTransactionID: snap.NextTransactionID,
		}
		return tx.Create(&counters).Error
	})
}

// Migrate creates or updates the MySQL schema for the snapshot tables.
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing constraints, columns and indexes
	err = db.AutoMigrate(&ledgerUser{}, &ledgerAccount{}, &ledgerTransaction{}, &ledgerCounters{})
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
