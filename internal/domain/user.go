package domain

// Role of a user within the ledger
type Role string

// Supported roles
const (
	RoleUser  Role = "user"  // Regular account holder
	RoleAdmin Role = "admin" // May run direct operations and manage users
)

// User Model
type User struct {
	ID         uint   `json:"id"`         // Primary key, allocated from Snapshot.NextUserID
	Username   string `json:"username"`   // Unique, case-sensitive
	Credential string `json:"credential"` // Bcrypt hash, never logged or echoed
	Email      string `json:"email"`      // Contact address
	Role       Role   `json:"role"`       // Role: user or admin, immutable after creation
	IsActive   bool   `json:"isActive"`   // Gates every money-moving operation
}
