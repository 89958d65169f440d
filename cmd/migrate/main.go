package main

import (
	"bankledger/internal/config" // Configuration
	"bankledger/internal/store"  // MySQL schema migration
)

// Main entry point for migration; only the mysql backend needs a schema
func main() {
	cfg := config.LoadConfig() // Load configuration
	store.Migrate(cfg.DSN())   // Create or update the snapshot tables
}
