// Package store persists ledger snapshots. It knows nothing about ledger
// rules; it only loads and saves complete snapshots, so a backend can be
// swapped without touching the core.
package store

import "bankledger/internal/domain"

// Store loads and saves the full ledger snapshot as one consistent unit.
type Store interface {
	// Load returns the persisted snapshot, or a fresh seeded snapshot if
	// nothing has been persisted yet.
	Load() (*domain.Snapshot, error)
	// Save persists the snapshot. The snapshot must not become visible to
	// a later Load in a partially written form.
	Save(snap *domain.Snapshot) error
}
