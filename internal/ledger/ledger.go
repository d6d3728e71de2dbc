// Package ledger persists the last observed raw price text per item.
//
// The ledger is a single-writer resource: the run assumes no
// concurrent instance operates on the same backing store, so no
// locking is implemented here.
package ledger

import "context"

// Store loads the full ledger at run start and rewrites it at run end.
type Store interface {
	// Load returns every entry, keyed by external id. A missing or
	// empty backing store yields an empty map, not an error.
	Load(ctx context.Context) (map[string]string, error)
	// Save replaces the stored ledger with the given entries.
	Save(ctx context.Context, entries map[string]string) error
}
