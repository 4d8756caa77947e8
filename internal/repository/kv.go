// Package repository defines storage interfaces implemented by concrete backends.
package repository

import "context"

// Keys under which each collection is stored as a single JSON blob.
const (
	KeyUsers      = "veriuser_users"
	KeyStatuses   = "veriuser_statuses"
	KeyCategories = "veriuser_categories"
)

// KV is an opaque string-keyed blob store. Writes are last-write-wins per key;
// there is no atomicity across keys.
type KV interface {
	// Load returns the blob stored under key or errs.ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the blob stored under key.
	Save(ctx context.Context, key string, data []byte) error
}
