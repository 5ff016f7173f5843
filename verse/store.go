package verse

import (
	"context"
)

// Store owns the verse collection. Every mutation re-sorts the collection
// and persists it before returning.
type Store interface {
	// Load replaces the in-memory collection with the persisted one.
	// Missing or corrupt data yields an empty collection and no error.
	Load(ctx context.Context) ([]Verse, error)

	// List returns a snapshot of the collection in canonical order.
	List(ctx context.Context) []Verse

	// Get returns the verse with the given ID.
	Get(ctx context.Context, id string) (Verse, error)

	// Add validates draft and stores it as a new verse.
	Add(ctx context.Context, draft Draft) (Verse, error)

	// Update replaces every field of the verse except ID and CreatedAt.
	Update(ctx context.Context, id string, draft Draft) (Verse, error)

	// Delete removes the verse. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error
}

// Persister reads and writes the serialized collection as one unit.
type Persister interface {
	// Load returns the stored bytes, or nil when nothing has been saved yet.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored bytes.
	Save(ctx context.Context, data []byte) error
}
