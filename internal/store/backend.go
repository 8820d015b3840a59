package store

import "github.com/heysubinoy/achardb/pkg/kv"

// Backend loads and saves the store's full contents. The engine is the sole
// owner of the in-memory state; a backend only sees it wholesale at load and
// dump time and must not retain or mutate the map it is handed.
//
// Error semantics:
//
//   - Load returns an empty map, not an error, when no persisted state
//     exists yet ("absent file means new empty database").
//   - Load returns an error wrapping kv.ErrDecodeFailed when state exists
//     but cannot be decoded. This is fatal for store construction.
//   - Save must be observably all-or-nothing: a reader of the persisted
//     state never sees a partial write.
type Backend interface {
	Load() (map[string]kv.Entry, error)
	Save(data map[string]kv.Entry) error
	Close() error
}

// MemoryBackend is an ephemeral backend: every Load starts empty and Save
// is a no-op. Useful for tests and throwaway caches.
type MemoryBackend struct{}

// Compile-time check to ensure MemoryBackend implements Backend.
var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates a backend with no durable storage.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load always starts from an empty database.
func (b *MemoryBackend) Load() (map[string]kv.Entry, error) {
	return map[string]kv.Entry{}, nil
}

// Save discards the data; there is nowhere to persist it.
func (b *MemoryBackend) Save(map[string]kv.Entry) error {
	return nil
}

// Close is a no-op.
func (b *MemoryBackend) Close() error {
	return nil
}
