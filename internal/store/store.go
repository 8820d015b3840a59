package store

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/heysubinoy/achardb/pkg/kv"
)

// AcharStore is the in-memory engine behind the kv.Store interface.
// It owns a single map from key to tagged entry, protected by a RWMutex
// for thread-safe operations, and delegates persistence to a Backend.
//
// Every query hands out copies of internal state; callers never receive a
// reference they could mutate outside the API.
type AcharStore struct {
	mu       sync.RWMutex
	data     map[string]kv.Entry
	backend  Backend
	autoDump bool
	logger   *slog.Logger
}

// Compile-time check to ensure AcharStore implements kv.Store.
var _ kv.Store = (*AcharStore)(nil)

// Load constructs a store persisted to the flat file at path using the
// default JSON codec. If the file is absent the store starts empty; if it
// exists but cannot be decoded, Load fails with kv.ErrDecodeFailed.
// When autoDump is true, every mutation persists synchronously.
func Load(path string, autoDump bool) (*AcharStore, error) {
	return Open(Options{Path: path, AutoDump: autoDump})
}

// Open constructs a store from the given options. See Options for the
// available backends and defaults.
func Open(opts Options) (*AcharStore, error) {
	backend, err := opts.newBackend()
	if err != nil {
		return nil, err
	}

	data, err := backend.Load()
	if err != nil {
		backend.Close()
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger.Debug("database loaded",
		"path", opts.Path,
		"backend", opts.backendName(),
		"keys", len(data),
		"auto_dump", opts.AutoDump)

	return &AcharStore{
		data:     data,
		backend:  backend,
		autoDump: opts.AutoDump,
		logger:   logger,
	}, nil
}

// Set stores a scalar value under key, overwriting any prior entry.
func (s *AcharStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = kv.NewScalar(value)

	return s.persistLocked()
}

// Get retrieves the scalar value stored under key.
// Returns empty string and false when the key is absent or holds a
// non-scalar entry; both are normal results, not errors.
func (s *AcharStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[key]
	if !ok || entry.Shape != kv.ShapeScalar {
		return "", false
	}

	return entry.Scalar, true
}

// Exists reports whether key is present under any shape.
func (s *AcharStore) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key]

	return ok
}

// Rem removes key regardless of shape. Removing an absent key is a no-op.
func (s *AcharStore) Rem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}

	delete(s.data, key)

	return s.persistLocked()
}

// Append concatenates more onto the scalar stored at key.
// The key must already hold a scalar; calling Append N times with the same
// argument yields old + more repeated N times.
func (s *AcharStore) Append(key, more string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryLocked(key, kv.ShapeScalar)
	if err != nil {
		return err
	}

	entry.Scalar += more
	s.data[key] = entry

	return s.persistLocked()
}

// GetAll returns a snapshot of all keys, any shape, in map iteration order.
func (s *AcharStore) GetAll() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}

	return keys
}

// TotalKeys returns the number of distinct keys across all shapes.
func (s *AcharStore) TotalKeys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Clear empties the store entirely.
func (s *AcharStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]kv.Entry)
	s.logger.Debug("database cleared")

	return s.persistLocked()
}

// DelDB empties the store entirely. Alias of Clear.
func (s *AcharStore) DelDB() error {
	return s.Clear()
}

// Dump serializes the entire store through its backend. A failed dump leaves
// the in-memory state unchanged and usable.
func (s *AcharStore) Dump() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.dumpLocked()
}

// Close releases backend resources. The store must not be used afterwards.
func (s *AcharStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backend.Close()
}

// entryLocked fetches the entry at key and verifies it holds the wanted
// shape. Callers must hold mu.
func (s *AcharStore) entryLocked(key string, want kv.Shape) (kv.Entry, error) {
	entry, ok := s.data[key]
	if !ok {
		return kv.Entry{}, fmt.Errorf("key %q is absent, want a %s: %w", key, want, kv.ErrShapeMismatch)
	}

	if entry.Shape != want {
		return kv.Entry{}, fmt.Errorf("key %q holds a %s, want a %s: %w", key, entry.Shape, want, kv.ErrShapeMismatch)
	}

	return entry, nil
}

// persistLocked runs the auto-dump cycle after a mutation.
// Callers must hold mu for writing.
func (s *AcharStore) persistLocked() error {
	if !s.autoDump {
		return nil
	}

	return s.dumpLocked()
}

// dumpLocked saves the full contents through the backend.
// Callers must hold mu at least for reading.
func (s *AcharStore) dumpLocked() error {
	if err := s.backend.Save(s.data); err != nil {
		s.logger.Error("dump failed", "error", err)
		return fmt.Errorf("failed to dump database: %w", err)
	}

	s.logger.Debug("database dumped", "keys", len(s.data))

	return nil
}
