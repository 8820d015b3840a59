package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/heysubinoy/achardb/pkg/kv"
)

// boltBucket is the single bucket holding all entries inside the BoltDB file.
var boltBucket = []byte("achar")

// BoltBackend persists the store inside a BoltDB file. Each key maps to its
// entry's JSON encoding inside one bucket, and Save rewrites the bucket in a
// single write transaction, which makes a dump all-or-nothing.
//
// Compared to FileBackend this trades the humanly readable flat file for
// crash safety that does not depend on a rename, at the cost of BoltDB
// owning the file for the store's whole lifetime.
type BoltBackend struct {
	db *bolt.DB
}

// Compile-time check to ensure BoltBackend implements Backend.
var _ Backend = (*BoltBackend)(nil)

// NewBoltBackend opens (creating if needed) the BoltDB file at path.
// The open fails fast instead of blocking forever when another process
// holds the file lock.
func NewBoltBackend(path string) (*BoltBackend, error) {
	resolved, err := resolveFilePath(path)
	if err != nil {
		return nil, err
	}

	db, err := bolt.Open(resolved, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %q: %w", resolved, err)
	}

	return &BoltBackend{db: db}, nil
}

// Load reads every entry from the bucket. A missing bucket means the
// database was never dumped to, which is a new empty database.
func (b *BoltBackend) Load() (map[string]kv.Entry, error) {
	data := map[string]kv.Entry{}

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var entry kv.Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				if !errors.Is(err, kv.ErrDecodeFailed) {
					err = fmt.Errorf("%w: %v", kv.ErrDecodeFailed, err)
				}

				return fmt.Errorf("key %q: %w", k, err)
			}

			data[string(k)] = entry

			return nil
		})
	})
	if err != nil {
		if errors.Is(err, kv.ErrDecodeFailed) {
			return nil, fmt.Errorf("bolt database: %w", err)
		}

		return nil, fmt.Errorf("failed to load bolt database: %w", err)
	}

	return data, nil
}

// Save replaces the bucket's contents with data in one write transaction.
func (b *BoltBackend) Save(data map[string]kv.Entry) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(boltBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}

		bucket, err := tx.CreateBucket(boltBucket)
		if err != nil {
			return err
		}

		for key, entry := range data {
			raw, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}

			if err := bucket.Put([]byte(key), raw); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save bolt database: %w", err)
	}

	return nil
}

// Close releases the BoltDB file lock.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}
