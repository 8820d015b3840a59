package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/heysubinoy/achardb/pkg/kv"
)

// FileBackend persists the store to a single flat file through a Codec.
// Save writes to a uniquely named temporary file in the same directory and
// renames it over the target, so a dump is all-or-nothing from any reader's
// point of view.
type FileBackend struct {
	path  string
	codec Codec
}

// Compile-time check to ensure FileBackend implements Backend.
var _ Backend = (*FileBackend)(nil)

// NewFileBackend creates a flat-file backend at path using codec.
// The path is normalized to an absolute file path and must not name a
// directory.
func NewFileBackend(path string, codec Codec) (*FileBackend, error) {
	resolved, err := resolveFilePath(path)
	if err != nil {
		return nil, err
	}

	return &FileBackend{path: resolved, codec: codec}, nil
}

// Path returns the resolved absolute path of the database file.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads and decodes the database file. An absent or empty file is a
// new empty database; an unreadable or undecodable file is an error.
func (b *FileBackend) Load() (map[string]kv.Entry, error) {
	raw, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]kv.Entry{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read database file %q: %w", b.path, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]kv.Entry{}, nil
	}

	data, err := b.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("database file %q: %w", b.path, err)
	}

	return data, nil
}

// Save encodes data and atomically replaces the database file with it.
// On failure the previous file contents are left untouched.
func (b *FileBackend) Save(data map[string]kv.Entry) error {
	raw, err := b.codec.Encode(data)
	if err != nil {
		return err
	}

	// Temp file lives next to the target so the rename stays on one
	// filesystem. The UUID suffix keeps concurrent dumps from colliding.
	tmpPath := fmt.Sprintf("%s.%s.tmp", b.path, uuid.NewString())

	if err := os.WriteFile(tmpPath, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write database file %q: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace database file %q: %w", b.path, err)
	}

	return nil
}

// Close is a no-op; the file is only held open during Load and Save.
func (b *FileBackend) Close() error {
	return nil
}

// resolveFilePath normalizes a user-provided database path.
// Empty and directory paths are rejected early so Save never fails late on
// an unusable target.
func resolveFilePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("database path is required")
	}

	absPath, err := filepath.Abs(filepath.Clean(trimmed))
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path %q: %w", trimmed, err)
	}

	info, err := os.Stat(absPath)
	switch {
	case err == nil:
		if info.IsDir() {
			return "", fmt.Errorf("database path %q is a directory", absPath)
		}

		return absPath, nil
	case errors.Is(err, os.ErrNotExist):
		return absPath, nil
	default:
		return "", fmt.Errorf("failed to stat database path %q: %w", absPath, err)
	}
}
