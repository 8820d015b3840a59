package store

import (
	"fmt"
	"slices"

	"github.com/heysubinoy/achardb/pkg/kv"
)

// List operations. Each one validates the shape at the addressed key before
// mutating, so a failed call never leaves a partially mutated entry behind.

// LCreate sets key to a new empty list, overwriting any prior entry.
func (s *AcharStore) LCreate(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = kv.NewList(nil)

	return s.persistLocked()
}

// LAdd appends value to the end of the list at key.
func (s *AcharStore) LAdd(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryLocked(key, kv.ShapeList)
	if err != nil {
		return err
	}

	entry.List = append(entry.List, value)
	s.data[key] = entry

	return s.persistLocked()
}

// LExtend appends each of values in order to the list at key.
// Equivalent to repeated LAdd, with a single persistence cycle.
func (s *AcharStore) LExtend(key string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryLocked(key, kv.ShapeList)
	if err != nil {
		return err
	}

	entry.List = append(entry.List, values...)
	s.data[key] = entry

	return s.persistLocked()
}

// LGetAll returns a copy of the list at key in insertion order.
func (s *AcharStore) LGetAll(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entryLocked(key, kv.ShapeList)
	if err != nil {
		return nil, err
	}

	return slices.Clone(entry.List), nil
}

// LRange returns a copy of the elements at positions [start, end) of the
// list at key. Out-of-range positions clip to the list bounds; an inverted
// or fully out-of-range window yields an empty slice, never an error.
// Unlike LPop, negative positions do not count from the end: a negative
// start simply clips to 0.
func (s *AcharStore) LRange(key string, start, end int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entryLocked(key, kv.ShapeList)
	if err != nil {
		return nil, err
	}

	start = max(start, 0)
	end = min(end, len(entry.List))

	if start >= end {
		return []string{}, nil
	}

	return slices.Clone(entry.List[start:end]), nil
}

// LPop removes and returns the element at index from the list at key.
// Negative indices count from the end, -1 being the last element.
func (s *AcharStore) LPop(key string, index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryLocked(key, kv.ShapeList)
	if err != nil {
		return "", err
	}

	pos := index
	if pos < 0 {
		pos += len(entry.List)
	}

	if pos < 0 || pos >= len(entry.List) {
		return "", fmt.Errorf("index %d on list %q of length %d: %w",
			index, key, len(entry.List), kv.ErrIndexOutOfRange)
	}

	value := entry.List[pos]
	entry.List = slices.Delete(entry.List, pos, pos+1)
	s.data[key] = entry

	if err := s.persistLocked(); err != nil {
		return "", err
	}

	return value, nil
}

// LRemValue removes the first occurrence of value from the list at key.
func (s *AcharStore) LRemValue(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryLocked(key, kv.ShapeList)
	if err != nil {
		return err
	}

	pos := slices.Index(entry.List, value)
	if pos < 0 {
		return fmt.Errorf("value %q on list %q: %w", value, key, kv.ErrValueNotFound)
	}

	entry.List = slices.Delete(entry.List, pos, pos+1)
	s.data[key] = entry

	return s.persistLocked()
}

// LRemList removes key entirely after verifying it holds a list.
func (s *AcharStore) LRemList(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.entryLocked(key, kv.ShapeList); err != nil {
		return err
	}

	delete(s.data, key)

	return s.persistLocked()
}
