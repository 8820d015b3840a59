package store

import (
	"fmt"
	"maps"

	"github.com/heysubinoy/achardb/pkg/kv"
)

// Dict operations. Subkeys are unique within a dict; "subkey absent" is
// kv.ErrKeyNotFound, distinct from the dict itself missing or holding the
// wrong shape (kv.ErrShapeMismatch).

// DCreate sets key to a new empty dict, overwriting any prior entry.
func (s *AcharStore) DCreate(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = kv.NewDict(nil)

	return s.persistLocked()
}

// DAdd inserts or overwrites subkey -> value within the dict at key.
func (s *AcharStore) DAdd(key, subkey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryLocked(key, kv.ShapeDict)
	if err != nil {
		return err
	}

	entry.Dict[subkey] = value

	return s.persistLocked()
}

// DGet returns the value stored under subkey within the dict at key.
func (s *AcharStore) DGet(key, subkey string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entryLocked(key, kv.ShapeDict)
	if err != nil {
		return "", err
	}

	value, ok := entry.Dict[subkey]
	if !ok {
		return "", fmt.Errorf("subkey %q on dict %q: %w", subkey, key, kv.ErrKeyNotFound)
	}

	return value, nil
}

// DGetAll returns a copy of the full dict at key.
func (s *AcharStore) DGetAll(key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entryLocked(key, kv.ShapeDict)
	if err != nil {
		return nil, err
	}

	return maps.Clone(entry.Dict), nil
}

// DPop removes subkey from the dict at key and returns its prior value.
func (s *AcharStore) DPop(key, subkey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryLocked(key, kv.ShapeDict)
	if err != nil {
		return "", err
	}

	value, ok := entry.Dict[subkey]
	if !ok {
		return "", fmt.Errorf("subkey %q on dict %q: %w", subkey, key, kv.ErrKeyNotFound)
	}

	delete(entry.Dict, subkey)

	if err := s.persistLocked(); err != nil {
		return "", err
	}

	return value, nil
}

// DRem removes key entirely after verifying it holds a dict.
func (s *AcharStore) DRem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.entryLocked(key, kv.ShapeDict); err != nil {
		return err
	}

	delete(s.data, key)

	return s.persistLocked()
}

// DExists reports whether subkey is present within the dict at key.
func (s *AcharStore) DExists(key, subkey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entryLocked(key, kv.ShapeDict)
	if err != nil {
		return false, err
	}

	_, ok := entry.Dict[subkey]

	return ok, nil
}

// DKeys returns the subkeys of the dict at key, in map iteration order.
func (s *AcharStore) DKeys(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entryLocked(key, kv.ShapeDict)
	if err != nil {
		return nil, err
	}

	subkeys := make([]string, 0, len(entry.Dict))
	for subkey := range entry.Dict {
		subkeys = append(subkeys, subkey)
	}

	return subkeys, nil
}

// DVals returns the values of the dict at key, in map iteration order.
func (s *AcharStore) DVals(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entryLocked(key, kv.ShapeDict)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(entry.Dict))
	for _, value := range entry.Dict {
		values = append(values, value)
	}

	return values, nil
}

// DMerge merges key2's pairs into key1's dict, key2's values winning on
// subkey collision. key2 is left unmodified. Both keys must hold dicts;
// the merge happens only after both sides validate.
func (s *AcharStore) DMerge(key1, key2 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst, err := s.entryLocked(key1, kv.ShapeDict)
	if err != nil {
		return err
	}

	src, err := s.entryLocked(key2, kv.ShapeDict)
	if err != nil {
		return err
	}

	maps.Copy(dst.Dict, src.Dict)

	return s.persistLocked()
}
