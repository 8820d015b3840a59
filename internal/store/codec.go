package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heysubinoy/achardb/pkg/kv"
)

// Codec encodes and decodes the store's full contents for the flat-file
// backend. The on-disk byte format is the codec's choice; the engine only
// requires that Decode(Encode(data)) round-trips every key, value and shape.
type Codec interface {
	Encode(data map[string]kv.Entry) ([]byte, error)
	Decode(raw []byte) (map[string]kv.Entry, error)
}

// JSONCodec is the default codec. It produces a single JSON object mapping
// each key to its entry's native JSON shape (string, array or object), so
// the database file stays readable by any JSON tooling.
type JSONCodec struct{}

// Compile-time check to ensure JSONCodec implements Codec.
var _ Codec = JSONCodec{}

// Encode serializes data as one JSON object.
func (JSONCodec) Encode(data map[string]kv.Entry) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode database: %w", err)
	}

	return raw, nil
}

// Decode parses raw back into the key-to-entry map. Any parse failure wraps
// kv.ErrDecodeFailed so callers can recognize a corrupt database file.
func (JSONCodec) Decode(raw []byte) (map[string]kv.Entry, error) {
	data := map[string]kv.Entry{}

	if err := json.Unmarshal(raw, &data); err != nil {
		if errors.Is(err, kv.ErrDecodeFailed) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %v", kv.ErrDecodeFailed, err)
	}

	return data, nil
}
