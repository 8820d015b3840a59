package kv

// Store defines the interface for an AcharDB key-value store.
// Implementations of this interface can be swapped out, allowing for
// different persistence backends (e.g., flat-file, BoltDB, memory-only)
// and for decorators such as the instrumented store.
//
// A key holds exactly one entry at a time, and the entry's shape (scalar,
// list or dict) is fixed by the most recent create/set call for that key.
// Operations typed for one shape fail with ErrShapeMismatch when invoked
// against a key holding a different shape, or no entry at all.
//
// Error semantics:
//
//   - "Key absent" on plain reads is a normal result, not an error: Get
//     returns ok == false, Exists returns false.
//   - Shape-specific queries and mutators return ErrShapeMismatch when the
//     addressed key does not hold the expected shape.
//   - When auto-dump is enabled, every mutator persists the whole store
//     before returning; persistence failures surface as the mutator's
//     error and the in-memory mutation stands.
type Store interface {
	// Set stores a scalar value under key, overwriting any existing entry
	// regardless of its prior shape.
	Set(key, value string) error

	// Get retrieves the scalar value stored under key.
	// Returns the value and true if key holds a scalar, or empty string and
	// false if the key is absent or holds a list or dict.
	Get(key string) (string, bool)

	// Exists reports whether key is present under any shape.
	Exists(key string) bool

	// Rem removes key regardless of shape. Removing an absent key is a no-op.
	Rem(key string) error

	// Append concatenates more onto the scalar stored at key.
	// The key must already hold a scalar.
	Append(key, more string) error

	// GetAll returns a snapshot of all keys, any shape, in no particular order.
	GetAll() []string

	// TotalKeys returns the number of distinct keys across all shapes.
	TotalKeys() int

	// Clear empties the store entirely.
	Clear() error

	// DelDB empties the store entirely. Alias of Clear.
	DelDB() error

	// LCreate sets key to a new empty list, overwriting any prior entry.
	LCreate(key string) error

	// LAdd appends value to the end of the list at key.
	LAdd(key, value string) error

	// LExtend appends each of values in order to the list at key.
	LExtend(key string, values []string) error

	// LGetAll returns a copy of the list at key in insertion order.
	LGetAll(key string) ([]string, error)

	// LRange returns a copy of the elements at positions [start, end) of the
	// list at key. Out-of-range positions clip to the list bounds and never
	// produce an error.
	LRange(key string, start, end int) ([]string, error)

	// LPop removes and returns the element at index from the list at key.
	// Negative indices count from the end (-1 is the last element).
	// Returns ErrIndexOutOfRange when index is out of bounds.
	LPop(key string, index int) (string, error)

	// LRemValue removes the first occurrence of value from the list at key.
	// Returns ErrValueNotFound when value is not present.
	LRemValue(key, value string) error

	// LRemList removes key entirely after verifying it holds a list.
	LRemList(key string) error

	// DCreate sets key to a new empty dict, overwriting any prior entry.
	DCreate(key string) error

	// DAdd inserts or overwrites subkey -> value within the dict at key.
	DAdd(key, subkey, value string) error

	// DGet returns the value stored under subkey within the dict at key.
	// Returns ErrKeyNotFound when subkey is absent.
	DGet(key, subkey string) (string, error)

	// DGetAll returns a copy of the full dict at key.
	DGetAll(key string) (map[string]string, error)

	// DPop removes subkey from the dict at key and returns its prior value.
	// Returns ErrKeyNotFound when subkey is absent.
	DPop(key, subkey string) (string, error)

	// DRem removes key entirely after verifying it holds a dict.
	DRem(key string) error

	// DExists reports whether subkey is present within the dict at key.
	DExists(key, subkey string) (bool, error)

	// DKeys returns the subkeys of the dict at key, in no particular order.
	DKeys(key string) ([]string, error)

	// DVals returns the values of the dict at key, in no particular order.
	DVals(key string) ([]string, error)

	// DMerge merges key2's pairs into key1's dict. On subkey collision
	// key2's value wins. key2 is left unmodified. Both keys must hold dicts.
	DMerge(key1, key2 string) error

	// Dump serializes the entire store to its backend. Failure leaves the
	// in-memory state unchanged and usable.
	Dump() error

	// Close releases backend resources. The store must not be used after
	// Close returns.
	Close() error
}
