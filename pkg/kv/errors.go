package kv

import "errors"

var (
	// ErrShapeMismatch is returned when an operation typed for one shape is
	// invoked against a key holding a different shape, or no entry at all.
	ErrShapeMismatch = errors.New("key does not hold the expected shape")
	// ErrKeyNotFound is returned by subkey-specific dict operations when the
	// addressed subkey is not a member of the dict.
	ErrKeyNotFound = errors.New("key not found")
	// ErrValueNotFound is returned by list remove-by-value when the value has
	// no occurrence in the list.
	ErrValueNotFound = errors.New("value not found in list")
	// ErrIndexOutOfRange is returned by list pop when the index lies outside
	// the list bounds.
	ErrIndexOutOfRange = errors.New("list index out of range")
	// ErrDecodeFailed is returned at load time when the persisted file exists
	// but cannot be decoded. It is fatal for construction.
	ErrDecodeFailed = errors.New("persisted database cannot be decoded")
)
