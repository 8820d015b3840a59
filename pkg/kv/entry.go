package kv

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Shape identifies which variant an Entry holds.
type Shape uint8

const (
	// ShapeScalar is an opaque string payload.
	ShapeScalar Shape = iota
	// ShapeList is an order-preserving sequence of scalars, duplicates allowed.
	ShapeList
	// ShapeDict is an associative mapping with unique subkeys.
	ShapeDict
)

// String returns a human-readable shape name for logs and error messages.
func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeList:
		return "list"
	case ShapeDict:
		return "dict"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// Entry is the tagged union stored under each key. Exactly one payload field
// is meaningful, selected by Shape. The shape is fixed by the create/set call
// that produced the entry; it is never inferred from the payload.
type Entry struct {
	Shape  Shape
	Scalar string
	List   []string
	Dict   map[string]string
}

// NewScalar returns a scalar entry holding value.
func NewScalar(value string) Entry {
	return Entry{Shape: ShapeScalar, Scalar: value}
}

// NewList returns a list entry holding items. A nil items yields a valid
// empty list, which is distinct from key-absent.
func NewList(items []string) Entry {
	if items == nil {
		items = []string{}
	}

	return Entry{Shape: ShapeList, List: items}
}

// NewDict returns a dict entry holding pairs. A nil pairs yields a valid
// empty dict, which is distinct from key-absent.
func NewDict(pairs map[string]string) Entry {
	if pairs == nil {
		pairs = map[string]string{}
	}

	return Entry{Shape: ShapeDict, Dict: pairs}
}

// Clone returns a deep copy of the entry. The store hands out clones on
// every query so callers can never mutate internal state through a result.
func (e Entry) Clone() Entry {
	switch e.Shape {
	case ShapeList:
		return Entry{Shape: ShapeList, List: slices.Clone(e.List)}
	case ShapeDict:
		return Entry{Shape: ShapeDict, Dict: maps.Clone(e.Dict)}
	default:
		return e
	}
}

// MarshalJSON encodes the entry as its native JSON shape: a scalar becomes a
// JSON string, a list a JSON array of strings, a dict a JSON object. The
// on-disk file is therefore a plain JSON object readable without knowledge
// of the Entry type.
func (e Entry) MarshalJSON() ([]byte, error) {
	switch e.Shape {
	case ShapeScalar:
		return json.Marshal(e.Scalar)
	case ShapeList:
		if e.List == nil {
			return json.Marshal([]string{})
		}

		return json.Marshal(e.List)
	case ShapeDict:
		if e.Dict == nil {
			return json.Marshal(map[string]string{})
		}

		return json.Marshal(e.Dict)
	default:
		return nil, fmt.Errorf("cannot encode entry with unknown shape %d", uint8(e.Shape))
	}
}

// UnmarshalJSON decodes an entry from its native JSON shape, inferring the
// shape tag from the JSON type. Anything other than a string, an array of
// strings or a string-to-string object fails with ErrDecodeFailed.
func (e *Entry) UnmarshalJSON(data []byte) error {
	// json.Unmarshal treats null as a no-op for string targets, which would
	// silently decode to an empty scalar here. Reject it up front.
	if string(data) == "null" {
		return fmt.Errorf("%w: null value", ErrDecodeFailed)
	}

	var scalar string
	if err := json.Unmarshal(data, &scalar); err == nil {
		*e = NewScalar(scalar)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*e = NewList(list)
		return nil
	}

	var dict map[string]string
	if err := json.Unmarshal(data, &dict); err == nil {
		*e = NewDict(dict)
		return nil
	}

	return fmt.Errorf("%w: value %q is not a string, string array or string object", ErrDecodeFailed, data)
}
