package store

import (
	"fmt"
	"log/slog"
)

// Backend names accepted by Options.Backend.
const (
	// BackendFile persists to a flat serialized file through a Codec.
	BackendFile = "file"
	// BackendBolt persists inside a BoltDB file.
	BackendBolt = "bolt"
	// BackendMemory keeps the database ephemeral; dumps are no-ops.
	BackendMemory = "memory"
)

// Options configure store construction. The zero value is not usable on its
// own: the file and bolt backends require a Path.
type Options struct {
	// Path is the database file location. Required unless Backend is
	// BackendMemory.
	Path string

	// AutoDump makes every mutation persist synchronously before the
	// mutator returns. Fixed for the store's lifetime.
	AutoDump bool

	// Backend selects the persistence backend. Empty means BackendFile.
	Backend string

	// Codec overrides the flat-file serialization. Nil means JSONCodec.
	// Ignored by the bolt and memory backends.
	Codec Codec

	// Logger receives load/dump/clear events. Nil means silent.
	Logger *slog.Logger
}

// backendName returns the effective backend name after defaulting.
func (o Options) backendName() string {
	if o.Backend == "" {
		return BackendFile
	}

	return o.Backend
}

// newBackend constructs the backend selected by the options.
func (o Options) newBackend() (Backend, error) {
	switch o.backendName() {
	case BackendFile:
		codec := o.Codec
		if codec == nil {
			codec = JSONCodec{}
		}

		return NewFileBackend(o.Path, codec)
	case BackendBolt:
		return NewBoltBackend(o.Path)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", o.Backend)
	}
}
