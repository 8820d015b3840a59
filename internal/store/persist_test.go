package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heysubinoy/achardb/pkg/kv"
)

func TestDumpLoadRoundTrip(t *testing.T) {
	t.Parallel()

	db, path := newTestStore(t, false)

	require.NoError(t, db.Set("a", "1"))
	require.NoError(t, db.Set("b", "2"))
	require.NoError(t, db.LCreate("l"))
	require.NoError(t, db.LExtend("l", []string{"x", "y", "z"}))
	require.NoError(t, db.DCreate("d"))
	require.NoError(t, db.DAdd("d", "sk", "sv"))
	require.NoError(t, db.Dump())

	fresh, err := Load(path, false)
	require.NoError(t, err)
	defer fresh.Close()

	assert.ElementsMatch(t, db.GetAll(), fresh.GetAll())

	value, ok := fresh.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", value)

	value, ok = fresh.Get("b")
	require.True(t, ok)
	require.Equal(t, "2", value)
	require.Equal(t, 4, fresh.TotalKeys())

	items, err := fresh.LGetAll("l")
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y", "z"}, items)

	pairs, err := fresh.DGetAll("d")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"sk": "sv"}, pairs)
}

func TestLoadAbsentFileStartsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "never-dumped.db")

	db, err := Load(path, false)
	require.NoError(t, err)
	defer db.Close()

	require.Zero(t, db.TotalKeys())

	// Construction alone must not create the file.
	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEmptyFileStartsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	db, err := Load(path, false)
	require.NoError(t, err)
	defer db.Close()

	require.Zero(t, db.TotalKeys())
}

func TestLoadCorruptFileFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corrupt.db")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path, false)
	require.ErrorIs(t, err, kv.ErrDecodeFailed)
}

func TestLoadRejectsUnsupportedValueShape(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "badshape.db")
	require.NoError(t, os.WriteFile(path, []byte(`{"k": 42}`), 0o644))

	_, err := Load(path, false)
	require.ErrorIs(t, err, kv.ErrDecodeFailed)
}

func TestLoadRejectsDirectoryPath(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir(), false)
	require.Error(t, err)
}

func TestDumpFileIsPlainJSON(t *testing.T) {
	t.Parallel()

	db, path := newTestStore(t, false)

	require.NoError(t, db.Set("s", "v"))
	require.NoError(t, db.LCreate("l"))
	require.NoError(t, db.LAdd("l", "item"))
	require.NoError(t, db.DCreate("d"))
	require.NoError(t, db.DAdd("d", "sk", "sv"))
	require.NoError(t, db.Dump())

	// The file must be one generic JSON object with native shapes, readable
	// without the Entry type.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))

	require.Equal(t, "v", generic["s"])
	require.Equal(t, []any{"item"}, generic["l"])
	require.Equal(t, map[string]any{"sk": "sv"}, generic["d"])
}

func TestDumpLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	db, err := Load(path, false)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Set("a", "1"))

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Dump())
	}

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "test.db", files[0].Name())
}

func TestAutoDumpPersistsEveryMutation(t *testing.T) {
	t.Parallel()

	db, path := newTestStore(t, true)

	require.NoError(t, db.Set("a", "1"))

	// No explicit Dump(): the mutation alone must be visible to a fresh load.
	fresh, err := Load(path, false)
	require.NoError(t, err)
	defer fresh.Close()

	value, ok := fresh.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", value)
}

func TestAutoDumpCoversAllMutators(t *testing.T) {
	t.Parallel()

	db, path := newTestStore(t, true)

	require.NoError(t, db.Set("gone", "x"))
	require.NoError(t, db.Rem("gone"))
	require.NoError(t, db.LCreate("l"))
	require.NoError(t, db.LAdd("l", "a"))
	require.NoError(t, db.LAdd("l", "b"))

	_, err := db.LPop("l", -1)
	require.NoError(t, err)

	require.NoError(t, db.DCreate("d"))
	require.NoError(t, db.DAdd("d", "k", "v"))

	fresh, err := Load(path, false)
	require.NoError(t, err)
	defer fresh.Close()

	assert.False(t, fresh.Exists("gone"))

	items, err := fresh.LGetAll("l")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, items)

	pairs, err := fresh.DGetAll("d")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"k": "v"}, pairs)
}

func TestDisabledAutoDumpRequiresExplicitDump(t *testing.T) {
	t.Parallel()

	db, path := newTestStore(t, false)

	require.NoError(t, db.Set("a", "1"))

	// Nothing was dumped, so a fresh load sees nothing.
	fresh, err := Load(path, false)
	require.NoError(t, err)
	defer fresh.Close()

	require.Zero(t, fresh.TotalKeys())
}

func TestDumpFailureLeavesMemoryIntact(t *testing.T) {
	t.Parallel()

	nested := filepath.Join(t.TempDir(), "sub")
	require.NoError(t, os.Mkdir(nested, 0o755))
	path := filepath.Join(nested, "test.db")

	db, err := Load(path, true)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Set("before", "1"))

	// Destroy the dump target; the next mutation's auto-dump must fail.
	require.NoError(t, os.RemoveAll(nested))

	err = db.Set("after", "2")
	require.Error(t, err)

	// A failed dump never rolls back the in-memory mutation.
	value, ok := db.Get("after")
	require.True(t, ok)
	require.Equal(t, "2", value)
	require.Equal(t, 2, db.TotalKeys())

	// The store stays usable, and a later successful dump persists
	// everything accumulated across the failure.
	require.NoError(t, os.Mkdir(nested, 0o755))
	require.NoError(t, db.Set("recovered", "3"))

	fresh, err := Load(path, false)
	require.NoError(t, err)
	defer fresh.Close()

	require.Equal(t, 3, fresh.TotalKeys())

	value, ok = fresh.Get("after")
	require.True(t, ok)
	require.Equal(t, "2", value)
}

// brokenCodec fails every encode, standing in for an unwritable target.
type brokenCodec struct{}

func (brokenCodec) Encode(map[string]kv.Entry) ([]byte, error) {
	return nil, fmt.Errorf("encode exploded")
}

func (brokenCodec) Decode([]byte) (map[string]kv.Entry, error) {
	return map[string]kv.Entry{}, nil
}

func TestDumpFailureDuringPop(t *testing.T) {
	t.Parallel()

	db, err := Open(Options{
		Path:     filepath.Join(t.TempDir(), "test.db"),
		AutoDump: true,
		Codec:    brokenCodec{},
	})
	require.NoError(t, err)
	defer db.Close()

	// Every mutator reports the dump failure while its mutation stands.
	require.Error(t, db.LCreate("l"))
	require.Error(t, db.LExtend("l", []string{"a", "b"}))

	value, err := db.LPop("l", -1)
	require.Error(t, err)
	require.Empty(t, value)

	// The pop took effect in memory even though its dump failed.
	items, err := db.LGetAll("l")
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, items)

	require.Error(t, db.DCreate("d"))
	require.Error(t, db.DAdd("d", "k", "v"))

	_, err = db.DPop("d", "k")
	require.Error(t, err)

	ok, err := db.DExists("d", "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryBackendIsEphemeral(t *testing.T) {
	t.Parallel()

	db, err := Open(Options{Backend: BackendMemory, AutoDump: true})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Set("a", "1"))
	require.NoError(t, db.Dump())

	fresh, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	defer fresh.Close()

	require.Zero(t, fresh.TotalKeys())
}

func TestBoltBackendRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.bolt")

	db, err := Open(Options{Path: path, Backend: BackendBolt})
	require.NoError(t, err)

	require.NoError(t, db.Set("a", "1"))
	require.NoError(t, db.LCreate("l"))
	require.NoError(t, db.LExtend("l", []string{"x", "y"}))
	require.NoError(t, db.DCreate("d"))
	require.NoError(t, db.DAdd("d", "sk", "sv"))
	require.NoError(t, db.Dump())
	require.NoError(t, db.Close())

	fresh, err := Open(Options{Path: path, Backend: BackendBolt})
	require.NoError(t, err)
	defer fresh.Close()

	value, ok := fresh.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", value)

	items, err := fresh.LGetAll("l")
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, items)

	pairs, err := fresh.DGetAll("d")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"sk": "sv"}, pairs)
}

func TestBoltBackendDumpReplacesContents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.bolt")

	db, err := Open(Options{Path: path, Backend: BackendBolt, AutoDump: true})
	require.NoError(t, err)

	require.NoError(t, db.Set("keep", "1"))
	require.NoError(t, db.Set("drop", "2"))
	require.NoError(t, db.Rem("drop"))
	require.NoError(t, db.Close())

	fresh, err := Open(Options{Path: path, Backend: BackendBolt})
	require.NoError(t, err)
	defer fresh.Close()

	assert.True(t, fresh.Exists("keep"))
	assert.False(t, fresh.Exists("drop"))
}

func TestUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := Open(Options{Backend: "redis"})
	require.Error(t, err)
}

// TestStatefulSequence drives the store through a scripted mutation sequence
// while maintaining a plain-map model, checking after every step that the
// store's observable scalar state matches the model, and that dump+reload
// preserves it.
func TestStatefulSequence(t *testing.T) {
	t.Parallel()

	db, path := newTestStore(t, false)
	model := map[string]string{}

	type step struct {
		op    string
		key   string
		value string
	}

	steps := []step{
		{"set", "a", "1"},
		{"set", "b", "2"},
		{"set", "a", "3"},
		{"rem", "b", ""},
		{"set", "c", ""},
		{"rem", "missing", ""},
		{"set", "d", "4"},
		{"rem", "a", ""},
		{"set", "b", "versioned"},
	}

	check := func() {
		t.Helper()

		for key, want := range model {
			got, ok := db.Get(key)
			require.True(t, ok, "key %q missing from store", key)
			require.Equal(t, want, got)
		}

		keys := make([]string, 0, len(model))
		for key := range model {
			keys = append(keys, key)
		}

		require.ElementsMatch(t, keys, db.GetAll())
		require.Equal(t, len(model), db.TotalKeys())
	}

	for i, s := range steps {
		switch s.op {
		case "set":
			require.NoError(t, db.Set(s.key, s.value))
			model[s.key] = s.value
		case "rem":
			require.NoError(t, db.Rem(s.key))
			delete(model, s.key)
		default:
			t.Fatalf("step %d: unknown op %q", i, s.op)
		}

		check()
	}

	require.NoError(t, db.Dump())

	reloaded, err := Load(path, false)
	require.NoError(t, err)
	defer reloaded.Close()

	for key, want := range model {
		got, ok := reloaded.Get(key)
		require.True(t, ok)
		require.Equal(t, want, got, "key %q after reload", key)
	}
}

// TestRoundTripManyKeys exercises the round-trip guarantee over a store
// larger than a handful of hand-written keys.
func TestRoundTripManyKeys(t *testing.T) {
	t.Parallel()

	db, path := newTestStore(t, false)

	for i := 0; i < 500; i++ {
		require.NoError(t, db.Set(fmt.Sprintf("key-%03d", i), fmt.Sprintf("value-%d", i)))
	}

	require.NoError(t, db.Dump())

	fresh, err := Load(path, false)
	require.NoError(t, err)
	defer fresh.Close()

	require.Equal(t, 500, fresh.TotalKeys())

	for i := 0; i < 500; i++ {
		value, ok := fresh.Get(fmt.Sprintf("key-%03d", i))
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("value-%d", i), value)
	}
}
