package store

import (
	"sync/atomic"
	"time"

	"github.com/heysubinoy/achardb/pkg/kv"
)

// Metrics holds timing statistics for store operations, grouped into reads
// (shape-agnostic queries), writes (mutations of any shape) and dumps.
// Uses atomic operations for thread-safe updates without locks.
type Metrics struct {
	ReadCount  atomic.Uint64
	WriteCount atomic.Uint64
	DumpCount  atomic.Uint64

	// Cumulative latencies in nanoseconds
	ReadLatencyNs  atomic.Uint64
	WriteLatencyNs atomic.Uint64
	DumpLatencyNs  atomic.Uint64
}

// InstrumentedStore wraps any kv.Store implementation with timing metrics.
// This pattern works regardless of the backend behind the wrapped store.
type InstrumentedStore struct {
	store   kv.Store
	metrics *Metrics
}

// Compile-time check to ensure InstrumentedStore implements kv.Store.
var _ kv.Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps a store with instrumentation.
func NewInstrumentedStore(store kv.Store) *InstrumentedStore {
	return &InstrumentedStore{
		store:   store,
		metrics: &Metrics{},
	}
}

// observeRead records one shape-agnostic or shape-checked query.
func (s *InstrumentedStore) observeRead(start time.Time) {
	s.metrics.ReadCount.Add(1)
	s.metrics.ReadLatencyNs.Add(uint64(time.Since(start).Nanoseconds()))
}

// observeWrite records one mutation. With auto-dump enabled the measured
// latency includes the synchronous persistence cycle.
func (s *InstrumentedStore) observeWrite(start time.Time) {
	s.metrics.WriteCount.Add(1)
	s.metrics.WriteLatencyNs.Add(uint64(time.Since(start).Nanoseconds()))
}

// Set delegates to the wrapped store and records write timing.
func (s *InstrumentedStore) Set(key, value string) error {
	defer s.observeWrite(time.Now())
	return s.store.Set(key, value)
}

// Get delegates to the wrapped store and records read timing.
func (s *InstrumentedStore) Get(key string) (string, bool) {
	defer s.observeRead(time.Now())
	return s.store.Get(key)
}

func (s *InstrumentedStore) Exists(key string) bool {
	defer s.observeRead(time.Now())
	return s.store.Exists(key)
}

func (s *InstrumentedStore) Rem(key string) error {
	defer s.observeWrite(time.Now())
	return s.store.Rem(key)
}

func (s *InstrumentedStore) Append(key, more string) error {
	defer s.observeWrite(time.Now())
	return s.store.Append(key, more)
}

func (s *InstrumentedStore) GetAll() []string {
	defer s.observeRead(time.Now())
	return s.store.GetAll()
}

func (s *InstrumentedStore) TotalKeys() int {
	defer s.observeRead(time.Now())
	return s.store.TotalKeys()
}

func (s *InstrumentedStore) Clear() error {
	defer s.observeWrite(time.Now())
	return s.store.Clear()
}

func (s *InstrumentedStore) DelDB() error {
	defer s.observeWrite(time.Now())
	return s.store.DelDB()
}

func (s *InstrumentedStore) LCreate(key string) error {
	defer s.observeWrite(time.Now())
	return s.store.LCreate(key)
}

func (s *InstrumentedStore) LAdd(key, value string) error {
	defer s.observeWrite(time.Now())
	return s.store.LAdd(key, value)
}

func (s *InstrumentedStore) LExtend(key string, values []string) error {
	defer s.observeWrite(time.Now())
	return s.store.LExtend(key, values)
}

func (s *InstrumentedStore) LGetAll(key string) ([]string, error) {
	defer s.observeRead(time.Now())
	return s.store.LGetAll(key)
}

func (s *InstrumentedStore) LRange(key string, start, end int) ([]string, error) {
	defer s.observeRead(time.Now())
	return s.store.LRange(key, start, end)
}

func (s *InstrumentedStore) LPop(key string, index int) (string, error) {
	defer s.observeWrite(time.Now())
	return s.store.LPop(key, index)
}

func (s *InstrumentedStore) LRemValue(key, value string) error {
	defer s.observeWrite(time.Now())
	return s.store.LRemValue(key, value)
}

func (s *InstrumentedStore) LRemList(key string) error {
	defer s.observeWrite(time.Now())
	return s.store.LRemList(key)
}

func (s *InstrumentedStore) DCreate(key string) error {
	defer s.observeWrite(time.Now())
	return s.store.DCreate(key)
}

func (s *InstrumentedStore) DAdd(key, subkey, value string) error {
	defer s.observeWrite(time.Now())
	return s.store.DAdd(key, subkey, value)
}

func (s *InstrumentedStore) DGet(key, subkey string) (string, error) {
	defer s.observeRead(time.Now())
	return s.store.DGet(key, subkey)
}

func (s *InstrumentedStore) DGetAll(key string) (map[string]string, error) {
	defer s.observeRead(time.Now())
	return s.store.DGetAll(key)
}

func (s *InstrumentedStore) DPop(key, subkey string) (string, error) {
	defer s.observeWrite(time.Now())
	return s.store.DPop(key, subkey)
}

func (s *InstrumentedStore) DRem(key string) error {
	defer s.observeWrite(time.Now())
	return s.store.DRem(key)
}

func (s *InstrumentedStore) DExists(key, subkey string) (bool, error) {
	defer s.observeRead(time.Now())
	return s.store.DExists(key, subkey)
}

func (s *InstrumentedStore) DKeys(key string) ([]string, error) {
	defer s.observeRead(time.Now())
	return s.store.DKeys(key)
}

func (s *InstrumentedStore) DVals(key string) ([]string, error) {
	defer s.observeRead(time.Now())
	return s.store.DVals(key)
}

func (s *InstrumentedStore) DMerge(key1, key2 string) error {
	defer s.observeWrite(time.Now())
	return s.store.DMerge(key1, key2)
}

// Dump delegates to the wrapped store and records dump timing separately
// from reads and writes.
func (s *InstrumentedStore) Dump() error {
	start := time.Now()
	err := s.store.Dump()

	s.metrics.DumpCount.Add(1)
	s.metrics.DumpLatencyNs.Add(uint64(time.Since(start).Nanoseconds()))

	return err
}

// Close is not instrumented; it happens once per store lifetime.
func (s *InstrumentedStore) Close() error {
	return s.store.Close()
}

// GetMetrics returns a snapshot of current metrics.
func (s *InstrumentedStore) GetMetrics() MetricsSnapshot {
	readCount := s.metrics.ReadCount.Load()
	writeCount := s.metrics.WriteCount.Load()
	dumpCount := s.metrics.DumpCount.Load()

	return MetricsSnapshot{
		ReadCount:       readCount,
		WriteCount:      writeCount,
		DumpCount:       dumpCount,
		ReadAvgLatency:  s.avgLatency(s.metrics.ReadLatencyNs.Load(), readCount),
		WriteAvgLatency: s.avgLatency(s.metrics.WriteLatencyNs.Load(), writeCount),
		DumpAvgLatency:  s.avgLatency(s.metrics.DumpLatencyNs.Load(), dumpCount),
	}
}

// ResetMetrics clears all metrics counters.
func (s *InstrumentedStore) ResetMetrics() {
	s.metrics.ReadCount.Store(0)
	s.metrics.WriteCount.Store(0)
	s.metrics.DumpCount.Store(0)
	s.metrics.ReadLatencyNs.Store(0)
	s.metrics.WriteLatencyNs.Store(0)
	s.metrics.DumpLatencyNs.Store(0)
}

func (s *InstrumentedStore) avgLatency(totalNs, count uint64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(totalNs / count)
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	ReadCount       uint64
	WriteCount      uint64
	DumpCount       uint64
	ReadAvgLatency  time.Duration
	WriteAvgLatency time.Duration
	DumpAvgLatency  time.Duration
}
