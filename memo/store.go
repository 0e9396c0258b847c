package memo

import (
	ristretto "github.com/dgraph-io/ristretto/v2"
)

// Bounded is a two-generation map store. When the live generation fills up,
// it becomes the fallback generation and a fresh one takes over; lookups
// check both. Entries older than two generations are gone, which bounds
// memory at roughly twice maxSize entries without per-entry bookkeeping.
//
// Not safe for concurrent use; the library is synchronous throughout.
type Bounded[K comparable, V any] struct {
	gens    [2]map[K]V
	head    int
	size    uint32
	maxSize uint32
}

// NewBounded returns a Bounded store rotating at maxSize entries per
// generation. Panics when maxSize is zero.
func NewBounded[K comparable, V any](maxSize uint32) *Bounded[K, V] {
	if maxSize == 0 {
		panic("memo: maxSize should be greater than 0")
	}
	return &Bounded[K, V]{
		gens:    [2]map[K]V{make(map[K]V), make(map[K]V)},
		maxSize: maxSize,
	}
}

// Load reads key from the live generation, falling back to the previous one.
func (b *Bounded[K, V]) Load(key K) (V, bool) {
	if v, ok := b.gens[b.head][key]; ok {
		return v, true
	}
	v, ok := b.gens[1-b.head][key]
	return v, ok
}

// Store writes key into the live generation, rotating generations when a
// new key would exceed maxSize. Overwrites do not advance rotation.
func (b *Bounded[K, V]) Store(key K, value V) {
	if _, ok := b.gens[b.head][key]; ok {
		b.gens[b.head][key] = value
		return
	}
	if b.size == b.maxSize {
		b.head = 1 - b.head
		b.gens[b.head] = make(map[K]V)
		b.size = 0
	}
	b.gens[b.head][key] = value
	b.size++
}

// Ristretto adapts a ristretto cache to the Store interface.
type Ristretto[K ristretto.Key, V any] struct {
	cache *ristretto.Cache[K, V]
}

// NewRistretto returns a ristretto-backed store admitting roughly maxEntries
// unit-cost entries.
func NewRistretto[K ristretto.Key, V any](maxEntries int64) (*Ristretto[K, V], error) {
	cache, err := ristretto.NewCache(&ristretto.Config[K, V]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto[K, V]{cache: cache}, nil
}

// Load reads key from the cache.
func (r *Ristretto[K, V]) Load(key K) (V, bool) {
	return r.cache.Get(key)
}

// Store admits key at unit cost. Admission is asynchronous; a rejected or
// not-yet-visible entry just recomputes on the next miss.
func (r *Ristretto[K, V]) Store(key K, value V) {
	r.cache.Set(key, value, 1)
}

// Wait blocks until pending admissions are applied. Useful in tests.
func (r *Ristretto[K, V]) Wait() {
	r.cache.Wait()
}

// Close releases the cache's internal resources.
func (r *Ristretto[K, V]) Close() {
	r.cache.Close()
}
