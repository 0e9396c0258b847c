// Package memo provides opt-in memoization decorators for static morphisms.
// Composition never memoizes; wrapping a morphism here is an explicit claim
// that it is pure, not merely deterministic.
//
// Two store backends are provided: a bounded two-generation map store and a
// ristretto cache for larger working sets.
package memo

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/morphlab/morphic/morphism"
)

// Store is the cache a memoized morphism reads through.
type Store[K comparable, V any] interface {
	Load(key K) (V, bool)
	Store(key K, value V)
}

// Memoize wraps m so repeated applications on the same input hit the store.
// m must be pure; a stateful or effectful morphism memoized here will
// silently replay stale results.
func Memoize[A comparable, B any](m morphism.Morphism[A, B], s Store[A, B]) morphism.Morphism[A, B] {
	return morphism.New(func(x A) B {
		if v, ok := s.Load(x); ok {
			return v
		}
		v := m.Apply(x)
		s.Store(x, v)
		return v
	})
}

// MemoizeStringer memoizes m keyed by the xxhash of the input's string
// form, for inputs that are not comparable but render stably. Distinct
// inputs with equal string forms share a cache slot.
func MemoizeStringer[A fmt.Stringer, B any](m morphism.Morphism[A, B], s Store[uint64, B]) morphism.Morphism[A, B] {
	return morphism.New(func(x A) B {
		key := xxhash.Sum64String(x.String())
		if v, ok := s.Load(key); ok {
			return v
		}
		v := m.Apply(x)
		s.Store(key, v)
		return v
	})
}
