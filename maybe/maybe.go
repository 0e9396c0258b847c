// Package maybe provides the optional container functor: a value that is
// either present or absent, with a map that transforms present values and
// leaves absent ones untouched. It is the one functor instance whose law
// compliance is checked against concrete runtime data, not just structure.
package maybe

import (
	"fmt"

	"github.com/morphlab/morphic/morphism"
)

// Maybe holds either a present value of T or nothing. The zero Maybe is
// absent.
type Maybe[T any] struct {
	value   T
	present bool
}

// Present wraps v as a present value.
func Present[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, present: true}
}

// Absent returns the empty Maybe of T.
func Absent[T any]() Maybe[T] {
	return Maybe[T]{}
}

// IsPresent reports whether m holds a value.
func (m Maybe[T]) IsPresent() bool {
	return m.present
}

// Get returns the held value and whether one is present.
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.present
}

// MustGet returns the held value, panicking when absent.
func (m Maybe[T]) MustGet() T {
	if !m.present {
		panic("maybe: MustGet on absent value")
	}
	return m.value
}

// String implements fmt.Stringer.
func (m Maybe[T]) String() string {
	if !m.present {
		return "absent"
	}
	return fmt.Sprintf("present(%v)", m.value)
}

// Map transforms present(x) to present(f(x)) and passes absent through
// unchanged.
func Map[A, B any](m Maybe[A], f morphism.Morphism[A, B]) Maybe[B] {
	if !m.present {
		return Absent[B]()
	}
	return Present(f.Apply(m.value))
}
