package morphism

import (
	"fmt"

	"github.com/morphlab/morphic/object"
)

// As asserts a dynamic apply result back to its static type. Returns
// ErrInputType when the runtime type differs.
func As[T any](x any) (T, error) {
	v, ok := x.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: expected %T, got %T", ErrInputType, zero, x)
	}
	return v, nil
}

// MustAs is the panic-on-failure variant of As. Use when the morphism's
// endpoints guarantee the type.
func MustAs[T any](x any) T {
	v, err := As[T](x)
	if err != nil {
		panic(err)
	}
	return v
}

// Lift bridges a static morphism into the dynamic form. The returned
// morphism asserts its input to A at apply time, failing with ErrInputType
// on a mismatch, and preserves the identity marker of m.
func Lift[A, B any](name string, src, dst object.Object, m Morphism[A, B]) (Dyn, error) {
	c, err := newCore(name, src, dst)
	if err != nil {
		return nil, err
	}
	c.identity = m.IsIdentity()
	return &funcDyn{
		dynCore: c,
		fn: func(x any) (any, error) {
			a, err := As[A](x)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return m.Apply(a), nil
		},
	}, nil
}
