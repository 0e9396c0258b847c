// Package functor maps the objects and morphisms of one domain into another
// while preserving identity and composition. The laws are test-verified
// properties, not something the runtime proves.
package functor

import (
	"fmt"

	"github.com/morphlab/morphic/morphism"
	"github.com/morphlab/morphic/object"
)

// Functor is a pair of mappings: a pure object map and a morphism map
// sending f: A→B to a morphism MapObject(A)→MapObject(B).
//
// MapMorphism consumes its argument: on success, ownership moves into the
// returned morphism (or the argument is released outright, for functors
// that discard it). If mapping fails past validation, anything already
// absorbed is released; the handle must not be reused after that.
type Functor interface {
	MapObject(o object.Object) object.Object
	MapMorphism(m morphism.Dyn) (morphism.Dyn, error)
}

// Identity returns the functor mapping every object and morphism to itself.
func Identity() Functor {
	return identityFunctor{}
}

type identityFunctor struct{}

func (identityFunctor) MapObject(o object.Object) object.Object {
	return o
}

func (identityFunctor) MapMorphism(m morphism.Dyn) (morphism.Dyn, error) {
	if m == nil {
		return nil, fmt.Errorf("identity functor: %w", morphism.ErrNilMorphism)
	}
	return m, nil
}

// Constant returns the functor mapping every object to k and every morphism
// to the dynamic identity of k. The argument morphism is released, since
// nothing in the image refers to it.
func Constant(k object.Object) Functor {
	return constantFunctor{k: k}
}

type constantFunctor struct {
	k object.Object
}

func (f constantFunctor) MapObject(object.Object) object.Object {
	return f.k
}

func (f constantFunctor) MapMorphism(m morphism.Dyn) (morphism.Dyn, error) {
	if m == nil {
		return nil, fmt.Errorf("constant functor: %w", morphism.ErrNilMorphism)
	}
	id, err := morphism.IdentityDyn(f.k)
	if err != nil {
		return nil, err
	}
	if err := m.Release(); err != nil {
		// The input was not ours to keep; surface the misuse instead of
		// handing back an image of a dead morphism.
		relErr := id.Release()
		if relErr != nil {
			return nil, fmt.Errorf("constant functor: %w (and releasing image: %v)", err, relErr)
		}
		return nil, fmt.Errorf("constant functor: %w", err)
	}
	return id, nil
}

// Composed returns the functor G∘F: objects map through f then g, morphisms
// likewise. Composition of functors is associative and has Identity as its
// two-sided neutral element.
func Composed(g, f Functor) Functor {
	return composedFunctor{outer: g, inner: f}
}

type composedFunctor struct {
	outer, inner Functor
}

func (c composedFunctor) MapObject(o object.Object) object.Object {
	return c.outer.MapObject(c.inner.MapObject(o))
}

func (c composedFunctor) MapMorphism(m morphism.Dyn) (morphism.Dyn, error) {
	inner, err := c.inner.MapMorphism(m)
	if err != nil {
		return nil, fmt.Errorf("composed functor, inner: %w", err)
	}
	out, err := c.outer.MapMorphism(inner)
	if err != nil {
		// inner is ours now; do not leak it on the outer failure.
		if relErr := inner.Release(); relErr != nil {
			return nil, fmt.Errorf("composed functor, outer: %w (and releasing intermediate: %v)", err, relErr)
		}
		return nil, fmt.Errorf("composed functor, outer: %w", err)
	}
	return out, nil
}
