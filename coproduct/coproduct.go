// Package coproduct builds tagged-choice object types holding exactly one
// active named variant, together with their canonical injection morphisms
// and the universal constructor that dispatches a family of morphisms over
// the active tag.
package coproduct

import (
	"errors"
	"fmt"

	"github.com/morphlab/morphic/morphism"
	"github.com/morphlab/morphic/object"
)

// Sentinel errors for coproduct construction and its universal property.
var (
	// ErrNoVariants indicates a coproduct defined without variants.
	ErrNoVariants = errors.New("coproduct: at least one variant required")

	// ErrDuplicateVariant indicates two variants sharing a name.
	ErrDuplicateVariant = errors.New("coproduct: duplicate variant name")

	// ErrUnknownVariant indicates an injection for a name the coproduct
	// does not carry.
	ErrUnknownVariant = errors.New("coproduct: unknown variant")

	// ErrIncompleteUniversal indicates a universal constructor not given
	// exactly one morphism per variant.
	ErrIncompleteUniversal = errors.New("coproduct: universal needs exactly one morphism per variant")

	// ErrTargetMismatch indicates universal morphisms not sharing the
	// declared common target.
	ErrTargetMismatch = errors.New("coproduct: universal morphisms must share one target")
)

// Variant names one alternative of a coproduct and the object its values
// belong to.
type Variant struct {
	Name   string
	Object object.Object
}

// Coproduct is a tagged-choice object type over an ordered list of named
// variants. Immutable once built.
type Coproduct struct {
	name     string
	variants []Variant
	index    map[string]int
	obj      object.Object
}

// New defines a coproduct. At least one variant is required and variant
// names must be distinct.
func New(name string, variants ...Variant) (*Coproduct, error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoVariants, name)
	}
	index := make(map[string]int, len(variants))
	for i, v := range variants {
		if _, dup := index[v.Name]; dup {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateVariant, name, v.Name)
		}
		index[v.Name] = i
	}
	return &Coproduct{
		name:     name,
		variants: append([]Variant(nil), variants...),
		index:    index,
		obj:      object.Of(name),
	}, nil
}

// Object returns the object identifying the coproduct type itself.
func (c *Coproduct) Object() object.Object {
	return c.obj
}

// Variants returns the ordered variant list.
func (c *Coproduct) Variants() []Variant {
	return append([]Variant(nil), c.variants...)
}

// Value is one inhabitant of a coproduct type: a payload tagged with its
// active variant.
type Value struct {
	variant string
	payload any
}

// Variant returns the active variant name.
func (v Value) Variant() string {
	return v.variant
}

// Payload returns the held value.
func (v Value) Payload() any {
	return v.payload
}

// Inject returns the morphism Variant→Coproduct tagging a value as the
// named variant. The caller owns the result.
func (c *Coproduct) Inject(name string) (morphism.Dyn, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownVariant, c.name, name)
	}
	variant := c.variants[i]
	return morphism.NewFunc(
		fmt.Sprintf("inject(%s.%s)", c.name, variant.Name),
		variant.Object,
		c.obj,
		func(x any) (any, error) {
			return Value{variant: variant.Name, payload: x}, nil
		},
	)
}

// Universal factors a family of morphisms out of the coproduct: given
// exactly one morphism per variant, all sharing the target object, it
// returns the morphism Coproduct→target that inspects the active tag and
// dispatches to the matching morphism.
//
// Ownership of every morphism in ms transfers into the result on success
// only; on any failure the callers keep their handles. Dispatch on a tag
// outside the variant set panics: under construction discipline the tag is
// unreachable, so it signals a corrupted value, not a recoverable state.
func (c *Coproduct) Universal(target object.Object, ms map[string]morphism.Dyn) (morphism.Dyn, error) {
	if len(ms) != len(c.variants) {
		return nil, fmt.Errorf("%w: %s has %d variants, got %d morphisms",
			ErrIncompleteUniversal, c.name, len(c.variants), len(ms))
	}
	owned := make([]morphism.Dyn, len(c.variants))
	for i, v := range c.variants {
		m, ok := ms[v.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s.%s", ErrIncompleteUniversal, c.name, v.Name)
		}
		if m == nil {
			return nil, fmt.Errorf("%w: %s.%s", morphism.ErrNilMorphism, c.name, v.Name)
		}
		if m.Target() != target {
			return nil, fmt.Errorf("%w: %s targets %s, expected %s",
				ErrTargetMismatch, m.Name(), m.Target(), target)
		}
		if m.Source() != v.Object {
			return nil, fmt.Errorf("%w: %s maps from %s, variant %s.%s holds %s",
				morphism.ErrEndpointMismatch, m.Name(), m.Source(), c.name, v.Name, v.Object)
		}
		owned[i] = m
	}
	index := c.index
	return morphism.NewAggregate(
		fmt.Sprintf("universal(%s)", c.name),
		c.obj,
		target,
		owned,
		func(call func(morphism.Dyn, any) (any, error), x any) (any, error) {
			v, err := morphism.As[Value](x)
			if err != nil {
				return nil, err
			}
			i, ok := index[v.variant]
			if !ok {
				panic(fmt.Sprintf("coproduct %s: corrupted tag %q", c.name, v.variant))
			}
			return call(owned[i], v.payload)
		},
	)
}
