// Package product builds aggregate object types holding one value per named
// component, together with their canonical projection morphisms and the
// universal constructor that factors a family of morphisms through the
// product.
package product

import (
	"errors"
	"fmt"

	"github.com/morphlab/morphic/morphism"
	"github.com/morphlab/morphic/object"
)

// Sentinel errors for product construction and its universal property.
var (
	// ErrNoComponents indicates a product defined without components.
	ErrNoComponents = errors.New("product: at least one component required")

	// ErrDuplicateComponent indicates two components sharing a name.
	ErrDuplicateComponent = errors.New("product: duplicate component name")

	// ErrUnknownComponent indicates a projection for a name the product
	// does not carry.
	ErrUnknownComponent = errors.New("product: unknown component")

	// ErrIndexOutOfRange indicates a projection index outside the
	// component list.
	ErrIndexOutOfRange = errors.New("product: projection index out of range")

	// ErrIncompleteUniversal indicates a universal constructor not given
	// exactly one morphism per component.
	ErrIncompleteUniversal = errors.New("product: universal needs exactly one morphism per component")

	// ErrSourceMismatch indicates universal morphisms not sharing the
	// declared common source.
	ErrSourceMismatch = errors.New("product: universal morphisms must share one source")
)

// Component names one slot of a product and the object its values belong to.
type Component struct {
	Name   string
	Object object.Object
}

// Product is an aggregate object type over an ordered list of named
// components. Immutable once built.
type Product struct {
	name       string
	components []Component
	index      map[string]int
	obj        object.Object
}

// New defines a product. At least one component is required and component
// names must be distinct.
func New(name string, components ...Component) (*Product, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoComponents, name)
	}
	index := make(map[string]int, len(components))
	for i, c := range components {
		if _, dup := index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateComponent, name, c.Name)
		}
		index[c.Name] = i
	}
	return &Product{
		name:       name,
		components: append([]Component(nil), components...),
		index:      index,
		obj:        object.Of(name),
	}, nil
}

// Object returns the object identifying the product type itself.
func (p *Product) Object() object.Object {
	return p.obj
}

// Components returns the ordered component list.
func (p *Product) Components() []Component {
	return append([]Component(nil), p.components...)
}

// Value is one inhabitant of a product type: one value per component.
type Value struct {
	fields map[string]any
}

// Get returns the stored value for the named component.
func (v Value) Get(name string) (any, bool) {
	x, ok := v.fields[name]
	return x, ok
}

// ValueOf assembles a product value from one entry per component, rejecting
// missing or extraneous names.
func (p *Product) ValueOf(fields map[string]any) (Value, error) {
	if len(fields) != len(p.components) {
		return Value{}, fmt.Errorf("%w: %s has %d components, got %d values",
			ErrIncompleteUniversal, p.name, len(p.components), len(fields))
	}
	stored := make(map[string]any, len(fields))
	for name, x := range fields {
		if _, ok := p.index[name]; !ok {
			return Value{}, fmt.Errorf("%w: %s.%s", ErrUnknownComponent, p.name, name)
		}
		stored[name] = x
	}
	return Value{fields: stored}, nil
}

// Project returns the morphism Product→Component reading the stored field
// for the named component. The caller owns the result.
func (p *Product) Project(name string) (morphism.Dyn, error) {
	i, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownComponent, p.name, name)
	}
	return p.projectAt(i)
}

// ProjectAt is Project by position in the component order.
func (p *Product) ProjectAt(i int) (morphism.Dyn, error) {
	if i < 0 || i >= len(p.components) {
		return nil, fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, p.name, i)
	}
	return p.projectAt(i)
}

func (p *Product) projectAt(i int) (morphism.Dyn, error) {
	comp := p.components[i]
	return morphism.NewFunc(
		fmt.Sprintf("project(%s.%s)", p.name, comp.Name),
		p.obj,
		comp.Object,
		func(x any) (any, error) {
			v, err := morphism.As[Value](x)
			if err != nil {
				return nil, err
			}
			field, ok := v.fields[comp.Name]
			if !ok {
				return nil, fmt.Errorf("%w: value lacks component %s.%s",
					morphism.ErrInputType, p.name, comp.Name)
			}
			return field, nil
		},
	)
}

// Universal factors a family of morphisms through the product: given exactly
// one morphism per component, all sharing the source object, it returns the
// morphism source→Product that evaluates each component morphism
// independently and assembles the result.
//
// Ownership of every morphism in ms transfers into the result on success
// only; on any failure the callers keep their handles.
func (p *Product) Universal(source object.Object, ms map[string]morphism.Dyn) (morphism.Dyn, error) {
	if len(ms) != len(p.components) {
		return nil, fmt.Errorf("%w: %s has %d components, got %d morphisms",
			ErrIncompleteUniversal, p.name, len(p.components), len(ms))
	}
	owned := make([]morphism.Dyn, len(p.components))
	for i, comp := range p.components {
		m, ok := ms[comp.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s.%s", ErrIncompleteUniversal, p.name, comp.Name)
		}
		if m == nil {
			return nil, fmt.Errorf("%w: %s.%s", morphism.ErrNilMorphism, p.name, comp.Name)
		}
		if m.Source() != source {
			return nil, fmt.Errorf("%w: %s maps from %s, expected %s",
				ErrSourceMismatch, m.Name(), m.Source(), source)
		}
		if m.Target() != comp.Object {
			return nil, fmt.Errorf("%w: %s targets %s, component %s.%s expects %s",
				morphism.ErrEndpointMismatch, m.Name(), m.Target(), p.name, comp.Name, comp.Object)
		}
		owned[i] = m
	}
	components := p.components
	return morphism.NewAggregate(
		fmt.Sprintf("universal(%s)", p.name),
		source,
		p.obj,
		owned,
		func(call func(morphism.Dyn, any) (any, error), x any) (any, error) {
			fields := make(map[string]any, len(components))
			for i, comp := range components {
				y, err := call(owned[i], x)
				if err != nil {
					return nil, fmt.Errorf("universal(%s).%s: %w", p.name, comp.Name, err)
				}
				fields[comp.Name] = y
			}
			return Value{fields: fields}, nil
		},
	)
}
