package morphism

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/morphlab/morphic/internal/alloctrack"
	"github.com/morphlab/morphic/logging"
	"github.com/morphlab/morphic/object"
)

// compositeDyn owns its two constituents exclusively until released.
type compositeDyn struct {
	*dynCore
	first, second Dyn
}

// ComposeDyn combines f and g into a fresh composite applying f first, then
// g. It requires f.Target() == g.Source() and transfers exclusive ownership
// of both operands into the composite: the old handles fail with ErrMoved
// afterwards, and releasing the composite releases f, then g, then its own
// storage.
//
// On any failure (endpoint mismatch, an aliased operand, or resource
// exhaustion) nothing is consumed and both operands remain valid and owned
// by the caller. Passing the same handle twice fails with ErrAliased; a
// single owner cannot transfer one handle into two slots.
func ComposeDyn(f, g Dyn) (Dyn, error) {
	if f == nil || g == nil {
		return nil, fmt.Errorf("compose: %w", ErrNilMorphism)
	}
	if err := f.core().usable(); err != nil {
		return nil, fmt.Errorf("compose: first operand: %w", err)
	}
	if err := g.core().usable(); err != nil {
		return nil, fmt.Errorf("compose: second operand: %w", err)
	}
	return composeOwned(f, g)
}

// composeOwned builds the composite without re-checking ownership; callers
// either validated the operands (ComposeDyn) or already own them (pipeline
// fold). Operands are consumed only after the reservation succeeded.
func composeOwned(f, g Dyn) (Dyn, error) {
	if f.core() == g.core() {
		return nil, fmt.Errorf("%w: %s composed with itself", ErrAliased, f.Name())
	}
	if f.Target() != g.Source() {
		return nil, fmt.Errorf("%w: %s targets %s, %s expects %s",
			ErrEndpointMismatch,
			f.Name(), f.Target(), g.Name(), g.Source())
	}
	c, err := newCore(fmt.Sprintf("%s;%s", f.Name(), g.Name()), f.Source(), g.Target())
	if err != nil {
		return nil, err
	}
	f.core().moved = true
	g.core().moved = true
	logging.L().Debug("composed dynamic morphisms",
		zap.String("id", c.id),
		zap.String("first", f.ID()),
		zap.String("second", g.ID()),
	)
	return &compositeDyn{dynCore: c, first: f, second: g}, nil
}

func (m *compositeDyn) Apply(x any) (any, error) { return applyGuarded(m, x) }
func (m *compositeDyn) Release() error           { return releaseGuarded(m) }

func (m *compositeDyn) applyRaw(x any) (any, error) {
	y, err := m.first.applyRaw(x)
	if err != nil {
		return nil, err
	}
	return m.second.applyRaw(y)
}

func (m *compositeDyn) releaseRaw() {
	m.released = true
	m.first.releaseRaw()
	m.second.releaseRaw()
	alloctrack.Return()
}

// ComposeChainDyn folds ms left to right with ComposeDyn into a morphism
// from obj back to obj: the first morphism must map from obj and the last
// must map to obj. An empty sequence yields the dynamic identity of obj; a
// singleton yields that morphism unchanged, with no redundant wrapping.
//
// If composing fails mid-fold, the already-consumed prefix is released and
// the remaining operands stay owned by the caller.
func ComposeChainDyn(obj object.Object, ms ...Dyn) (Dyn, error) {
	if len(ms) == 0 {
		return IdentityDyn(obj)
	}
	first, last := ms[0], ms[len(ms)-1]
	if first == nil || last == nil {
		return nil, fmt.Errorf("compose chain: %w", ErrNilMorphism)
	}
	if first.Source() != obj {
		return nil, fmt.Errorf("%w: chain starts at %s, anchor object is %s",
			ErrEndpointMismatch, first.Source(), obj)
	}
	if last.Target() != obj {
		return nil, fmt.Errorf("%w: chain ends at %s, anchor object is %s",
			ErrEndpointMismatch, last.Target(), obj)
	}
	if len(ms) == 1 {
		if err := ms[0].core().usable(); err != nil {
			return nil, fmt.Errorf("compose chain: %w", err)
		}
		return ms[0], nil
	}
	acc := ms[0]
	for i, m := range ms[1:] {
		next, err := ComposeDyn(acc, m)
		if err != nil {
			if i > 0 {
				// acc is an intermediate composite this fold owns.
				acc.releaseRaw()
			}
			return nil, fmt.Errorf("compose chain at step %d: %w", i+1, err)
		}
		acc = next
	}
	return acc, nil
}

// aggregateDyn owns an arbitrary set of constituents; product and coproduct
// formers build their universal morphisms through it.
type aggregateDyn struct {
	*dynCore
	owned []Dyn
	fn    AggregateFunc
}

// AggregateFunc evaluates an aggregate morphism. call applies one of the
// owned constituents to a value; fn must not retain call past its return.
type AggregateFunc func(call func(Dyn, any) (any, error), x any) (any, error)

// NewAggregate builds a dynamic morphism from src to dst that exclusively
// owns every morphism in owned; releasing the aggregate releases each
// constituent exactly once, in order. Used by the product and coproduct
// formers for their universal morphisms.
//
// All constituents are validated before any ownership transfers: on failure
// every operand remains valid and owned by the caller.
func NewAggregate(
	name string,
	src, dst object.Object,
	owned []Dyn,
	fn AggregateFunc,
) (Dyn, error) {
	seen := make(map[*dynCore]struct{}, len(owned))
	for _, m := range owned {
		if m == nil {
			return nil, fmt.Errorf("aggregate %q: %w", name, ErrNilMorphism)
		}
		if err := m.core().usable(); err != nil {
			return nil, fmt.Errorf("aggregate %q: %w", name, err)
		}
		if _, dup := seen[m.core()]; dup {
			return nil, fmt.Errorf("aggregate %q: %w: %s", name, ErrAliased, m.Name())
		}
		seen[m.core()] = struct{}{}
	}
	c, err := newCore(name, src, dst)
	if err != nil {
		return nil, err
	}
	for _, m := range owned {
		m.core().moved = true
	}
	logging.L().Debug("assembled aggregate morphism",
		zap.String("id", c.id),
		zap.String("name", name),
		zap.Int("constituents", len(owned)),
	)
	return &aggregateDyn{dynCore: c, owned: owned, fn: fn}, nil
}

func (m *aggregateDyn) Apply(x any) (any, error) { return applyGuarded(m, x) }
func (m *aggregateDyn) Release() error           { return releaseGuarded(m) }

func (m *aggregateDyn) applyRaw(x any) (any, error) {
	return m.fn(func(d Dyn, v any) (any, error) { return d.applyRaw(v) }, x)
}

func (m *aggregateDyn) releaseRaw() {
	m.released = true
	for _, d := range m.owned {
		d.releaseRaw()
	}
	alloctrack.Return()
}
