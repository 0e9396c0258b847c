package morphism

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/morphlab/morphic/internal/alloctrack"
	"github.com/morphlab/morphic/logging"
	"github.com/morphlab/morphic/object"
)

// Dyn is the dynamic form: a runtime-assembled morphism behind an opaque
// owned context. Every Dyn has exactly one owning handle at any time; the
// owner must call Release exactly once. The interface is sealed: the known
// shapes are the function morphism, the stateful morphism, the dynamic
// identity, the composite produced by composition, and the aggregate
// produced by NewAggregate.
type Dyn interface {
	// ID returns the unique handle id, used in logs and errors.
	ID() string

	// Name returns the construction-time name.
	Name() string

	// Source returns the object the morphism maps from.
	Source() object.Object

	// Target returns the object the morphism maps to.
	Target() object.Object

	// IsIdentity reports whether the morphism carries the explicit
	// identity marker set by IdentityDyn.
	IsIdentity() bool

	// Apply invokes the morphism on x through its context. It fails with
	// ErrReleased after Release and with ErrMoved after an ownership
	// transfer.
	Apply(x any) (any, error)

	// Release frees the context exactly once, recursively releasing every
	// owned constituent. Only the current owner may call it.
	Release() error

	core() *dynCore
	applyRaw(x any) (any, error)
	releaseRaw()
}

// ApplyFunc is the untyped application function a dynamic morphism
// dispatches to.
type ApplyFunc func(x any) (any, error)

// dynCore is the lifecycle state every dynamic morphism shape embeds.
type dynCore struct {
	id       string
	name     string
	src, dst object.Object
	identity bool
	released bool
	moved    bool
}

func newCore(name string, src, dst object.Object) (*dynCore, error) {
	if err := alloctrack.Reserve(); err != nil {
		return nil, fmt.Errorf("morphism %q: %w", name, err)
	}
	return &dynCore{
		id:   uuid.New().String(),
		name: name,
		src:  src,
		dst:  dst,
	}, nil
}

func (c *dynCore) ID() string            { return c.id }
func (c *dynCore) Name() string          { return c.name }
func (c *dynCore) Source() object.Object { return c.src }
func (c *dynCore) Target() object.Object { return c.dst }
func (c *dynCore) IsIdentity() bool      { return c.identity }

func (c *dynCore) core() *dynCore { return c }

// usable rejects handles the caller no longer owns.
func (c *dynCore) usable() error {
	if c.released {
		return fmt.Errorf("%w: %s (%s)", ErrReleased, c.name, c.id)
	}
	if c.moved {
		return fmt.Errorf("%w: %s (%s)", ErrMoved, c.name, c.id)
	}
	return nil
}

func applyGuarded(d Dyn, x any) (any, error) {
	if err := d.core().usable(); err != nil {
		return nil, err
	}
	return d.applyRaw(x)
}

func releaseGuarded(d Dyn) error {
	c := d.core()
	if err := c.usable(); err != nil {
		return err
	}
	d.releaseRaw()
	logging.L().Debug("released dynamic morphism",
		zap.String("id", c.id),
		zap.String("name", c.name),
	)
	return nil
}

// funcDyn wraps a pure function behind a dynamic context.
type funcDyn struct {
	*dynCore
	fn ApplyFunc
}

// NewFunc constructs a dynamic morphism from src to dst dispatching to fn.
// The caller owns the result and must release it exactly once.
func NewFunc(name string, src, dst object.Object, fn ApplyFunc) (Dyn, error) {
	c, err := newCore(name, src, dst)
	if err != nil {
		return nil, err
	}
	return &funcDyn{dynCore: c, fn: fn}, nil
}

func (m *funcDyn) Apply(x any) (any, error) { return applyGuarded(m, x) }
func (m *funcDyn) Release() error           { return releaseGuarded(m) }

func (m *funcDyn) applyRaw(x any) (any, error) { return m.fn(x) }

func (m *funcDyn) releaseRaw() {
	m.released = true
	alloctrack.Return()
}

// statefulDyn carries an exclusively-owned boxed state alongside its
// function. The state is never shared; it is dropped on release.
type statefulDyn struct {
	*dynCore
	state any
	fn    func(state, x any) (any, error)
}

// NewWithState constructs a dynamic morphism whose apply receives the
// captured state. The morphism exclusively owns state from this call on.
func NewWithState(
	name string,
	src, dst object.Object,
	state any,
	fn func(state, x any) (any, error),
) (Dyn, error) {
	c, err := newCore(name, src, dst)
	if err != nil {
		return nil, err
	}
	return &statefulDyn{dynCore: c, state: state, fn: fn}, nil
}

func (m *statefulDyn) Apply(x any) (any, error) { return applyGuarded(m, x) }
func (m *statefulDyn) Release() error           { return releaseGuarded(m) }

func (m *statefulDyn) applyRaw(x any) (any, error) { return m.fn(m.state, x) }

func (m *statefulDyn) releaseRaw() {
	m.released = true
	m.state = nil
	alloctrack.Return()
}

// identityDyn is the trivial context returning its argument unchanged.
type identityDyn struct {
	*dynCore
}

// IdentityDyn returns the dynamic identity morphism of obj. It carries the
// explicit identity marker and follows the same release discipline as every
// other dynamic morphism.
func IdentityDyn(obj object.Object) (Dyn, error) {
	c, err := newCore(fmt.Sprintf("identity(%s)", obj.Name()), obj, obj)
	if err != nil {
		return nil, err
	}
	c.identity = true
	return &identityDyn{dynCore: c}, nil
}

func (m *identityDyn) Apply(x any) (any, error) { return applyGuarded(m, x) }
func (m *identityDyn) Release() error           { return releaseGuarded(m) }

func (m *identityDyn) applyRaw(x any) (any, error) { return x, nil }

func (m *identityDyn) releaseRaw() {
	m.released = true
	alloctrack.Return()
}
