package morphism_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morphlab/morphic/internal/alloctrack"
	"github.com/morphlab/morphic/morphism"
	"github.com/morphlab/morphic/object"
)

var intObj = object.Of("int")

func newIntStep(t *testing.T, name string, fn func(int) int) morphism.Dyn {
	t.Helper()
	d, err := morphism.NewFunc(name, intObj, intObj, func(x any) (any, error) {
		return fn(x.(int)), nil
	})
	require.NoError(t, err)
	return d
}

func TestNewFunc_Apply(t *testing.T) {
	double := newIntStep(t, "double", func(x int) int { return x * 2 })
	defer func() { require.NoError(t, double.Release()) }()

	got, err := double.Apply(21)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, intObj, double.Source())
	assert.Equal(t, intObj, double.Target())
	assert.False(t, double.IsIdentity())
	assert.NotEmpty(t, double.ID())
}

func TestComposeDyn_AppliesLeftToRight(t *testing.T) {
	before := alloctrack.Live()

	double := newIntStep(t, "double", func(x int) int { return x * 2 })
	addOne := newIntStep(t, "add_one", func(x int) int { return x + 1 })

	composed, err := morphism.ComposeDyn(double, addOne)
	require.NoError(t, err)

	got, err := composed.Apply(5)
	require.NoError(t, err)
	assert.Equal(t, 11, got)

	require.NoError(t, composed.Release())
	assert.Equal(t, before, alloctrack.Live(), "release must return every reservation")
}

func TestComposeDyn_EndpointMismatch(t *testing.T) {
	strObj := object.Of("string")
	f := newIntStep(t, "double", func(x int) int { return x * 2 })
	g, err := morphism.NewFunc("len", strObj, intObj, func(x any) (any, error) {
		return len(x.(string)), nil
	})
	require.NoError(t, err)

	_, err = morphism.ComposeDyn(f, g)
	require.ErrorIs(t, err, morphism.ErrEndpointMismatch)

	// A rejected composition consumes nothing.
	got, err := f.Apply(2)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
	require.NoError(t, f.Release())
	require.NoError(t, g.Release())
}

func TestComposeDyn_TransfersOwnership(t *testing.T) {
	f := newIntStep(t, "double", func(x int) int { return x * 2 })
	g := newIntStep(t, "add_one", func(x int) int { return x + 1 })

	composed, err := morphism.ComposeDyn(f, g)
	require.NoError(t, err)

	_, err = f.Apply(1)
	require.ErrorIs(t, err, morphism.ErrMoved)
	require.ErrorIs(t, f.Release(), morphism.ErrMoved)
	require.ErrorIs(t, g.Release(), morphism.ErrMoved)

	require.NoError(t, composed.Release())

	// The cascade released the constituents; they are gone, not moved.
	_, err = f.Apply(1)
	require.ErrorIs(t, err, morphism.ErrReleased)
	require.ErrorIs(t, composed.Release(), morphism.ErrReleased)
}

func TestComposeDyn_ReserveFailureConsumesNothing(t *testing.T) {
	before := alloctrack.Live()

	f := newIntStep(t, "double", func(x int) int { return x * 2 })
	g := newIntStep(t, "add_one", func(x int) int { return x + 1 })

	alloctrack.FailReserves(0, 1)
	_, err := morphism.ComposeDyn(f, g)
	require.ErrorIs(t, err, alloctrack.ErrExhausted)

	// Both operands remain valid and caller-owned.
	got, err := f.Apply(3)
	require.NoError(t, err)
	assert.Equal(t, 6, got)
	require.NoError(t, f.Release())
	require.NoError(t, g.Release())
	assert.Equal(t, before, alloctrack.Live())
}

func TestIdentityDyn_Behavior(t *testing.T) {
	id, err := morphism.IdentityDyn(intObj)
	require.NoError(t, err)
	defer func() { require.NoError(t, id.Release()) }()

	assert.True(t, id.IsIdentity())
	got, err := id.Apply(7)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestIdentityDyn_NeutralForComposition(t *testing.T) {
	for _, x := range []int{-3, 0, 12} {
		f := newIntStep(t, "triple", func(x int) int { return x * 3 })
		id, err := morphism.IdentityDyn(intObj)
		require.NoError(t, err)

		composed, err := morphism.ComposeDyn(id, f)
		require.NoError(t, err)
		got, err := composed.Apply(x)
		require.NoError(t, err)
		assert.Equal(t, x*3, got)
		require.NoError(t, composed.Release())
	}
}

func TestNewWithState_CapturedParameter(t *testing.T) {
	addN, err := morphism.NewWithState("add_n", intObj, intObj, 10,
		func(state, x any) (any, error) {
			return x.(int) + state.(int), nil
		})
	require.NoError(t, err)

	got, err := addN.Apply(32)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	require.NoError(t, addN.Release())
	require.ErrorIs(t, addN.Release(), morphism.ErrReleased)
}

func TestLift_BridgesStaticForm(t *testing.T) {
	double := morphism.New(func(x int) int { return x * 2 })
	d, err := morphism.Lift("double", intObj, intObj, double)
	require.NoError(t, err)
	defer func() { require.NoError(t, d.Release()) }()

	got, err := d.Apply(21)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = d.Apply("not an int")
	require.ErrorIs(t, err, morphism.ErrInputType)
}

func TestLift_PreservesIdentityMarker(t *testing.T) {
	d, err := morphism.Lift("id", intObj, intObj, morphism.Identity[int]())
	require.NoError(t, err)
	defer func() { require.NoError(t, d.Release()) }()

	assert.True(t, d.IsIdentity())
}

func TestComposeChainDyn_EmptyYieldsIdentity(t *testing.T) {
	chained, err := morphism.ComposeChainDyn(intObj)
	require.NoError(t, err)
	defer func() { require.NoError(t, chained.Release()) }()

	assert.True(t, chained.IsIdentity())
	got, err := chained.Apply(9)
	require.NoError(t, err)
	assert.Equal(t, 9, got)
}

func TestComposeChainDyn_SingletonUnchanged(t *testing.T) {
	f := newIntStep(t, "double", func(x int) int { return x * 2 })

	chained, err := morphism.ComposeChainDyn(intObj, f)
	require.NoError(t, err)
	assert.Equal(t, f.ID(), chained.ID(), "singleton chain must not wrap")
	require.NoError(t, chained.Release())
}

func TestComposeChainDyn_FoldsInOrder(t *testing.T) {
	before := alloctrack.Live()

	double := newIntStep(t, "double", func(x int) int { return x * 2 })
	addOne := newIntStep(t, "add_one", func(x int) int { return x + 1 })
	subThree := newIntStep(t, "subtract_three", func(x int) int { return x - 3 })

	chained, err := morphism.ComposeChainDyn(intObj, double, addOne, subThree)
	require.NoError(t, err)

	got, err := chained.Apply(5)
	require.NoError(t, err)
	assert.Equal(t, 8, got)

	require.NoError(t, chained.Release())
	assert.Equal(t, before, alloctrack.Live())
}

func TestComposeChainDyn_MidFoldFailure(t *testing.T) {
	before := alloctrack.Live()

	a := newIntStep(t, "a", func(x int) int { return x + 1 })
	b := newIntStep(t, "b", func(x int) int { return x + 2 })
	c := newIntStep(t, "c", func(x int) int { return x + 3 })

	// First fold step succeeds, second runs out of resources.
	alloctrack.FailReserves(1, 1)
	_, err := morphism.ComposeChainDyn(intObj, a, b, c)
	require.ErrorIs(t, err, alloctrack.ErrExhausted)

	// The consumed prefix was released; the tail stays with the caller.
	require.ErrorIs(t, a.Release(), morphism.ErrReleased)
	require.ErrorIs(t, b.Release(), morphism.ErrReleased)
	require.NoError(t, c.Release())
	assert.Equal(t, before, alloctrack.Live())
}

func TestComposeDyn_RejectsAliasedOperand(t *testing.T) {
	before := alloctrack.Live()

	f := newIntStep(t, "double", func(x int) int { return x * 2 })

	_, err := morphism.ComposeDyn(f, f)
	require.ErrorIs(t, err, morphism.ErrAliased)

	// The rejected handle is untouched and releases exactly once.
	got, err := f.Apply(4)
	require.NoError(t, err)
	assert.Equal(t, 8, got)
	require.NoError(t, f.Release())
	assert.Equal(t, before, alloctrack.Live())
}

func TestComposeChainDyn_AnchorMismatch(t *testing.T) {
	strObj := object.Of("string")

	f := newIntStep(t, "double", func(x int) int { return x * 2 })
	_, err := morphism.ComposeChainDyn(strObj, f)
	require.ErrorIs(t, err, morphism.ErrEndpointMismatch)

	itoa, err := morphism.NewFunc("itoa", intObj, strObj, func(x any) (any, error) {
		return "", nil
	})
	require.NoError(t, err)
	_, err = morphism.ComposeChainDyn(intObj, f, itoa)
	require.ErrorIs(t, err, morphism.ErrEndpointMismatch)

	// A rejected chain consumes nothing.
	require.NoError(t, f.Release())
	require.NoError(t, itoa.Release())
}

func TestReleasedHandle_Errors(t *testing.T) {
	f := newIntStep(t, "double", func(x int) int { return x * 2 })
	require.NoError(t, f.Release())

	_, err := f.Apply(1)
	require.ErrorIs(t, err, morphism.ErrReleased)
	require.ErrorIs(t, f.Release(), morphism.ErrReleased)
}

func TestComposeDyn_NilOperand(t *testing.T) {
	f := newIntStep(t, "double", func(x int) int { return x * 2 })
	defer func() { require.NoError(t, f.Release()) }()

	_, err := morphism.ComposeDyn(f, nil)
	require.ErrorIs(t, err, morphism.ErrNilMorphism)
}
