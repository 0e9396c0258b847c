package morphism_test

import (
	"strconv"
	"testing"

	"github.com/morphlab/morphic/morphism"
)

func TestCompose_AppliesLeftToRight(t *testing.T) {
	double := morphism.New(func(x int) int { return x * 2 })
	addOne := morphism.New(func(x int) int { return x + 1 })

	got := morphism.Compose(double, addOne).Apply(5)
	if got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
}

func TestCompose_AcrossTypes(t *testing.T) {
	length := morphism.New(func(s string) int { return len(s) })
	render := morphism.New(strconv.Itoa)

	got := morphism.Compose(length, render).Apply("hello")
	if got != "5" {
		t.Fatalf("expected %q, got %q", "5", got)
	}
}

func TestIdentity_NeutralForComposition(t *testing.T) {
	f := morphism.New(func(x int) int { return x*3 - 1 })

	for _, x := range []int{-7, 0, 1, 5, 41} {
		left := morphism.Compose(morphism.Identity[int](), f).Apply(x)
		right := morphism.Compose(f, morphism.Identity[int]()).Apply(x)
		want := f.Apply(x)
		if left != want {
			t.Fatalf("compose(id, f)(%d) = %d, want %d", x, left, want)
		}
		if right != want {
			t.Fatalf("compose(f, id)(%d) = %d, want %d", x, right, want)
		}
	}
}

func TestIdentity_Marker(t *testing.T) {
	if !morphism.Identity[int]().IsIdentity() {
		t.Fatal("Identity must carry the identity marker")
	}
	f := morphism.New(func(x int) int { return x })
	if f.IsIdentity() {
		t.Fatal("New must not carry the identity marker")
	}
	composed := morphism.Compose(morphism.Identity[int](), morphism.Identity[int]())
	if composed.IsIdentity() {
		t.Fatal("composition results are not identities, even of identities")
	}
}

func TestCompose_Associativity(t *testing.T) {
	f := morphism.New(func(x int) int { return x + 3 })
	g := morphism.New(func(x int) int { return x * 5 })
	h := morphism.New(strconv.Itoa)

	for _, x := range []int{-2, 0, 9, 100} {
		left := morphism.Compose(morphism.Compose(f, g), h).Apply(x)
		right := morphism.Compose(f, morphism.Compose(g, h)).Apply(x)
		if left != right {
			t.Fatalf("associativity broken at %d: %q vs %q", x, left, right)
		}
	}
}

func TestCompose3_MatchesNestedCompose(t *testing.T) {
	f := morphism.New(func(x int) int { return x + 3 })
	g := morphism.New(func(x int) int { return x * 5 })
	h := morphism.New(func(x int) int { return x - 7 })

	for _, x := range []int{-1, 0, 4} {
		want := morphism.Compose(morphism.Compose(f, g), h).Apply(x)
		if got := morphism.Compose3(f, g, h).Apply(x); got != want {
			t.Fatalf("Compose3(%d) = %d, want %d", x, got, want)
		}
	}
}

func TestChain_EmptyYieldsIdentity(t *testing.T) {
	chained := morphism.Chain[int]()
	if !chained.IsIdentity() {
		t.Fatal("empty chain must be the identity")
	}
	if got := chained.Apply(42); got != 42 {
		t.Fatalf("empty chain must return its input, got %d", got)
	}
}

func TestChain_SingletonUnchanged(t *testing.T) {
	f := morphism.New(func(x int) int { return x * 2 })
	if got := morphism.Chain(f).Apply(21); got != 42 {
		t.Fatalf("singleton chain changed behavior, got %d", got)
	}
}

func TestChain_FoldsInOrder(t *testing.T) {
	double := morphism.New(func(x int) int { return x * 2 })
	addOne := morphism.New(func(x int) int { return x + 1 })
	subThree := morphism.New(func(x int) int { return x - 3 })

	if got := morphism.Chain(double, addOne, subThree).Apply(5); got != 8 {
		t.Fatalf("expected ((5*2)+1)-3 = 8, got %d", got)
	}
}
