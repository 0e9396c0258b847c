package morphism

// Morphism is the static form: a pure mapping from A to B, fully determined
// at construction. The zero Morphism is invalid; construct with New or
// Identity.
type Morphism[A, B any] struct {
	fn       func(A) B
	identity bool
}

// New wraps a pure function as a static morphism.
func New[A, B any](fn func(A) B) Morphism[A, B] {
	return Morphism[A, B]{fn: fn}
}

// Identity returns the morphism A→A that returns its argument unchanged.
// The result carries an explicit identity marker; it is the two-sided
// neutral element for composition.
func Identity[A any]() Morphism[A, A] {
	return Morphism[A, A]{
		fn:       func(x A) A { return x },
		identity: true,
	}
}

// Apply invokes the morphism on x.
func (m Morphism[A, B]) Apply(x A) B {
	return m.fn(x)
}

// IsIdentity reports whether m was constructed by Identity.
func (m Morphism[A, B]) IsIdentity() bool {
	return m.identity
}

// Compose combines f: A→B and g: B→C into the morphism A→C that applies f
// first and feeds the result to g. A mismatched pair does not compile.
func Compose[A, B, C any](f Morphism[A, B], g Morphism[B, C]) Morphism[A, C] {
	return Morphism[A, C]{
		fn: func(x A) C { return g.fn(f.fn(x)) },
	}
}

// Compose3 is the three-morphism convenience arity of Compose.
func Compose3[A, B, C, D any](
	f Morphism[A, B],
	g Morphism[B, C],
	h Morphism[C, D],
) Morphism[A, D] {
	return Compose(Compose(f, g), h)
}

// Chain folds endomorphisms on A left to right. An empty chain yields
// Identity; a singleton yields that morphism unchanged.
func Chain[A any](ms ...Morphism[A, A]) Morphism[A, A] {
	switch len(ms) {
	case 0:
		return Identity[A]()
	case 1:
		return ms[0]
	}
	out := ms[0]
	for _, m := range ms[1:] {
		out = Compose(out, m)
	}
	return out
}
