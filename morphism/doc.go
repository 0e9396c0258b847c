// Package morphism implements the composition engine: structure-preserving
// mappings between objects, in two calling conventions behind one contract.
//
// # Static morphisms
//
// Morphism[A, B] wraps a pure function. Endpoint compatibility is carried in
// the type parameters, so composing a mismatched pair is a compile error, not
// a runtime check. Static morphisms have value semantics: no allocation
// beyond the closure, no cleanup obligation, freely copyable.
//
//	double := morphism.New(func(x int) int { return x * 2 })
//	addOne := morphism.New(func(x int) int { return x + 1 })
//	eleven := morphism.Compose(double, addOne).Apply(5) // 11
//
// # Dynamic morphisms
//
// Dyn is the runtime-assembled form: an opaque owned context behind a sealed
// interface. Dynamic morphisms carry runtime Source/Target objects, compose
// with runtime endpoint validation, and must be released exactly once by
// their current owner.
//
// Ownership is move semantics, never aliasing:
//
//   - ComposeDyn transfers ownership of both operands into the composite;
//     the old handles fail with ErrMoved afterwards.
//   - Releasing a composite recursively releases its constituents, each
//     exactly once.
//   - On any construction failure nothing is consumed and nothing leaks.
//
// Composition applies left to right: Compose(f, g) and ComposeDyn(f, g) run
// f first and feed its result to g (mathematical g∘f). Every compose call
// produces a fresh result; the engine never memoizes.
//
// A Pipeline holds an ordered sequence of dynamic endomorphisms on one
// object, executes them without allocating intermediates, and can fold them
// into a single owned morphism.
package morphism
