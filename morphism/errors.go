package morphism

import "errors"

// Sentinel errors for the composition engine. Callers branch with errors.Is;
// call sites wrap these with context via %w.
var (
	// ErrReleased indicates a dynamic morphism or pipeline was used after
	// its release.
	ErrReleased = errors.New("morphism: use after release")

	// ErrMoved indicates a handle was used after its ownership transferred
	// into a composite, pipeline, or aggregate.
	ErrMoved = errors.New("morphism: ownership transferred")

	// ErrEndpointMismatch indicates a composition whose first target and
	// second source differ.
	ErrEndpointMismatch = errors.New("morphism: target/source mismatch")

	// ErrAliased indicates one handle passed as two operands of a single
	// ownership transfer.
	ErrAliased = errors.New("morphism: aliased operand")

	// ErrInputType indicates a dynamic apply received a value whose runtime
	// type does not match the morphism's source object.
	ErrInputType = errors.New("morphism: input type mismatch")

	// ErrEmptyPipeline indicates ToMorphism on a pipeline that never
	// received a step.
	ErrEmptyPipeline = errors.New("morphism: empty pipeline")

	// ErrStepMismatch indicates a pipeline step whose endpoints differ from
	// the pipeline's object.
	ErrStepMismatch = errors.New("morphism: step endpoints differ from pipeline object")

	// ErrNilMorphism indicates a nil dynamic morphism handle.
	ErrNilMorphism = errors.New("morphism: nil morphism")
)
