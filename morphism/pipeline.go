package morphism

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/morphlab/morphic/logging"
	"github.com/morphlab/morphic/object"
)

// Pipeline is an ordered, mutable sequence of dynamic endomorphisms on one
// object. The pipeline owns every appended step until the steps are folded
// into one morphism or the pipeline is released.
type Pipeline struct {
	obj      object.Object
	steps    []Dyn
	released bool
}

// NewPipeline returns an empty pipeline over obj.
func NewPipeline(obj object.Object) *Pipeline {
	return &Pipeline{obj: obj}
}

// Object returns the object every step must map to and from.
func (p *Pipeline) Object() object.Object {
	return p.obj
}

// Len returns the number of steps the pipeline currently holds.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// AddStep appends m, transferring ownership to the pipeline. Both endpoints
// of m must equal the pipeline's object.
func (p *Pipeline) AddStep(m Dyn) error {
	if p.released {
		return fmt.Errorf("pipeline: %w", ErrReleased)
	}
	if m == nil {
		return fmt.Errorf("pipeline: %w", ErrNilMorphism)
	}
	if err := m.core().usable(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if m.Source() != p.obj || m.Target() != p.obj {
		return fmt.Errorf("%w: %s maps %s to %s, pipeline object is %s",
			ErrStepMismatch, m.Name(), m.Source(), m.Target(), p.obj)
	}
	m.core().moved = true
	p.steps = append(p.steps, m)
	return nil
}

// Execute applies every step in insertion order, allocating no intermediate
// morphisms. An empty pipeline returns x unchanged.
func (p *Pipeline) Execute(x any) (any, error) {
	if p.released {
		return nil, fmt.Errorf("pipeline: %w", ErrReleased)
	}
	v := x
	for _, s := range p.steps {
		y, err := s.applyRaw(v)
		if err != nil {
			return nil, fmt.Errorf("pipeline step %s: %w", s.Name(), err)
		}
		v = y
	}
	return v, nil
}

// ToMorphism folds every step into one owned morphism, consuming the
// pipeline's ownership of each. A pipeline that never received a step fails
// with ErrEmptyPipeline; a single step is returned unchanged.
//
// If folding fails mid-way, the already-folded prefix is released and the
// pipeline keeps ownership of the remaining steps.
func (p *Pipeline) ToMorphism() (Dyn, error) {
	if p.released {
		return nil, fmt.Errorf("pipeline: %w", ErrReleased)
	}
	n := len(p.steps)
	if n == 0 {
		return nil, ErrEmptyPipeline
	}
	if n == 1 {
		step := p.steps[0]
		p.steps = nil
		step.core().moved = false
		return step, nil
	}
	acc := p.steps[0]
	for i := 1; i < n; i++ {
		next, err := composeOwned(acc, p.steps[i])
		if err != nil {
			if i > 1 {
				// acc is an intermediate composite holding steps
				// 0..i-1; release it, keep the unfolded tail.
				acc.releaseRaw()
				p.steps = p.steps[i:]
			}
			return nil, fmt.Errorf("pipeline fold at step %d: %w", i, err)
		}
		acc = next
	}
	p.steps = nil
	logging.L().Debug("folded pipeline",
		zap.String("object", p.obj.Name()),
		zap.Int("steps", n),
		zap.String("result", acc.ID()),
	)
	return acc, nil
}

// Release frees every still-held step exactly once. The pipeline is unusable
// afterwards.
func (p *Pipeline) Release() error {
	if p.released {
		return fmt.Errorf("pipeline: %w", ErrReleased)
	}
	p.released = true
	for _, s := range p.steps {
		s.releaseRaw()
	}
	p.steps = nil
	return nil
}
