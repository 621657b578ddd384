package pipeline

import (
	"fmt"
	"time"
)

// Phase is one step of a run.
type Phase interface {
	Name() string
	Run(ctx *Context) error
}

// Pipeline is an ordered list of phases.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline running phases in order.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes the phases sequentially and stops at the first failure.
// Phase errors are wrapped with %w so typed errors stay matchable.
func (p *Pipeline) Run(ctx *Context) error {
	start := time.Now()

	for _, phase := range p.Phases {
		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name())

		err := phase.Run(ctx)
		elapsed := time.Since(phaseStart)
		if ctx.Metrics != nil {
			ctx.Metrics.ObservePhase(phase.Name(), elapsed)
		}
		if err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, phase.Name(), elapsed)
	}

	ctx.Log.V(1).Info("pipeline completed", "phases", len(p.Phases), "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
