// Package policy implements non-learning policies for the racetrack
// environments: uniform random actions, a scripted seek heuristic, and
// manual control from an external input source.
package policy

import (
	"github.com/samuelfneumann/racetrack/timestep"
	"gonum.org/v1/gonum/mat"
)

// Policy represents a policy that an agent can have. Policies select
// 2-dimensional continuous actions in [-1, 1] from TimeSteps.
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
}
