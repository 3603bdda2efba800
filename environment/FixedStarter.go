package environment

import "gonum.org/v1/gonum/mat"

// FixedStarter always starts episodes in the same state.
type FixedStarter struct {
	state *mat.VecDense
}

// NewFixedStarter returns a Starter which always returns the argument
// point as the starting state
func NewFixedStarter(point ...float64) *FixedStarter {
	if len(point) == 0 {
		panic("newFixedStarter: point must have at least one feature")
	}
	state := make([]float64, len(point))
	copy(state, point)

	return &FixedStarter{mat.NewVecDense(len(state), state)}
}

// Start returns a copy of the fixed starting state
func (f *FixedStarter) Start() mat.Vector {
	return mat.VecDenseCopyOf(f.state)
}
