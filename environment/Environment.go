// Package environment outlines the interfaces and structs needed to
// implement concrete navigation environments
package environment

import (
	"github.com/samuelfneumann/racetrack/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines whether an episode should end on some TimeStep. If
// the episode should end, End modifies the TimeStep so that it is the
// last in the episode and records the reason for ending.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Environment implements a simulated environment, which includes a
// reward scheme to be optimized
type Environment interface {
	Reset() (timestep.TimeStep, error) // Resets between episodes
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	// LastTimeStep returns the last TimeStep that occurred in the
	// environment
	LastTimeStep() timestep.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
