// Package checkpointer implements Checkpointers, which periodically
// save data during an experiment
package checkpointer

import (
	ts "github.com/samuelfneumann/racetrack/timestep"
)

// Saveable is an object that can save itself to a file
type Saveable interface {
	SaveAs(filename string) error
}

// Checkpointer checkpoints/saves objects based on timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
