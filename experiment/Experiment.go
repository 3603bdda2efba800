// Package experiment implements functionality for running policies on
// environments and tracking the data they generate
package experiment

import (
	"context"
	"fmt"

	ts "github.com/samuelfneumann/racetrack/timestep"
)

// Experiment outlines structs that can run experiments. The Run()
// method runs all episodes until the maximum timestep limit is
// reached. The RunEpisode() function runs a single episode and returns
// whether the limit has been reached. Save() saves all tracked data to
// disk.
type Experiment interface {
	Run(ctx context.Context) error
	RunEpisode() (bool, error)
	Save() error
}

// Summary summarizes a single finished episode
type Summary struct {
	Episode int
	Steps   int
	Return  float64
	End     ts.EndType
}

func (s Summary) String() string {
	return fmt.Sprintf("Episode %d | Steps: %d | Return: %.3f | End: %v",
		s.Episode, s.Steps, s.Return, s.End)
}
