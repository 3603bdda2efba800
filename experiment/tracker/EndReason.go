package tracker

import (
	"fmt"

	"github.com/samuelfneumann/racetrack/timestep"
)

// EndReason tracks and saves why each episode in an experiment ended
type EndReason struct {
	reasons  []timestep.EndType
	filename string
}

// NewEndReason returns a new EndReason Tracker which will save its
// data at the specified location filename
func NewEndReason(filename string) *EndReason {
	return &EndReason{filename: filename}
}

// Track caches the end reason of the timestep if it is the last
// timestep in the episode.
func (e *EndReason) Track(t timestep.TimeStep) {
	if t.Last() {
		e.reasons = append(e.reasons, t.EndType())
	}
}

// Data returns the end reasons of all finished episodes
func (e *EndReason) Data() []timestep.EndType {
	return append([]timestep.EndType(nil), e.reasons...)
}

// Counts returns the number of episodes that ended for each reason
func (e *EndReason) Counts() map[timestep.EndType]int {
	counts := make(map[timestep.EndType]int)
	for _, reason := range e.reasons {
		counts[reason]++
	}
	return counts
}

// Save saves the data tracked by the EndReason Tracker to disk.
func (e *EndReason) Save() error {
	return e.SaveAs(e.filename)
}

// SaveAs saves the data tracked by the EndReason Tracker to filename
func (e *EndReason) SaveAs(filename string) error {
	if err := save(filename, e.reasons); err != nil {
		return fmt.Errorf("saveAs: could not save end reasons: %w", err)
	}
	return nil
}
