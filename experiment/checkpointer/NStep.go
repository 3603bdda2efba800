package checkpointer

import (
	"fmt"

	ts "github.com/samuelfneumann/racetrack/timestep"
)

// nStep implements checkpointing every N environment steps, counted
// across episodes
type nStep struct {
	interval int
	steps    int
	object   Saveable

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each saved object should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// file1.bin, file2.bin, ..., fileK.bin), then simply use the
	// static function FilenameEnumerator, which will return a function
	// that will enumerate filenames.
	//
	// Otherwise, if the filename does not matter, use the static
	// function FileTimer to generate the required naming function.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n steps.
func NewNStep(n int, object Saveable, filename func() string) (Checkpointer,
	error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNStep: interval must be positive, got %d",
			n)
	}

	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the Checkpointer's tracked object if the step
// interval has elapsed. First TimeSteps are not counted as steps.
func (n *nStep) Checkpoint(t ts.TimeStep) error {
	if t.First() {
		return nil
	}

	n.steps++
	if n.steps%n.interval == 0 {
		return n.object.SaveAs(n.filename())
	}
	return nil
}

// nEpisode implements checkpointing every N finished episodes
type nEpisode struct {
	interval int
	episodes int
	object   Saveable
	filename func() string
}

// NewNEpisode returns a checkpointer that checkpoints every n
// finished episodes.
func NewNEpisode(n int, object Saveable, filename func() string) (
	Checkpointer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNEpisode: interval must be positive, "+
			"got %d", n)
	}

	return &nEpisode{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the Checkpointer's tracked object on the last
// TimeStep of every n-th episode
func (n *nEpisode) Checkpoint(t ts.TimeStep) error {
	if !t.Last() {
		return nil
	}

	n.episodes++
	if n.episodes%n.interval == 0 {
		return n.object.SaveAs(n.filename())
	}
	return nil
}
