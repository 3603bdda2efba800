package racetrack

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/racetrack/environment"
	"github.com/samuelfneumann/racetrack/episode"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// Track describes the static layout of an arena and the course driven
// on it. The arena is enclosed by walls along Bounds.
type Track struct {
	Name string

	Bounds    r2.Box
	Obstacles []r2.Box

	Checkpoints []r2.Vec
	Finish      r2.Vec

	// If FinishBox is non-nil, the finish is sampled uniformly from
	// the box at the start of each episode and Finish is ignored
	FinishBox *r2.Box

	// TargetRadius is the radius of the checkpoint and finish sensors
	TargetRadius float64

	// Spawn outlines the x and y intervals agents start in
	Spawn [2]r1.Interval

	// SpawnAngle is the rotation agents start with, in radians
	// counter-clockwise from facing along the positive y axis
	SpawnAngle float64
}

// Loop returns a rectangular loop around a central island. Agents
// start at the bottom of the loop facing east and must drive
// counter-clockwise through four checkpoints. Clearing the last
// checkpoint completes the course.
func Loop() Track {
	return Track{
		Name:   "Loop",
		Bounds: r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 40, Y: 30}},
		Obstacles: []r2.Box{
			{Min: r2.Vec{X: 10, Y: 8}, Max: r2.Vec{X: 30, Y: 22}},
		},
		Checkpoints: []r2.Vec{
			{X: 35, Y: 4},
			{X: 35, Y: 26},
			{X: 5, Y: 26},
			{X: 5, Y: 4},
		},
		Finish:       r2.Vec{X: 12, Y: 4},
		TargetRadius: 3,
		Spawn: [2]r1.Interval{
			{Min: 18, Max: 18},
			{Min: 4, Max: 4},
		},
		SpawnAngle: -math.Pi / 2,
	}
}

// Arena returns the point navigation arena. The agent starts in the
// left of the arena and must reach a target placed randomly in the
// right of the arena on each episode.
func Arena() Track {
	finish := r2.Box{Min: r2.Vec{X: 1.5, Y: -3.5}, Max: r2.Vec{X: 3.5, Y: 3.5}}
	return Track{
		Name:         "Arena",
		Bounds:       r2.Box{Min: r2.Vec{X: -4.5, Y: -4.5}, Max: r2.Vec{X: 4.5, Y: 4.5}},
		FinishBox:    &finish,
		TargetRadius: 0.5,
		Spawn: [2]r1.Interval{
			{Min: -3.5, Max: -1.5},
			{Min: -1.5, Max: 3.5},
		},
	}
}

// TrackByName returns the built-in track with the given name
func TrackByName(name string) (Track, error) {
	switch name {
	case "Loop", "loop":
		return Loop(), nil
	case "Arena", "arena":
		return Arena(), nil
	}
	return Track{}, fmt.Errorf("trackByName: no such track %q", name)
}

// Validate checks that the track describes a usable arena
func (t Track) Validate() error {
	if t.Bounds.Min.X >= t.Bounds.Max.X || t.Bounds.Min.Y >= t.Bounds.Max.Y {
		return fmt.Errorf("validate: track %v has empty bounds", t.Name)
	}
	if t.TargetRadius <= 0 {
		return fmt.Errorf("validate: track %v target radius must be "+
			"positive", t.Name)
	}
	if err := (episode.Course{Checkpoints: t.Checkpoints,
		Finish: t.Finish}).Validate(); err != nil {
		return fmt.Errorf("validate: track %v: %w", t.Name, err)
	}
	return nil
}

// Courses returns the generator of courses for the track
func (t Track) Courses(seed uint64) (episode.CourseGenerator, error) {
	if t.FinishBox != nil {
		return episode.NewRandomTarget(*t.FinishBox, t.Checkpoints, seed)
	}
	return episode.NewFixedCourse(episode.Course{
		Checkpoints: t.Checkpoints,
		Finish:      t.Finish,
	})
}

// Starter returns the spawn policy of the track. Tracks whose spawn
// intervals are single points always spawn the agent at that point.
func (t Track) Starter(seed uint64) (environment.Starter, error) {
	x, y := t.Spawn[0], t.Spawn[1]
	if x.Min == x.Max && y.Min == y.Max {
		return environment.NewFixedStarter(x.Min, y.Min), nil
	}
	return environment.NewUniformStarter(t.Spawn[:], seed)
}
