package episode

import (
	"errors"
	"fmt"
	"math"

	"github.com/samuelfneumann/racetrack/environment"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrNonFinite is returned when a course has a coordinate which is NaN
// or infinite
var ErrNonFinite = errors.New("non-finite coordinate")

// Course is the ordered sequence of checkpoints an agent must visit
// followed by the finish. A Course with no checkpoints is a
// point-to-point task where the finish is the only target.
type Course struct {
	Checkpoints []r2.Vec
	Finish      r2.Vec
}

// Len returns the number of checkpoints in the course
func (c Course) Len() int {
	return len(c.Checkpoints)
}

// Clone returns a deep copy of the course so that the copy is not
// affected by changes to the original checkpoint slice
func (c Course) Clone() Course {
	checkpoints := make([]r2.Vec, len(c.Checkpoints))
	copy(checkpoints, c.Checkpoints)
	return Course{Checkpoints: checkpoints, Finish: c.Finish}
}

// Validate returns an error if any position in the course is not
// finite
func (c Course) Validate() error {
	for i, p := range c.Checkpoints {
		if !finite(p) {
			return fmt.Errorf("checkpoint %d at %v: %w", i, p, ErrNonFinite)
		}
	}
	if !finite(c.Finish) {
		return fmt.Errorf("finish at %v: %w", c.Finish, ErrNonFinite)
	}
	return nil
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// CourseGenerator returns the course to use for the next episode
type CourseGenerator interface {
	Next() Course
}

// FixedCourse returns the same course for every episode
type FixedCourse struct {
	course Course
}

// NewFixedCourse returns a new FixedCourse which always returns the
// argument course
func NewFixedCourse(c Course) (*FixedCourse, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newFixedCourse: %w", err)
	}
	return &FixedCourse{c.Clone()}, nil
}

// Next returns the fixed course
func (f *FixedCourse) Next() Course {
	return f.course.Clone()
}

// RandomTarget generates courses with a fixed set of checkpoints and
// a finish sampled uniformly from a bounding box on each episode.
type RandomTarget struct {
	checkpoints []r2.Vec
	finish      *environment.UniformStarter
}

// NewRandomTarget returns a new RandomTarget sampling the finish from
// box. Box bounds with Min > Max along either axis are rejected.
func NewRandomTarget(box r2.Box, checkpoints []r2.Vec,
	seed uint64) (*RandomTarget, error) {
	course := Course{Checkpoints: checkpoints, Finish: box.Min}
	if err := course.Validate(); err != nil {
		return nil, fmt.Errorf("newRandomTarget: %w", err)
	}

	finish, err := environment.NewUniformStarter([]r1.Interval{
		{Min: box.Min.X, Max: box.Max.X},
		{Min: box.Min.Y, Max: box.Max.Y},
	}, seed)
	if err != nil {
		return nil, fmt.Errorf("newRandomTarget: %w", err)
	}

	return &RandomTarget{course.Clone().Checkpoints, finish}, nil
}

// Next returns a course with a newly sampled finish
func (r *RandomTarget) Next() Course {
	f := r.finish.Start()
	c := Course{Checkpoints: r.checkpoints, Finish: r2.Vec{X: f.AtVec(0),
		Y: f.AtVec(1)}}
	return c.Clone()
}
