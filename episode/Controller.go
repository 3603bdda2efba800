// Package episode implements the episode lifecycle of a navigation
// task: checkpoint sequencing, termination and reward shaping. A
// Controller is driven by a simulation host which calls Step once per
// tick with the agent's kinematic state and the contacts produced by
// its collision system that tick.
package episode

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/racetrack/environment"
	"github.com/samuelfneumann/racetrack/timestep"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrNilHost is returned when a Controller is created without a
	// simulation host
	ErrNilHost = errors.New("nil host")

	// ErrNilCourses is returned when a Controller is created without a
	// course generator
	ErrNilCourses = errors.New("nil course generator")
)

// Host is the simulation that owns the agent's kinematic state.
type Host interface {
	// Respawn places the agent at position and zeroes its linear and
	// angular velocity. It is called once per episode after the course
	// for the episode has been chosen.
	Respawn(position r2.Vec, course Course)
}

// AgentState is the kinematic state of the agent on some tick. It is
// read by the Controller and never modified.
type AgentState struct {
	Position r2.Vec
	Velocity r2.Vec
	Heading  r2.Vec
}

// State is a snapshot of the current episode
type State struct {
	Elapsed    float64
	Checkpoint int // Index of the next unreached checkpoint
	Terminated bool
	Reason     timestep.EndType
}

// Running returns whether the episode has not yet terminated
func (s State) Running() bool {
	return !s.Terminated
}

// Breakdown splits the reward of a single tick into its components
type Breakdown struct {
	Proximity  float64
	Checkpoint float64
	Finish     float64
	Collision  float64
	Timeout    float64
}

// Total returns the total reward of the tick
func (b Breakdown) Total() float64 {
	return b.Proximity + b.Checkpoint + b.Finish + b.Collision + b.Timeout
}

// Controller decides, each tick, the reward to emit and whether the
// episode ends. Each Controller owns its episode state exclusively and
// is not safe for concurrent use; parallel environments should each
// use their own Controller.
type Controller struct {
	config  Config
	courses CourseGenerator
	host    Host
	logger  zerolog.Logger

	course     Course
	clock      *environment.TimeLimit
	checkpoint int
	terminated bool
	reason     timestep.EndType
	started    bool
	last       Breakdown
}

// Option configures optional Controller behaviour
type Option func(*Controller)

// WithLogger sets the logger episode transitions are logged to
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New returns a new Controller. The Controller must be Reset before
// the first call to Step.
func New(config Config, courses CourseGenerator, host Host,
	opts ...Option) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if courses == nil {
		return nil, fmt.Errorf("new: %w", ErrNilCourses)
	}
	if host == nil {
		return nil, fmt.Errorf("new: %w", ErrNilHost)
	}

	c := &Controller{
		config:  config,
		courses: courses,
		host:    host,
		logger:  zerolog.Nop(),
		clock:   environment.NewTimeLimit(config.MaxEpisodeLength),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the reward configuration of the Controller
func (c *Controller) Config() Config {
	return c.config
}

// Reset starts a new episode. A course is drawn from the course
// generator and the agent is respawned at a position drawn from spawn,
// using the first two features of the starting state as the x and y
// coordinates.
//
// Reset panics if the course generator produces an invalid course or
// the spawn policy produces fewer than two features, both of which
// are configuration errors.
func (c *Controller) Reset(spawn environment.Starter) State {
	course := c.courses.Next()
	if err := course.Validate(); err != nil {
		panic(fmt.Sprintf("reset: %v", err))
	}

	start := spawn.Start()
	if start.Len() < 2 {
		panic(fmt.Sprintf("reset: spawn position should have at least 2 "+
			"features, got %d", start.Len()))
	}
	position := r2.Vec{X: start.AtVec(0), Y: start.AtVec(1)}

	c.course = course
	c.clock.Reset()
	c.checkpoint = 0
	c.terminated = false
	c.reason = timestep.NotEnded
	c.last = Breakdown{}
	c.started = true

	c.host.Respawn(position, course.Clone())

	c.logger.Debug().
		Float64("x", position.X).
		Float64("y", position.Y).
		Int("checkpoints", course.Len()).
		Msg("episode started")

	return c.State()
}

// State returns a snapshot of the current episode
func (c *Controller) State() State {
	return State{
		Elapsed:    c.clock.Elapsed(),
		Checkpoint: c.checkpoint,
		Terminated: c.terminated,
		Reason:     c.reason,
	}
}

// Course returns a copy of the course for the current episode
func (c *Controller) Course() Course {
	return c.course.Clone()
}

// LastReward returns the components of the reward returned by the
// most recent call to Step
func (c *Controller) LastReward() Breakdown {
	return c.last
}

// ActiveTarget returns the position of the next unreached checkpoint,
// or the finish position if all checkpoints have been cleared
func (c *Controller) ActiveTarget() r2.Vec {
	if c.checkpoint < c.course.Len() {
		return c.course.Checkpoints[c.checkpoint]
	}
	return c.course.Finish
}

// Step advances the episode by dt simulated seconds given the agent's
// state on this tick and the contacts produced this tick, in the order
// they arrived. It returns the total reward for the tick and whether the
// episode has terminated.
//
// Once the episode terminates, later contacts in the same tick are not
// processed and further calls to Step return (0, true) until Reset.
func (c *Controller) Step(agent AgentState, dt float64,
	contacts iter.Seq[Contact]) (float64, bool) {
	if !c.started {
		panic("step: controller must be reset before stepping")
	}
	if c.terminated {
		c.last = Breakdown{}
		return 0, true
	}

	c.clock.Advance(dt)

	var b Breakdown
	distance := r2.Norm(r2.Sub(c.ActiveTarget(), agent.Position))
	b.Proximity = c.config.K / math.Max(distance, c.config.Epsilon)

	if contacts != nil {
		for contact := range contacts {
			c.handle(contact, &b)
			if c.terminated {
				break
			}
		}
	}

	if !c.terminated && c.clock.Exceeded() {
		b.Timeout += c.config.TimeoutPenalty
		c.terminate(timestep.TimedOut)
	}

	c.last = b
	return b.Total(), c.terminated
}

// handle applies the effect of a single contact to the episode
func (c *Controller) handle(contact Contact, b *Breakdown) {
	switch contact.Tag {
	case Checkpoint:
		if c.checkpoint >= c.course.Len() || contact.ID != c.checkpoint {
			return
		}
		b.Checkpoint += c.config.CheckpointBonus
		c.checkpoint++
		c.logger.Debug().Int("checkpoint", contact.ID).Msg("checkpoint cleared")

		if c.checkpoint == c.course.Len() {
			b.Finish += c.config.FinishBonus
			c.terminate(timestep.ReachedFinish)
		}

	case Finish:
		// Checkpoints gate the finish
		if c.checkpoint != c.course.Len() {
			return
		}
		b.Finish += c.config.FinishBonus
		c.terminate(timestep.ReachedFinish)

	case Wall, Obstacle:
		b.Collision += c.config.CollisionPenalty
		c.terminate(timestep.HitWall)
	}
}

func (c *Controller) terminate(reason timestep.EndType) {
	c.terminated = true
	c.reason = reason
	c.logger.Debug().
		Stringer("reason", reason).
		Float64("elapsed", c.clock.Elapsed()).
		Int("checkpoint", c.checkpoint).
		Msg("episode terminated")
}

// End implements the environment.Ender interface. If the current
// episode has terminated, End marks the TimeStep as the last in the
// episode with the reason the episode terminated.
func (c *Controller) End(t *timestep.TimeStep) bool {
	if c.terminated {
		t.SetEnd(c.reason)
		return true
	}
	return false
}
