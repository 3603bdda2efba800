// Package racetrack provides top-down navigation environments
// simulated with Box2D. An agent drives, or is moved, around an arena
// enclosed by walls. Checkpoints and the finish are sensors which
// report contacts to an episode.Controller, which determines the
// rewards and episode terminations.
//
// Two variants are provided. In the Car variant, actions are
// 2-dimensional and continuous. The first coordinate is throttle/brake
// in [-1, 1] and applies a force along the car's heading. The second
// coordinate is steering in [-1, 1] and applies a torque to the car,
// with positive values turning clockwise. Observations are encoded by
// an observation.Car encoder.
//
// In the Point variant, actions are the x and y displacement of the
// agent in [-1, 1], each scaled by Physics.MoveSpeed and the duration
// of a timestep. Observations are encoded by an observation.Point
// encoder.
//
// In both variants, actions outside of [-1, 1] are clipped.
package racetrack

import (
	"fmt"
	"math"
	"slices"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/racetrack/environment"
	"github.com/samuelfneumann/racetrack/episode"
	"github.com/samuelfneumann/racetrack/observation"
	"github.com/samuelfneumann/racetrack/timestep"
	"github.com/samuelfneumann/racetrack/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// Agent geometry, in Box2D units
	CarHalfWidth  float64 = 0.5
	CarHalfLength float64 = 1.0
	PointRadius   float64 = 0.25

	// Action
	ActionDims          int     = 2
	MaxContinuousAction float64 = 1.0
	MinContinuousAction float64 = -MaxContinuousAction
)

// Variant determines how the agent is actuated and observed
type Variant string

const (
	Car   Variant = "Car"
	Point Variant = "Point"
)

// Physics holds the physical constants of a racetrack
type Physics struct {
	FPS            float64 `json:"fps" mapstructure:"fps"`
	EnginePower    float64 `json:"engine_power" mapstructure:"engine_power"`
	SteerTorque    float64 `json:"steer_torque" mapstructure:"steer_torque"`
	LinearDamping  float64 `json:"linear_damping" mapstructure:"linear_damping"`
	AngularDamping float64 `json:"angular_damping" mapstructure:"angular_damping"`
	MoveSpeed      float64 `json:"move_speed" mapstructure:"move_speed"`

	// Grip is the fraction of a car's sideways velocity removed each
	// step, in [0, 1]
	Grip float64 `json:"grip" mapstructure:"grip"`
}

// DefaultPhysics returns the default physical constants. A car under
// full steering turns at SteerTorque / (I * AngularDamping) radians per
// second, where I is the car's rotational inertia of 5/6.
func DefaultPhysics() Physics {
	return Physics{
		FPS:            50,
		EnginePower:    10,
		SteerTorque:    50,
		LinearDamping:  0.5,
		AngularDamping: 20,
		MoveSpeed:      5,
		Grip:           1,
	}
}

// MaxVelocity returns the maximum speed Box2D allows, which is 2 units
// per timestep
func (p Physics) MaxVelocity() float64 {
	return 2.0 * p.FPS
}

// Racetrack implements the environment.Environment interface
type Racetrack struct {
	sim        *world
	actuator   actuator
	controller *episode.Controller
	encoder    observation.Encoder
	starter    environment.Starter

	variant      Variant
	physics      Physics
	discount     float64
	actionBounds r1.Interval

	prevStep timestep.TimeStep
	trail    []r2.Vec
	logger   zerolog.Logger
}

// New returns a new racetrack environment of the given variant on the
// given track, as well as the first TimeStep of the first episode.
// Episode rewards and terminations are determined by reward.
func New(variant Variant, track Track, reward episode.Config,
	physics Physics, discount float64, seed uint64,
	logger zerolog.Logger) (*Racetrack, timestep.TimeStep, error) {
	if err := track.Validate(); err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	if physics.FPS <= 0 {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: fps must be "+
			"positive, got %v", physics.FPS)
	}

	var act actuator
	var encoder observation.Encoder
	switch variant {
	case Car:
		act = carActuator{physics}
		size := r2.Sub(track.Bounds.Max, track.Bounds.Min)
		encoder = observation.NewCar(r2.Norm(size), physics.MaxVelocity())

	case Point:
		act = pointActuator{physics}
		encoder = observation.NewPoint(track.Bounds)

	default:
		return nil, timestep.TimeStep{}, fmt.Errorf("new: no such "+
			"variant %q", variant)
	}

	starter, err := track.Starter(seed)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	courses, err := track.Courses(seed + 1)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	sim := newWorld(track, act.createAgent)
	controller, err := episode.New(reward, courses, sim,
		episode.WithLogger(logger))
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	r := &Racetrack{
		sim:        sim,
		actuator:   act,
		controller: controller,
		encoder:    encoder,
		starter:    starter,
		variant:    variant,
		physics:    physics,
		discount:   discount,
		actionBounds: r1.Interval{
			Min: MinContinuousAction,
			Max: MaxContinuousAction,
		},
		logger: logger,
	}

	step, err := r.Reset()
	return r, step, err
}

// Reset resets the environment to a new episode and returns the
// first TimeStep of the episode
func (r *Racetrack) Reset() (timestep.TimeStep, error) {
	r.controller.Reset(r.starter)

	agent := r.sim.agentState()
	r.trail = append(r.trail[:0], agent.Position)

	obs := r.encoder.Encode(agent, r.controller.ActiveTarget())
	r.prevStep = timestep.New(timestep.First, 0, r.discount, obs, 0)

	return r.prevStep, nil
}

// Step takes one environmental step given some action. The returned
// TimeStep holds the observation after the action and the reward for
// taking the action.
func (r *Racetrack) Step(action *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	if action.Len() != ActionDims {
		return timestep.TimeStep{}, true, fmt.Errorf("step: action "+
			"should be %d-dimensional, got %d", ActionDims, action.Len())
	}

	// Clip actions
	clipped := mat.NewVecDense(ActionDims, nil)
	for i := 0; i < ActionDims; i++ {
		clipped.SetVec(i, floatutils.ClipInterval(action.AtVec(i),
			r.actionBounds))
	}

	dt := r.Timestep()
	r.actuator.actuate(r.sim.agent, clipped)
	contacts := r.sim.step(dt)

	agent := r.sim.agentState()
	r.trail = append(r.trail, agent.Position)

	reward, _ := r.controller.Step(agent, dt, slices.Values(contacts))

	obs := r.encoder.Encode(agent, r.controller.ActiveTarget())
	step := timestep.New(timestep.Mid, reward, r.discount, obs,
		r.prevStep.Number+1)
	if r.controller.End(&step) {
		r.logger.Debug().
			Stringer("end", step.EndType()).
			Int("steps", step.Number).
			Msg("racetrack episode ended")
	}

	r.prevStep = step
	return step, step.Last(), nil
}

// Timestep returns the duration of a single environmental step in
// simulated seconds
func (r *Racetrack) Timestep() float64 {
	return 1.0 / r.physics.FPS
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (r *Racetrack) LastTimeStep() timestep.TimeStep {
	return r.prevStep
}

// Controller returns the episode controller of the environment
func (r *Racetrack) Controller() *episode.Controller {
	return r.controller
}

// Agent returns the current kinematic state of the agent
func (r *Racetrack) Agent() episode.AgentState {
	return r.sim.agentState()
}

// Variant returns the variant of the environment
func (r *Racetrack) Variant() Variant {
	return r.variant
}

// Track returns the track the environment simulates
func (r *Racetrack) Track() Track {
	return r.sim.track
}

// ActionSpec returns the action specification of the environment
func (r *Racetrack) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{
		MinContinuousAction,
		MinContinuousAction,
	})
	upperBound := mat.NewVecDense(ActionDims, []float64{
		MaxContinuousAction,
		MaxContinuousAction,
	})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Continuous)
}

// ObservationSpec returns the observation specification of the
// environment
func (r *Racetrack) ObservationSpec() environment.Spec {
	return r.encoder.Spec()
}

// DiscountSpec returns the discounting specification of the environment
func (r *Racetrack) DiscountSpec() environment.Spec {
	return environment.NewScalarSpec(environment.Discount, r.discount,
		r.discount)
}

// RewardSpec returns the reward specification of the environment. The
// proximity reward is always positive and at most K / Epsilon, and a
// single step may clear every checkpoint of a course.
func (r *Racetrack) RewardSpec() environment.Spec {
	c := r.controller.Config()
	n := float64(len(r.sim.track.Checkpoints))
	min := math.Min(c.CollisionPenalty, c.TimeoutPenalty)
	max := c.K/c.Epsilon + n*c.CheckpointBonus + c.FinishBonus

	return environment.NewScalarSpec(environment.Reward, min, max)
}

// String returns a string representation of the environment
func (r *Racetrack) String() string {
	agent := r.sim.agentState()
	state := r.controller.State()
	str := "Racetrack %v  |  Position: (%.2f, %.2f)  |  Checkpoint: %v/%v" +
		"  |  Elapsed: %.2f"

	return fmt.Sprintf(str, r.variant, agent.Position.X, agent.Position.Y,
		state.Checkpoint, r.controller.Course().Len(), state.Elapsed)
}
