// Package observation encodes the agent's kinematic state and its
// active target into the feature vectors handed to a policy.
package observation

import (
	"math"

	"github.com/samuelfneumann/racetrack/environment"
	"github.com/samuelfneumann/racetrack/episode"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Encoder constructs observations from the agent state and target
type Encoder interface {
	Encode(agent episode.AgentState, target r2.Vec) *mat.VecDense
	Spec() environment.Spec
}

// CarFeatures is the number of features in a Car observation
const CarFeatures int = 7

// Car encodes observations for the driving task. Observations are
// vectors consisting of the following features in the following order:
//
//  1. The x component of the unit vector pointing from the agent to
//     the target
//  2. The y component of the unit vector pointing from the agent to
//     the target
//  3. The distance from the agent to the target
//  4. The x velocity of the agent
//  5. The y velocity of the agent
//  6. The x component of the agent's heading
//  7. The y component of the agent's heading
//
// If the agent sits exactly on the target, the direction features are
// both 0.
type Car struct {
	maxDistance float64
	maxSpeed    float64
}

// NewCar returns a new Car encoder. The maxDistance and maxSpeed
// arguments only determine the bounds reported by Spec.
func NewCar(maxDistance, maxSpeed float64) *Car {
	return &Car{maxDistance, maxSpeed}
}

// Encode returns the observation vector for an agent and its target
func (c *Car) Encode(agent episode.AgentState, target r2.Vec) *mat.VecDense {
	offset := r2.Sub(target, agent.Position)
	distance := r2.Norm(offset)

	var direction r2.Vec
	if distance > 0 {
		direction = r2.Scale(1/distance, offset)
	}

	return mat.NewVecDense(CarFeatures, []float64{
		direction.X,
		direction.Y,
		distance,
		agent.Velocity.X,
		agent.Velocity.Y,
		agent.Heading.X,
		agent.Heading.Y,
	})
}

// Spec returns the observation specification of the encoder
func (c *Car) Spec() environment.Spec {
	shape := mat.NewVecDense(CarFeatures, nil)
	lowerBound := mat.NewVecDense(CarFeatures, []float64{
		-1, -1, 0, -c.maxSpeed, -c.maxSpeed, -1, -1,
	})
	upperBound := mat.NewVecDense(CarFeatures, []float64{
		1, 1, c.maxDistance, c.maxSpeed, c.maxSpeed, 1, 1,
	})

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// HeadingFromAngle returns the unit heading of a body rotated by angle
// radians counter-clockwise from the positive y axis, which is the
// direction a car points when unrotated.
func HeadingFromAngle(angle float64) r2.Vec {
	return r2.Vec{X: -math.Sin(angle), Y: math.Cos(angle)}
}
