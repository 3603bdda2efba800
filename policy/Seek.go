package policy

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/racetrack/observation"
	"github.com/samuelfneumann/racetrack/timestep"
	"github.com/samuelfneumann/racetrack/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// SeekCar drives a car straight at its active target. It reads the
// direction-to-target and heading features of observation.Car
// observations, steering towards the target and easing off the
// throttle while the target is behind the car.
type SeekCar struct {
	// SteerGain scales the heading error, in radians, into steering
	SteerGain float64

	// Throttle is the throttle applied when facing the target
	Throttle float64
}

// NewSeekCar returns a new SeekCar policy
func NewSeekCar(steerGain, throttle float64) *SeekCar {
	return &SeekCar{steerGain, throttle}
}

// SelectAction selects the throttle and steering for an observation
func (s *SeekCar) SelectAction(t timestep.TimeStep) *mat.VecDense {
	obs := t.Observation
	if obs.Len() != observation.CarFeatures {
		panic(fmt.Sprintf("selectAction: expected %d observation "+
			"features, got %d", observation.CarFeatures, obs.Len()))
	}

	direction := r2.Vec{X: obs.AtVec(0), Y: obs.AtVec(1)}
	heading := r2.Vec{X: obs.AtVec(5), Y: obs.AtVec(6)}

	// Positive error means the target is counter-clockwise of the
	// heading. Positive steering turns clockwise.
	headingError := math.Atan2(r2.Cross(heading, direction),
		r2.Dot(heading, direction))
	steer := floatutils.Clip(-s.SteerGain*headingError, -1, 1)

	facing := r2.Dot(heading, direction)
	throttle := floatutils.Clip(s.Throttle*math.Max(facing, 0.25), -1, 1)

	return mat.NewVecDense(2, []float64{throttle, steer})
}

// SeekPoint moves a point agent straight at its active target. It
// reads the position and target features of observation.Point
// observations.
type SeekPoint struct {
	// Speed is the fraction of the maximum displacement to move by
	Speed float64
}

// NewSeekPoint returns a new SeekPoint policy
func NewSeekPoint(speed float64) *SeekPoint {
	return &SeekPoint{speed}
}

// SelectAction selects the displacement for an observation
func (s *SeekPoint) SelectAction(t timestep.TimeStep) *mat.VecDense {
	obs := t.Observation
	if obs.Len() != observation.PointFeatures {
		panic(fmt.Sprintf("selectAction: expected %d observation "+
			"features, got %d", observation.PointFeatures, obs.Len()))
	}

	offset := r2.Vec{X: obs.AtVec(2) - obs.AtVec(0),
		Y: obs.AtVec(3) - obs.AtVec(1)}

	action := mat.NewVecDense(2, nil)
	if norm := r2.Norm(offset); norm > 0 {
		move := r2.Scale(s.Speed/norm, offset)
		action.SetVec(0, floatutils.Clip(move.X, -1, 1))
		action.SetVec(1, floatutils.Clip(move.Y, -1, 1))
	}
	return action
}
