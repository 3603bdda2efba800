package observation

import (
	"github.com/samuelfneumann/racetrack/environment"
	"github.com/samuelfneumann/racetrack/episode"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// PointFeatures is the number of features in a Point observation
const PointFeatures int = 4

// Point encodes observations for the point navigation task as the
// agent's position followed by the target position.
type Point struct {
	bounds r2.Box
}

// NewPoint returns a new Point encoder for an arena bounded by box
func NewPoint(bounds r2.Box) *Point {
	return &Point{bounds}
}

// Encode returns the observation vector for an agent and its target
func (p *Point) Encode(agent episode.AgentState, target r2.Vec) *mat.VecDense {
	return mat.NewVecDense(PointFeatures, []float64{
		agent.Position.X,
		agent.Position.Y,
		target.X,
		target.Y,
	})
}

// Spec returns the observation specification of the encoder
func (p *Point) Spec() environment.Spec {
	min, max := p.bounds.Min, p.bounds.Max

	shape := mat.NewVecDense(PointFeatures, nil)
	lowerBound := mat.NewVecDense(PointFeatures, []float64{
		min.X, min.Y, min.X, min.Y,
	})
	upperBound := mat.NewVecDense(PointFeatures, []float64{
		max.X, max.Y, max.X, max.Y,
	})

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}
