package policy

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/racetrack/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random selects each action dimension uniformly at random from
// [-1, 1]
type Random struct {
	dims int
	rng  distuv.Uniform
}

// NewRandom returns a new Random policy for actions with dims features
func NewRandom(dims int, seed uint64) *Random {
	src := rand.NewSource(seed)
	rng := distuv.Uniform{Min: -1.0, Max: 1.0, Src: src}

	return &Random{dims, rng}
}

// SelectAction selects a random action. The TimeStep is ignored.
func (r *Random) SelectAction(_ timestep.TimeStep) *mat.VecDense {
	action := make([]float64, r.dims)
	for i := range action {
		action[i] = r.rng.Rand()
	}
	return mat.NewVecDense(r.dims, action)
}
