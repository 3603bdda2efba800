package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly at random from a
// bounding box given by one interval per feature.
type UniformStarter struct {
	features int
	seed     uint64
	rand     *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter sampling feature i
// uniformly from bounds[i]. An interval with Min > Max describes an
// empty box and results in an error. An interval with Min == Max
// always samples that single value.
func NewUniformStarter(bounds []r1.Interval, seed uint64) (*UniformStarter,
	error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("newUniformStarter: no bounds given")
	}
	for i, b := range bounds {
		if b.Min > b.Max {
			return nil, fmt.Errorf("newUniformStarter: empty interval at "+
				"index %d: [%v, %v]", i, b.Min, b.Max)
		}
	}

	source := rand.NewSource(seed)
	rand := distmv.NewUniform(bounds, source)

	return &UniformStarter{len(bounds), seed, rand}, nil
}

// Start returns a starting state vector
func (u *UniformStarter) Start() mat.Vector {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}
