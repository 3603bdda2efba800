package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what a Spec describes
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	case Discount:
		return "Discount"
	default:
		return "Reward"
	}
}

// Cardinality determines whether values are discrete or continuous
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec describes the shape and per-feature bounds of the actions,
// observations, discounts or rewards of an environment
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec returns a new Spec. NewSpec panics if the bounds do not have
// one entry per feature of shape, or if some lower bound exceeds its
// upper bound.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() || shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("newSpec: %v spec has %d features but bounds "+
			"of length %d and %d", t, shape.Len(), lowerBound.Len(),
			upperBound.Len()))
	}
	for i := 0; i < shape.Len(); i++ {
		if lowerBound.AtVec(i) > upperBound.AtVec(i) {
			panic(fmt.Sprintf("newSpec: %v spec feature %d has lower "+
				"bound %v above upper bound %v", t, i, lowerBound.AtVec(i),
				upperBound.AtVec(i)))
		}
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// NewScalarSpec returns a Spec for a single continuous value bounded
// in [min, max], such as a reward or discount.
func NewScalarSpec(t SpecType, min, max float64) Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{min})
	upperBound := mat.NewVecDense(1, []float64{max})

	return NewSpec(shape, t, lowerBound, upperBound, Continuous)
}

// Contains returns whether v has one feature per feature of the Spec
// and lies within the Spec's bounds
func (s Spec) Contains(v mat.Vector) bool {
	if v.Len() != s.Shape.Len() {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < s.LowerBound.AtVec(i) ||
			v.AtVec(i) > s.UpperBound.AtVec(i) {
			return false
		}
	}
	return true
}
