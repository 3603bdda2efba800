package episode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestCourseValidate(t *testing.T) {
	assert.NoError(t, Course{}.Validate())
	assert.NoError(t, threeCheckpoints().Validate())

	bad := Course{Checkpoints: []r2.Vec{{X: math.NaN()}}}
	assert.ErrorIs(t, bad.Validate(), ErrNonFinite)

	bad = Course{Finish: r2.Vec{Y: math.Inf(1)}}
	assert.ErrorIs(t, bad.Validate(), ErrNonFinite)

	_, err := NewFixedCourse(bad)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestFixedCourseIsImmutable(t *testing.T) {
	course := threeCheckpoints()
	fixed, err := NewFixedCourse(course)
	require.NoError(t, err)

	course.Checkpoints[0] = r2.Vec{X: -1, Y: -1}
	next := fixed.Next()
	assert.Equal(t, r2.Vec{X: 10, Y: 0}, next.Checkpoints[0])

	next.Checkpoints[1] = r2.Vec{X: -1, Y: -1}
	assert.Equal(t, r2.Vec{X: 20, Y: 0}, fixed.Next().Checkpoints[1])
}

func TestRandomTarget(t *testing.T) {
	box := r2.Box{Min: r2.Vec{X: 1.5, Y: -3.5}, Max: r2.Vec{X: 3.5, Y: 3.5}}
	gen, err := NewRandomTarget(box, nil, 42)
	require.NoError(t, err)

	seen := map[r2.Vec]bool{}
	for i := 0; i < 100; i++ {
		c := gen.Next()
		assert.Zero(t, c.Len())
		assert.GreaterOrEqual(t, c.Finish.X, box.Min.X)
		assert.LessOrEqual(t, c.Finish.X, box.Max.X)
		assert.GreaterOrEqual(t, c.Finish.Y, box.Min.Y)
		assert.LessOrEqual(t, c.Finish.Y, box.Max.Y)
		seen[c.Finish] = true
	}
	assert.Greater(t, len(seen), 1)

	empty := r2.Box{Min: r2.Vec{X: 1, Y: 0}, Max: r2.Vec{X: 0, Y: 1}}
	_, err = NewRandomTarget(empty, nil, 42)
	assert.Error(t, err)
}
