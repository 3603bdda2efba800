package checkpointer

import (
	"strings"
	"testing"
	"time"

	ts "github.com/samuelfneumann/racetrack/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	saved []string
}

func (r *recorder) SaveAs(filename string) error {
	r.saved = append(r.saved, filename)
	return nil
}

func TestFilenameEnumerator(t *testing.T) {
	next := FilenameEnumerator(0, "returns", ".bin")
	assert.Equal(t, "returns1.bin", next())
	assert.Equal(t, "returns2.bin", next())
}

func TestFileTimer(t *testing.T) {
	name := FileTimer("returns", ".bin")()
	assert.True(t, strings.HasPrefix(name, "returns-"))
	assert.True(t, strings.HasSuffix(name, ".bin"))

	at := time.Date(2024, 1, 2, 15, 4, 5, 6, time.UTC)
	fixed := fileTimer("returns", ".bin", func() time.Time { return at })
	assert.Equal(t, "returns-20240102T150405.000000006.bin", fixed())
}

func TestNStep(t *testing.T) {
	obj := &recorder{}
	c, err := NewNStep(3, obj, FilenameEnumerator(0, "f", ""))
	require.NoError(t, err)

	// Steps are counted across episodes and first steps are skipped
	steps := []ts.TimeStep{
		ts.New(ts.First, 0, 1, nil, 0),
		ts.New(ts.Mid, 0, 1, nil, 1),
		ts.New(ts.Last, 0, 1, nil, 2),
		ts.New(ts.First, 0, 1, nil, 0),
		ts.New(ts.Mid, 0, 1, nil, 1),
		ts.New(ts.Mid, 0, 1, nil, 2),
		ts.New(ts.Mid, 0, 1, nil, 3),
		ts.New(ts.Last, 0, 1, nil, 4),
	}
	for _, step := range steps {
		require.NoError(t, c.Checkpoint(step))
	}
	assert.Equal(t, []string{"f1", "f2"}, obj.saved)

	_, err = NewNStep(0, obj, FilenameEnumerator(0, "f", ""))
	assert.Error(t, err)
}

func TestNEpisode(t *testing.T) {
	obj := &recorder{}
	c, err := NewNEpisode(2, obj, FilenameEnumerator(0, "ep", ".bin"))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Checkpoint(ts.New(ts.Mid, 0, 1, nil, 1)))
		require.NoError(t, c.Checkpoint(ts.New(ts.Last, 0, 1, nil, 2)))
	}
	assert.Equal(t, []string{"ep1.bin", "ep2.bin"}, obj.saved)
}
