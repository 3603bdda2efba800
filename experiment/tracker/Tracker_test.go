package tracker

import (
	"path/filepath"
	"testing"

	ts "github.com/samuelfneumann/racetrack/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// episode returns the TimeSteps of an episode with the given rewards
// on each step after the first
func episode(end ts.EndType, rewards ...float64) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0, 1, nil, 0)}
	for i, r := range rewards {
		step := ts.New(ts.Mid, r, 1, nil, i+1)
		if i == len(rewards)-1 {
			step.SetEnd(end)
		}
		steps = append(steps, step)
	}
	return steps
}

func track(t Tracker, episodes ...[]ts.TimeStep) {
	for _, ep := range episodes {
		for _, step := range ep {
			t.Track(step)
		}
	}
}

func TestReturn(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.bin")
	r := NewReturn(filename)

	track(r, episode(ts.HitWall, 1, -2), episode(ts.ReachedFinish, 0.5, 0.5, 10))
	assert.Equal(t, []float64{-1, 11}, r.Data())

	require.NoError(t, r.Save())
	data, err := LoadData(filename)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 11}, data)
}

func TestReturnNonSequential(t *testing.T) {
	r := NewReturn("")
	r.Track(ts.New(ts.First, 0, 1, nil, 0))
	assert.Panics(t, func() { r.Track(ts.New(ts.Mid, 0, 1, nil, 2)) })
}

func TestReturnUnfinishedEpisode(t *testing.T) {
	r := NewReturn("")
	steps := episode(ts.TimedOut, 1, 1, 1)
	track(r, steps[:3])
	assert.Empty(t, r.Data())
}

func TestEpisodeLength(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lengths.bin")
	e := NewEpisodeLength(filename)

	track(e, episode(ts.TimedOut, 1, 1, 1), episode(ts.HitWall, 1))
	assert.Equal(t, []int{3, 1}, e.Data())

	require.NoError(t, e.Save())
	data, err := LoadLengths(filename)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, data)
}

func TestEndReason(t *testing.T) {
	dir := t.TempDir()
	e := NewEndReason(filepath.Join(dir, "reasons.bin"))

	track(e, episode(ts.TimedOut, 1), episode(ts.HitWall, 1),
		episode(ts.HitWall, 1, 2))
	assert.Equal(t, []ts.EndType{ts.TimedOut, ts.HitWall, ts.HitWall},
		e.Data())
	assert.Equal(t, map[ts.EndType]int{ts.TimedOut: 1, ts.HitWall: 2},
		e.Counts())

	other := filepath.Join(dir, "other.bin")
	require.NoError(t, e.SaveAs(other))
	data, err := LoadEndReasons(other)
	require.NoError(t, err)
	assert.Equal(t, e.Data(), data)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadData(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
