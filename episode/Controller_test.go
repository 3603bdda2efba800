package episode

import (
	"math"
	"slices"
	"testing"

	"github.com/samuelfneumann/racetrack/environment"
	"github.com/samuelfneumann/racetrack/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

type recordingHost struct {
	respawns []r2.Vec
	courses  []Course
}

func (h *recordingHost) Respawn(position r2.Vec, course Course) {
	h.respawns = append(h.respawns, position)
	h.courses = append(h.courses, course)
}

func threeCheckpoints() Course {
	return Course{
		Checkpoints: []r2.Vec{{X: 10, Y: 0}, {X: 20, Y: 0}, {X: 30, Y: 0}},
		Finish:      r2.Vec{X: 40, Y: 0},
	}
}

func newController(t *testing.T, course Course) (*Controller, *recordingHost) {
	t.Helper()
	courses, err := NewFixedCourse(course)
	require.NoError(t, err)

	host := &recordingHost{}
	c, err := New(DefaultConfig(), courses, host)
	require.NoError(t, err)

	c.Reset(environment.NewFixedStarter(0, 0))
	return c, host
}

// origin is an agent sitting at the origin, so the proximity reward is
// K / distance-to-target
var origin = AgentState{Heading: r2.Vec{X: 0, Y: 1}}

func contacts(cs ...Contact) func(func(Contact) bool) {
	return slices.Values(cs)
}

func TestResetStartsRunningEpisode(t *testing.T) {
	c, host := newController(t, threeCheckpoints())

	// Dirty the episode state
	c.Step(origin, 3, contacts(CheckpointContact(0), Contact{Tag: Wall}))
	require.True(t, c.State().Terminated)

	state := c.Reset(environment.NewFixedStarter(1, 2))
	assert.True(t, state.Running())
	assert.Equal(t, 0, state.Checkpoint)
	assert.Equal(t, 0.0, state.Elapsed)
	assert.Equal(t, timestep.NotEnded, state.Reason)

	require.Len(t, host.respawns, 2)
	assert.Equal(t, r2.Vec{X: 1, Y: 2}, host.respawns[1])
	assert.Equal(t, 3, host.courses[1].Len())
}

func TestProximityReward(t *testing.T) {
	c, _ := newController(t, threeCheckpoints())

	reward, done := c.Step(origin, 0.1, nil)
	assert.False(t, done)
	assert.InDelta(t, 1.0/10.0, reward, 1e-12)

	// Distances below epsilon are clamped
	onTarget := AgentState{Position: r2.Vec{X: 10, Y: 0}}
	reward, _ = c.Step(onTarget, 0.1, nil)
	assert.InDelta(t, 1.0/DefaultConfig().Epsilon, reward, 1e-12)
	assert.False(t, math.IsInf(reward, 0))
}

func TestCheckpointOrderIsEnforced(t *testing.T) {
	// Scenario A: checkpoint 0 then checkpoint 2, skipping 1
	c, _ := newController(t, threeCheckpoints())
	config := c.Config()

	reward, done := c.Step(origin, 0.1, contacts(CheckpointContact(0)))
	assert.False(t, done)
	assert.InDelta(t, 1.0/10+config.CheckpointBonus, reward, 1e-12)
	assert.Equal(t, 1, c.State().Checkpoint)
	assert.Equal(t, r2.Vec{X: 20, Y: 0}, c.ActiveTarget())

	reward, done = c.Step(origin, 0.1, contacts(CheckpointContact(2)))
	assert.False(t, done)
	assert.InDelta(t, 1.0/20, reward, 1e-12)
	assert.Equal(t, 1, c.State().Checkpoint)
	assert.Zero(t, c.LastReward().Checkpoint)
}

func TestFinishBeforeCheckpointsIsIgnored(t *testing.T) {
	c, _ := newController(t, threeCheckpoints())

	reward, done := c.Step(origin, 0.1, contacts(Contact{Tag: Finish}))
	assert.False(t, done)
	assert.InDelta(t, 1.0/10, reward, 1e-12)
	assert.Zero(t, c.LastReward().Finish)
	assert.True(t, c.State().Running())
}

func TestCompletingCourse(t *testing.T) {
	// Scenario B: checkpoints in order, then the finish
	c, _ := newController(t, threeCheckpoints())
	config := c.Config()

	c.Step(origin, 0.1, contacts(CheckpointContact(0)))
	c.Step(origin, 0.1, contacts(CheckpointContact(1)))

	reward, done := c.Step(origin, 0.1, contacts(CheckpointContact(2),
		Contact{Tag: Finish}))
	assert.True(t, done)

	b := c.LastReward()
	assert.Equal(t, config.CheckpointBonus, b.Checkpoint)
	assert.Equal(t, config.FinishBonus, b.Finish)
	assert.InDelta(t, 1.0/30+config.CheckpointBonus+config.FinishBonus,
		reward, 1e-12)

	state := c.State()
	assert.True(t, state.Terminated)
	assert.Equal(t, timestep.ReachedFinish, state.Reason)
	assert.Equal(t, 3, state.Checkpoint)
	assert.Equal(t, r2.Vec{X: 40, Y: 0}, c.ActiveTarget())
}

func TestPointToPointFinish(t *testing.T) {
	c, _ := newController(t, Course{Finish: r2.Vec{X: 4, Y: 0}})
	config := c.Config()

	assert.Equal(t, r2.Vec{X: 4, Y: 0}, c.ActiveTarget())
	reward, done := c.Step(origin, 0.1, contacts(Contact{Tag: Finish}))
	assert.True(t, done)
	assert.InDelta(t, 1.0/4+config.FinishBonus, reward, 1e-12)
	assert.Equal(t, timestep.ReachedFinish, c.State().Reason)
}

func TestTimeout(t *testing.T) {
	// Scenario C: elapsed time reaches 500.1 with a limit of 500
	c, _ := newController(t, threeCheckpoints())
	config := c.Config()

	_, done := c.Step(origin, 500, nil)
	assert.False(t, done, "elapsed time equal to the limit should not time out")

	reward, done := c.Step(origin, 0.1, nil)
	assert.True(t, done)
	assert.InDelta(t, 1.0/10+config.TimeoutPenalty, reward, 1e-12)
	assert.Equal(t, config.TimeoutPenalty, c.LastReward().Timeout)

	state := c.State()
	assert.Equal(t, timestep.TimedOut, state.Reason)
	assert.InDelta(t, 500.1, state.Elapsed, 1e-9)
}

func TestEarlierTerminationPreemptsTimeout(t *testing.T) {
	c, _ := newController(t, threeCheckpoints())
	config := c.Config()

	reward, done := c.Step(origin, 501, contacts(Contact{Tag: Obstacle}))
	assert.True(t, done)
	assert.Equal(t, timestep.HitWall, c.State().Reason)
	assert.Zero(t, c.LastReward().Timeout)
	assert.InDelta(t, 1.0/10+config.CollisionPenalty, reward, 1e-12)
}

func TestWallCollision(t *testing.T) {
	// Scenario D: wall contact on the same tick as the proximity reward
	c, _ := newController(t, threeCheckpoints())
	config := c.Config()

	agent := AgentState{Position: r2.Vec{X: 5, Y: 0}}
	reward, done := c.Step(agent, 0.1, contacts(Contact{Tag: Wall}))
	assert.True(t, done)
	assert.InDelta(t, 1.0/5+config.CollisionPenalty, reward, 1e-12)
	assert.Equal(t, timestep.HitWall, c.State().Reason)
}

func TestFirstTerminatingContactWins(t *testing.T) {
	c, _ := newController(t, Course{
		Checkpoints: []r2.Vec{{X: 10, Y: 0}},
		Finish:      r2.Vec{X: 20, Y: 0},
	})
	config := c.Config()

	reward, done := c.Step(origin, 0.1, contacts(
		CheckpointContact(0),
		Contact{Tag: Wall},
		Contact{Tag: Finish},
	))
	assert.True(t, done)
	assert.Equal(t, timestep.ReachedFinish, c.State().Reason)
	assert.Zero(t, c.LastReward().Collision)
	assert.InDelta(t, 1.0/10+config.CheckpointBonus+config.FinishBonus,
		reward, 1e-12)
}

func TestContactsAfterTerminationAreNotPulled(t *testing.T) {
	c, _ := newController(t, threeCheckpoints())

	pulled := 0
	seq := func(yield func(Contact) bool) {
		for _, contact := range []Contact{{Tag: Wall}, {Tag: Wall},
			{Tag: Obstacle}} {
			pulled++
			if !yield(contact) {
				return
			}
		}
	}
	c.Step(origin, 0.1, seq)
	assert.Equal(t, 1, pulled)
}

func TestTerminatedIsAbsorbing(t *testing.T) {
	c, _ := newController(t, threeCheckpoints())
	c.Step(origin, 0.1, contacts(Contact{Tag: Wall}))
	before := c.State()

	reward, done := c.Step(origin, 10, contacts(CheckpointContact(0)))
	assert.True(t, done)
	assert.Zero(t, reward)
	assert.Equal(t, before, c.State())
	assert.Equal(t, Breakdown{}, c.LastReward())
}

func TestRewardIsSumOfComponents(t *testing.T) {
	c, _ := newController(t, threeCheckpoints())

	ticks := [][]Contact{
		nil,
		{CheckpointContact(0)},
		{CheckpointContact(0), CheckpointContact(1)},
		{{Tag: Finish}},
		{CheckpointContact(2)},
	}
	for i, tick := range ticks {
		reward, _ := c.Step(origin, 0.5, contacts(tick...))
		assert.InDelta(t, c.LastReward().Total(), reward, 1e-12, "tick %d", i)
	}
	assert.Equal(t, timestep.ReachedFinish, c.State().Reason)
}

func TestElapsedTimeIsMonotonic(t *testing.T) {
	c, _ := newController(t, threeCheckpoints())

	prev := 0.0
	for i := 0; i < 20; i++ {
		c.Step(origin, 0.25, nil)
		elapsed := c.State().Elapsed
		assert.GreaterOrEqual(t, elapsed, prev)
		prev = elapsed
	}
	assert.Panics(t, func() { c.Step(origin, -1, nil) })
}

func TestEnder(t *testing.T) {
	c, _ := newController(t, threeCheckpoints())

	step := timestep.New(timestep.Mid, 0, 1, nil, 1)
	assert.False(t, c.End(&step))
	assert.True(t, step.Mid())

	c.Step(origin, 0.1, contacts(Contact{Tag: Wall}))
	assert.True(t, c.End(&step))
	assert.True(t, step.Last())
	assert.Equal(t, timestep.HitWall, step.EndType())
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	courses, err := NewFixedCourse(threeCheckpoints())
	require.NoError(t, err)
	host := &recordingHost{}

	_, err = New(DefaultConfig(), nil, host)
	assert.ErrorIs(t, err, ErrNilCourses)

	_, err = New(DefaultConfig(), courses, nil)
	assert.ErrorIs(t, err, ErrNilHost)

	bad := []func(*Config){
		func(c *Config) { c.K = 0 },
		func(c *Config) { c.Epsilon = 0 },
		func(c *Config) { c.MaxEpisodeLength = -1 },
		func(c *Config) { c.CollisionPenalty = 2 },
		func(c *Config) { c.TimeoutPenalty = 1 },
		func(c *Config) { c.FinishBonus = -1 },
	}
	for i, mutate := range bad {
		config := DefaultConfig()
		mutate(&config)
		_, err := New(config, courses, host)
		assert.ErrorIs(t, err, ErrInvalidConfig, "case %d", i)
	}
}

func TestStepBeforeResetPanics(t *testing.T) {
	courses, err := NewFixedCourse(threeCheckpoints())
	require.NoError(t, err)
	c, err := New(DefaultConfig(), courses, &recordingHost{})
	require.NoError(t, err)

	assert.Panics(t, func() { c.Step(origin, 0.1, nil) })
}

func BenchmarkControllerStep(b *testing.B) {
	courses, _ := NewFixedCourse(threeCheckpoints())
	c, _ := New(DefaultConfig(), courses, &recordingHost{})
	starter := environment.NewFixedStarter(0, 0)
	c.Reset(starter)

	seq := contacts(CheckpointContact(1), Contact{Tag: Finish})
	for i := 0; i < b.N; i++ {
		if _, done := c.Step(origin, 0.02, seq); done {
			c.Reset(starter)
		}
	}
}
