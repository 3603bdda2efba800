package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/racetrack/environment/racetrack"
	"github.com/samuelfneumann/racetrack/experiment/tracker"
	ts "github.com/samuelfneumann/racetrack/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"policy", func(c *Config) { c.Policy = "teleport" }},
		{"episodes", func(c *Config) { c.Episodes = 0 }},
		{"parallel", func(c *Config) { c.Parallel = 0 }},
		{"manual parallel", func(c *Config) {
			c.Policy = "manual"
			c.Parallel = 2
		}},
		{"negative episodes", func(c *Config) {
			c.Episodes = -1
			c.Steps = 10
		}},
		{"checkpoint", func(c *Config) { c.CheckpointEvery = -1 }},
		{"checkpoint steps", func(c *Config) { c.CheckpointSteps = -1 }},
		{"out", func(c *Config) { c.Out = "" }},
		{"frames", func(c *Config) { c.Frames = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"env", func(c *Config) { c.Env.Track = "Nowhere" }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := Default()
			test.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfigPrecedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "racetrack.yaml")
	yaml := []byte(`
env:
  variant: Point
  track: Arena
  reward:
    k: 2
    finish_bonus: 20
episodes: 4
`)
	require.NoError(t, os.WriteFile(file, yaml, 0o644))

	t.Setenv("RACETRACK_ENV_REWARD_FINISH_BONUS", "5")
	t.Setenv("RACETRACK_EPISODES", "6")

	cmd := runCommand()
	require.NoError(t, cmd.Flags().Set("episodes", "7"))

	cfg, err := loadConfig(file, cmd.Flags())
	require.NoError(t, err)

	// File over defaults
	assert.Equal(t, racetrack.Point, cfg.Env.Variant)
	assert.Equal(t, "Arena", cfg.Env.Track)
	assert.Equal(t, 2.0, cfg.Env.Reward.K)

	// Environment over file
	assert.Equal(t, 5.0, cfg.Env.Reward.FinishBonus)

	// Flags over environment
	assert.Equal(t, 7, cfg.Episodes)

	// Untouched keys keep their defaults
	assert.Equal(t, Default().Env.Reward.Epsilon, cfg.Env.Reward.Epsilon)
	assert.Equal(t, Default().Env.Physics, cfg.Env.Physics)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "none.yaml"), nil)
	assert.Error(t, err)
}

func TestNewPolicy(t *testing.T) {
	for _, name := range []string{"seek", "random", "manual"} {
		for _, variant := range []racetrack.Variant{racetrack.Car,
			racetrack.Point} {
			p, err := newPolicy(name, variant, 1, bytes.NewReader(nil))
			require.NoError(t, err)
			assert.NotNil(t, p)
		}
	}

	_, err := newPolicy("teleport", racetrack.Car, 1, nil)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	cfg := Default()
	cfg.Env.Variant = racetrack.Point
	cfg.Env.Track = "Arena"
	cfg.Episodes = 2
	cfg.Parallel = 2
	cfg.CheckpointEvery = 1
	cfg.Out = t.TempDir()
	require.NoError(t, cfg.Validate())

	var progress bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, zerolog.Nop(),
		&progress))
	assert.Contains(t, progress.String(), "100.00%")

	for _, env := range []string{"env-0", "env-1"} {
		dir := filepath.Join(cfg.Out, env)

		returns, err := tracker.LoadData(filepath.Join(dir, "returns.bin"))
		require.NoError(t, err)
		assert.Len(t, returns, 2)

		lengths, err := tracker.LoadLengths(filepath.Join(dir, "lengths.bin"))
		require.NoError(t, err)
		assert.Len(t, lengths, 2)

		reasons, err := tracker.LoadEndReasons(filepath.Join(dir,
			"reasons.bin"))
		require.NoError(t, err)
		assert.Equal(t, []ts.EndType{ts.ReachedFinish, ts.ReachedFinish},
			reasons)

		assert.FileExists(t, filepath.Join(dir, "returns-checkpoint-2.bin"))
	}
}

func TestRunStepBudget(t *testing.T) {
	cfg := Default()
	cfg.Env.Variant = racetrack.Point
	cfg.Env.Track = "Arena"
	cfg.Episodes = 0
	cfg.Steps = 50
	cfg.CheckpointSteps = 20
	cfg.Progress = false
	cfg.Out = t.TempDir()
	require.NoError(t, cfg.Validate())

	require.NoError(t, run(context.Background(), cfg, zerolog.Nop(),
		io.Discard))

	dir := filepath.Join(cfg.Out, "env-0")
	checkpoints, err := filepath.Glob(filepath.Join(dir, "returns-step-*.bin"))
	require.NoError(t, err)
	assert.Len(t, checkpoints, 2)

	// Only episodes which finished within the budget are tracked
	lengths, err := tracker.LoadLengths(filepath.Join(dir, "lengths.bin"))
	require.NoError(t, err)
	total := 0
	for _, l := range lengths {
		total += l
	}
	assert.LessOrEqual(t, total, 50)
}

func TestRender(t *testing.T) {
	cfg := Default()
	cfg.Frames = 3
	cfg.Out = t.TempDir()

	require.NoError(t, render(cfg, zerolog.Nop()))
	for _, name := range []string{"frame-00000.png", "frame-00002.png"} {
		assert.FileExists(t, filepath.Join(cfg.Out, name))
	}
}
