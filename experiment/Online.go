package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	env "github.com/samuelfneumann/racetrack/environment"
	"github.com/samuelfneumann/racetrack/experiment/checkpointer"
	"github.com/samuelfneumann/racetrack/experiment/tracker"
	"github.com/samuelfneumann/racetrack/policy"
	ts "github.com/samuelfneumann/racetrack/timestep"
)

// Online is an Experiment that runs a policy online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	policy.Policy
	maxSteps      uint
	currentSteps  uint
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
	summaries     []Summary
	listeners     []func(Summary)
	logger        zerolog.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given policy. The steps parameter determines how
// many timesteps the experiment is run for, with 0 meaning no step
// budget. The t parameter determines what data is tracked and the c
// parameter determines what data is checkpointed during the
// experiment.
func NewOnline(e env.Environment, p policy.Policy, steps uint,
	t []tracker.Tracker, c []checkpointer.Checkpointer,
	logger zerolog.Logger) *Online {
	return &Online{
		Environment:   e,
		Policy:        p,
		maxSteps:      steps,
		trackers:      t,
		checkpointers: c,
		logger:        logger,
	}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Notify registers fn to be called with the summary of each finished
// episode, on the goroutine running the experiment
func (o *Online) Notify(fn func(Summary)) {
	o.listeners = append(o.listeners, fn)
}

// RunEpisode runs a single episode of the experiment and returns
// whether the step budget has been reached
func (o *Online) RunEpisode() (bool, error) {
	if o.budgetReached() {
		return true, nil
	}

	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: could not reset: %w", err)
	}
	if err := o.track(step); err != nil {
		return false, err
	}

	episodicReturn := 0.0
	for !step.Last() && !o.budgetReached() {
		o.currentSteps++

		action := o.Policy.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: could not step: %w", err)
		}
		episodicReturn += step.Reward

		if err := o.track(step); err != nil {
			return false, err
		}
	}

	if step.Last() {
		summary := Summary{
			Episode: len(o.summaries) + 1,
			Steps:   step.Number,
			Return:  episodicReturn,
			End:     step.EndType(),
		}
		o.summaries = append(o.summaries, summary)

		o.logger.Info().
			Int("episode", summary.Episode).
			Int("steps", summary.Steps).
			Float64("return", summary.Return).
			Stringer("end", summary.End).
			Msg("episode finished")

		for _, fn := range o.listeners {
			fn(summary)
		}
	}

	return o.budgetReached(), nil
}

// Run runs the entire experiment for all timesteps. The context is
// checked between episodes.
func (o *Online) Run(ctx context.Context) error {
	if o.maxSteps == 0 {
		return fmt.Errorf("run: experiment has no step budget")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ended, err := o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if ended {
			return nil
		}
	}
}

// RunEpisodes runs n episodes, or fewer if the step budget is reached
// first. The context is checked between episodes.
func (o *Online) RunEpisodes(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		ended, err := o.RunEpisode()
		if err != nil {
			return fmt.Errorf("runEpisodes: %w", err)
		}
		if ended {
			return nil
		}
	}
	return nil
}

// Summaries returns the summaries of all finished episodes
func (o *Online) Summaries() []Summary {
	return append([]Summary(nil), o.summaries...)
}

// Steps returns the number of environment steps taken so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

func (o *Online) budgetReached() bool {
	return o.maxSteps > 0 && o.currentSteps >= o.maxSteps
}

// track tracks the current timestep by caching its data in each
// Tracker and passing it to each Checkpointer
func (o *Online) track(t ts.TimeStep) error {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return fmt.Errorf("track: could not checkpoint: %w", err)
		}
	}
	return nil
}
