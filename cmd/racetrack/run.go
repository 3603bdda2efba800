package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/racetrack/experiment"
	"github.com/samuelfneumann/racetrack/experiment/checkpointer"
	"github.com/samuelfneumann/racetrack/experiment/tracker"
	ts "github.com/samuelfneumann/racetrack/timestep"
	"github.com/samuelfneumann/racetrack/utils/progressbar"
	"github.com/spf13/cobra"
)

func runCommand() *cobra.Command {
	defaults := Default()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run episodes and save the tracked data",
		Long: `Run episodes of a policy on one or more independent environments.

Each environment runs --episodes episodes, or until --steps steps have
been taken. With --episodes 0, each environment runs until its step
budget is spent.

The returns, episode lengths and end reasons of each environment are
gob encoded to <out>/env-<i>/{returns,lengths,reasons}.bin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt,
				syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger, cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.String("policy", defaults.Policy, "Policy to run (seek, random, manual)")
	flags.Int("episodes", defaults.Episodes, "Episodes to run in each environment (0 to run to the step budget)")
	flags.Uint("steps", defaults.Steps, "Step budget of each environment (0 for no budget)")
	flags.Int("parallel", defaults.Parallel, "Number of independent environments")
	flags.Uint64("seed", defaults.Seed, "Seed of the first environment")
	flags.Int("checkpoint-every", defaults.CheckpointEvery, "Save tracked data every n episodes (0 to save at the end only)")
	flags.Int("checkpoint-steps", defaults.CheckpointSteps, "Save timestamped returns every n steps (0 to disable)")
	flags.String("out", defaults.Out, "Output directory")
	flags.Bool("progress", defaults.Progress, "Display a progress bar")

	return cmd
}

// envTrackers are the trackers of a single environment
type envTrackers struct {
	returns *tracker.Return
	lengths *tracker.EpisodeLength
	reasons *tracker.EndReason
}

func run(ctx context.Context, cfg *Config, logger zerolog.Logger,
	progress io.Writer) error {
	experiments := make([]*experiment.Online, cfg.Parallel)
	trackers := make([]envTrackers, cfg.Parallel)

	// The bar counts finished episodes, or the steps of finished
	// episodes when running to the step budget
	var bar *progressbar.ManualProgressBar
	if cfg.Progress {
		total := cfg.Episodes
		if total == 0 {
			total = int(cfg.Steps)
		}
		bar = progressbar.NewManualProgressBar(progress, 40,
			total*cfg.Parallel)
	}

	for i := range experiments {
		seed := cfg.Seed + uint64(i)
		envLogger := logger.With().Int("env", i).Logger()

		env, _, err := cfg.Env.Create(seed, envLogger)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		p, err := newPolicy(cfg.Policy, cfg.Env.Variant, seed, stdin)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}

		dir := filepath.Join(cfg.Out, fmt.Sprintf("env-%d", i))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("run: could not create output directory: %w",
				err)
		}

		trackers[i] = envTrackers{
			returns: tracker.NewReturn(filepath.Join(dir, "returns.bin")),
			lengths: tracker.NewEpisodeLength(filepath.Join(dir, "lengths.bin")),
			reasons: tracker.NewEndReason(filepath.Join(dir, "reasons.bin")),
		}

		var checkpointers []checkpointer.Checkpointer
		if cfg.CheckpointEvery > 0 {
			c, err := checkpointer.NewNEpisode(cfg.CheckpointEvery,
				trackers[i].returns, checkpointer.FilenameEnumerator(0,
					filepath.Join(dir, "returns-checkpoint-"), ".bin"))
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			checkpointers = append(checkpointers, c)
		}
		if cfg.CheckpointSteps > 0 {
			c, err := checkpointer.NewNStep(cfg.CheckpointSteps,
				trackers[i].returns, checkpointer.FileTimer(
					filepath.Join(dir, "returns-step"), ".bin"))
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			checkpointers = append(checkpointers, c)
		}

		experiments[i] = experiment.NewOnline(env, p, cfg.Steps, nil,
			checkpointers, envLogger)
		experiments[i].Register(trackers[i].returns)
		experiments[i].Register(trackers[i].lengths)
		experiments[i].Register(trackers[i].reasons)

		if bar != nil {
			experiments[i].Notify(func(s experiment.Summary) {
				if cfg.Episodes > 0 {
					bar.Increment()
				} else {
					bar.Add(s.Steps)
				}
				bar.Display()
			})
		}
	}

	parallel, err := experiment.NewParallel(experiments...)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	logger.Info().
		Str("policy", cfg.Policy).
		Int("episodes", cfg.Episodes).
		Uint("steps", cfg.Steps).
		Int("parallel", cfg.Parallel).
		Msg("starting run")

	var runErr error
	if cfg.Episodes == 0 {
		runErr = parallel.Run(ctx)
	} else {
		runErr = parallel.RunEpisodes(ctx, cfg.Episodes)
	}
	if bar != nil {
		bar.Finish()
	}

	// Data of the episodes that did finish is saved even if the run
	// was interrupted
	if err := parallel.Save(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("run: %w", runErr)
	}

	for i, t := range trackers {
		counts := t.reasons.Counts()
		logger.Info().
			Int("env", i).
			Int("finished", counts[ts.ReachedFinish]).
			Int("hit_wall", counts[ts.HitWall]).
			Int("timed_out", counts[ts.TimedOut]).
			Msg("run complete")
	}
	return nil
}
