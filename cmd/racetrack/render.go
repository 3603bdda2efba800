package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func renderCommand() *cobra.Command {
	defaults := Default()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an episode to PNG frames",
		Long: `Render steps of a policy on an environment to PNG frames.

Frames are written to <out>/frame-<n>.png. When an episode ends before
all frames are rendered, a new episode is started.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			return render(cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.String("policy", defaults.Policy, "Policy to run (seek, random, manual)")
	flags.Int("frames", defaults.Frames, "Number of frames to render")
	flags.Uint64("seed", defaults.Seed, "Seed of the environment")
	flags.String("out", defaults.Out, "Output directory")

	return cmd
}

func render(cfg *Config, logger zerolog.Logger) error {
	env, step, err := cfg.Env.Create(cfg.Seed, logger)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	p, err := newPolicy(cfg.Policy, cfg.Env.Variant, cfg.Seed, stdin)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
		return fmt.Errorf("render: could not create output directory: %w",
			err)
	}

	for frame := 0; frame < cfg.Frames; frame++ {
		filename := filepath.Join(cfg.Out, fmt.Sprintf("frame-%05d.png",
			frame))
		if err := env.Render(filename); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		if step.Last() {
			logger.Info().
				Stringer("end", step.EndType()).
				Int("steps", step.Number).
				Msg("episode finished")

			if step, err = env.Reset(); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			continue
		}

		if step, _, err = env.Step(p.SelectAction(step)); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}

	logger.Info().
		Int("frames", cfg.Frames).
		Str("out", cfg.Out).
		Msg("render complete")
	return nil
}
