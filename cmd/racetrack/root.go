package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/racetrack/environment/racetrack"
	"github.com/samuelfneumann/racetrack/policy"
	"github.com/spf13/cobra"
)

// configFile is the path given by the persistent --config flag
var configFile string

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "racetrack",
		Short: "Episodic checkpoint racing for reinforcement learning agents",
		Long: `Racetrack simulates top-down car and point navigation tasks.

Each episode the agent must pass through an ordered sequence of
checkpoints, or reach a single target, while avoiding walls. Rewards
shape the agent towards its active target.

Configuration is read from an optional config file, then from
RACETRACK_* environment variables (e.g. RACETRACK_ENV_REWARD_K), and
finally from command line flags.`,
		SilenceUsage: true,
	}

	defaults := Default()
	cmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file (JSON, YAML or TOML)")
	cmd.PersistentFlags().String("log-level", defaults.LogLevel,
		"Log level (debug, info, warn, error)")

	cmd.AddCommand(
		runCommand(),
		renderCommand(),
		configCommand(),
	)

	return cmd
}

// setup loads and validates the configuration for cmd and builds the
// logger it configures
func setup(cmd *cobra.Command) (*Config, zerolog.Logger, error) {
	cfg, err := loadConfig(configFile, cmd.Flags())
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("invalid configuration: %w",
			err)
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

func newLogger(out io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("newLogger: %w", err)
	}

	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger(), nil
}

// newPolicy returns the named policy for an environment variant
func newPolicy(name string, variant racetrack.Variant, seed uint64,
	input io.Reader) (policy.Policy, error) {
	switch strings.ToLower(name) {
	case "random":
		return policy.NewRandom(racetrack.ActionDims, seed), nil

	case "seek":
		if variant == racetrack.Car {
			return policy.NewSeekCar(2.0, 1.0), nil
		}
		return policy.NewSeekPoint(1.0), nil

	case "manual":
		layout := policy.Move
		if variant == racetrack.Car {
			layout = policy.Drive
		}
		return policy.NewManual(policy.NewReaderAxes(input), layout), nil
	}

	return nil, fmt.Errorf("newPolicy: no such policy %q", name)
}

// stdin is the source of manual control input
var stdin io.Reader = os.Stdin
