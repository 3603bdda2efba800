// Package envconfig provides configuration structs for configuring
// racetrack environments with default physical parameters and reward
// constants. Environment configurations in this package are JSON
// serializable and can be decoded by viper through their mapstructure
// tags.
package envconfig

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/racetrack/environment/racetrack"
	"github.com/samuelfneumann/racetrack/episode"
	ts "github.com/samuelfneumann/racetrack/timestep"
)

// Config implements a specific configuration of a racetrack
// environment
type Config struct {
	Variant  racetrack.Variant `json:"variant" mapstructure:"variant"`
	Track    string            `json:"track" mapstructure:"track"`
	Reward   episode.Config    `json:"reward" mapstructure:"reward"`
	Physics  racetrack.Physics `json:"physics" mapstructure:"physics"`
	Discount float64           `json:"discount" mapstructure:"discount"`
}

// Default returns the default configuration: the car variant on the
// Loop track
func Default() Config {
	return Config{
		Variant:  racetrack.Car,
		Track:    "Loop",
		Reward:   episode.DefaultConfig(),
		Physics:  racetrack.DefaultPhysics(),
		Discount: 0.99,
	}
}

// Validate checks that the Config describes an environment that can
// be created
func (c Config) Validate() error {
	switch c.Variant {
	case racetrack.Car, racetrack.Point:
	default:
		return fmt.Errorf("validate: no such variant %q", c.Variant)
	}

	if _, err := racetrack.TrackByName(c.Track); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := c.Reward.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if c.Physics.FPS <= 0 {
		return fmt.Errorf("validate: fps must be positive, got %v",
			c.Physics.FPS)
	}
	if c.Physics.MoveSpeed < 0 || c.Physics.EnginePower < 0 ||
		c.Physics.SteerTorque < 0 {
		return fmt.Errorf("validate: actuation constants must not be " +
			"negative")
	}
	if c.Physics.Grip < 0 || c.Physics.Grip > 1 {
		return fmt.Errorf("validate: grip must be in [0, 1], got %v",
			c.Physics.Grip)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], got %v",
			c.Discount)
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64, logger zerolog.Logger) (
	*racetrack.Racetrack, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	track, err := racetrack.TrackByName(c.Track)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	logger = logger.With().
		Str("variant", string(c.Variant)).
		Str("track", track.Name).
		Uint64("seed", seed).
		Logger()

	env, step, err := racetrack.New(c.Variant, track, c.Reward, c.Physics,
		c.Discount, seed, logger)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	return env, step, nil
}
