package episode

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a Config has constants which
// cannot produce a well-formed reward signal
var ErrInvalidConfig = errors.New("invalid episode config")

// Config holds the tunable reward constants and the episode length
// limit. None of these values are fixed behaviour; they are usually
// tuned by trial for each task.
type Config struct {
	// K scales the proximity reward K / max(distance, Epsilon)
	K float64 `json:"k" mapstructure:"k"`

	// Epsilon bounds distance away from zero before division
	Epsilon float64 `json:"epsilon" mapstructure:"epsilon"`

	CheckpointBonus  float64 `json:"checkpoint_bonus" mapstructure:"checkpoint_bonus"`
	FinishBonus      float64 `json:"finish_bonus" mapstructure:"finish_bonus"`
	CollisionPenalty float64 `json:"collision_penalty" mapstructure:"collision_penalty"`
	TimeoutPenalty   float64 `json:"timeout_penalty" mapstructure:"timeout_penalty"`

	// MaxEpisodeLength is the simulated time in seconds after which an
	// episode times out
	MaxEpisodeLength float64 `json:"max_episode_length" mapstructure:"max_episode_length"`
}

// DefaultConfig returns the reward constants used by the racetrack
// car task
func DefaultConfig() Config {
	return Config{
		K:                1.0,
		Epsilon:          0.1,
		CheckpointBonus:  1.0,
		FinishBonus:      10.0,
		CollisionPenalty: -2.0,
		TimeoutPenalty:   -1.0,
		MaxEpisodeLength: 500.0,
	}
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.K <= 0 {
		return fmt.Errorf("%w: k must be positive, got %v", ErrInvalidConfig,
			c.K)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon must be positive, got %v",
			ErrInvalidConfig, c.Epsilon)
	}
	if c.MaxEpisodeLength <= 0 {
		return fmt.Errorf("%w: max episode length must be positive, got %v",
			ErrInvalidConfig, c.MaxEpisodeLength)
	}
	if c.CheckpointBonus < 0 || c.FinishBonus < 0 {
		return fmt.Errorf("%w: bonuses must be non-negative", ErrInvalidConfig)
	}
	if c.CollisionPenalty > 0 || c.TimeoutPenalty > 0 {
		return fmt.Errorf("%w: penalties must not be positive",
			ErrInvalidConfig)
	}
	return nil
}
