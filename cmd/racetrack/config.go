package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/racetrack/environment/envconfig"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix prefixes the environment variables that override the
// configuration, e.g. RACETRACK_ENV_REWARD_K
const envPrefix = "RACETRACK"

// Config holds the configuration of a racetrack run
type Config struct {
	Env envconfig.Config `json:"env" mapstructure:"env"`

	// Policy is one of seek, random or manual
	Policy string `json:"policy" mapstructure:"policy"`

	// Episodes is the number of episodes run in each environment. With
	// 0 episodes, each environment runs until its step budget is spent.
	Episodes int `json:"episodes" mapstructure:"episodes"`

	// Steps is the step budget of each environment, 0 for no budget
	Steps    uint   `json:"steps" mapstructure:"steps"`
	Parallel int    `json:"parallel" mapstructure:"parallel"`
	Seed     uint64 `json:"seed" mapstructure:"seed"`

	// CheckpointEvery saves the tracked data every n episodes, 0 to
	// save only at the end of a run
	CheckpointEvery int `json:"checkpoint_every" mapstructure:"checkpoint_every"`

	// CheckpointSteps saves the returns every n environment steps to
	// timestamped files, 0 to disable
	CheckpointSteps int `json:"checkpoint_steps" mapstructure:"checkpoint_steps"`

	Out      string `json:"out" mapstructure:"out"`
	Progress bool   `json:"progress" mapstructure:"progress"`
	Frames   int    `json:"frames" mapstructure:"frames"`
	LogLevel string `json:"log_level" mapstructure:"log_level"`
}

// Default returns a config with sensible defaults
func Default() *Config {
	return &Config{
		Env:      envconfig.Default(),
		Policy:   "seek",
		Episodes: 10,
		Parallel: 1,
		Out:      "out",
		Progress: true,
		Frames:   200,
		LogLevel: "info",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Env.Validate(); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	switch c.Policy {
	case "seek", "random", "manual":
	default:
		return fmt.Errorf("policy must be one of seek, random or manual, "+
			"got %q", c.Policy)
	}
	if c.Episodes < 0 {
		return fmt.Errorf("episodes must not be negative")
	}
	if c.Episodes == 0 && c.Steps == 0 {
		return fmt.Errorf("one of episodes or steps must be positive")
	}
	if c.Parallel <= 0 {
		return fmt.Errorf("parallel must be positive")
	}
	if c.Policy == "manual" && c.Parallel > 1 {
		return fmt.Errorf("manual control cannot run in parallel")
	}
	if c.CheckpointEvery < 0 {
		return fmt.Errorf("checkpoint_every must not be negative")
	}
	if c.CheckpointSteps < 0 {
		return fmt.Errorf("checkpoint_steps must not be negative")
	}
	if c.Out == "" {
		return fmt.Errorf("out is required")
	}
	if c.Frames <= 0 {
		return fmt.Errorf("frames must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// loadConfig builds the effective configuration from, in increasing
// order of precedence, the defaults, the config file, RACETRACK_*
// environment variables and the flags set on the command line.
func loadConfig(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Every key must be known to viper for environment variables to
	// override it during Unmarshal
	defaults, err := flatten(Default())
	if err != nil {
		return nil, fmt.Errorf("loadConfig: %w", err)
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("loadConfig: could not read config "+
				"file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, ok := defaults[key]; !ok || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("loadConfig: %w", bindErr)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("loadConfig: could not decode config: %w",
			err)
	}
	return cfg, nil
}

// flatten returns the dotted keys of a config, e.g. env.reward.k,
// mapped to their values
func flatten(cfg *Config) (map[string]interface{}, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}

	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}

	keys := make(map[string]interface{})
	var walk func(prefix string, node map[string]interface{})
	walk = func(prefix string, node map[string]interface{}) {
		for k, value := range node {
			key := prefix + k
			if child, ok := value.(map[string]interface{}); ok {
				walk(key+".", child)
				continue
			}
			keys[key] = value
		}
	}
	walk("", tree)

	return keys, nil
}
