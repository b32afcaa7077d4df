// Package config loads game configuration from TIMEFORGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/timeforge/disruption"
	"github.com/lixenwraith/timeforge/economy"
	"github.com/lixenwraith/timeforge/engine"
	"github.com/lixenwraith/timeforge/interaction"
)

// EnvPrefix is prepended to every variable name
const EnvPrefix = "TIMEFORGE_"

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Color modes accepted by the terminal host
const (
	ColorAuto      = "auto"
	ColorTrueColor = "truecolor"
	ColorMono      = "mono"
)

// Config is the complete runtime configuration
type Config struct {
	// Uniform per-resource cost of each tier, index 0 unused
	TierCosts []int `env:"TIER_COSTS" envSeparator:"," envDefault:"0,20,50,80,100"`

	DisruptionInterval    time.Duration `env:"DISRUPTION_INTERVAL"    envDefault:"30s"`
	DisruptionProbability float64       `env:"DISRUPTION_PROBABILITY" envDefault:"0.3"`
	DisruptionFraction    float64       `env:"DISRUPTION_FRACTION"    envDefault:"0.8"`
	FreezeOnPause         bool          `env:"FREEZE_ON_PAUSE"`

	// Seed for disruption draws; zero picks a time-based seed
	Seed uint64 `env:"SEED"`

	// Targets overrides the scene table as "id=Kind,..." pairs
	Targets string `env:"TARGETS"`

	DayLength     time.Duration `env:"DAY_LENGTH"     envDefault:"2m"`
	FrameInterval time.Duration `env:"FRAME_INTERVAL" envDefault:"16ms"`

	AudioEnabled bool    `env:"AUDIO"        envDefault:"true"`
	MasterVolume float64 `env:"MASTER_VOLUME" envDefault:"0.6"`

	ColorMode string `env:"COLOR" envDefault:"auto"`
	Debug     bool   `env:"DEBUG"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses vars instead of the process environment when non-nil
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: EnvPrefix}
	if vars != nil {
		opts.Environment = vars
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration with every variable unset
func Default() Config {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		panic(fmt.Sprintf("config defaults invalid: %v", err))
	}
	return cfg
}

// Validate checks every field without building the session
func (c Config) Validate() error {
	if err := economy.UniformCostTable(c.TierCosts).Validate(); err != nil {
		return fmt.Errorf("%w: %sTIER_COSTS: %w", ErrInvalid, EnvPrefix, err)
	}
	if err := c.disruption().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.targets(); err != nil {
		return fmt.Errorf("%w: %sTARGETS: %w", ErrInvalid, EnvPrefix, err)
	}
	if c.DayLength < 0 {
		return fmt.Errorf("%w: day length %v is negative", ErrInvalid, c.DayLength)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("%w: frame interval %v must be positive", ErrInvalid, c.FrameInterval)
	}
	if math.IsNaN(c.MasterVolume) || c.MasterVolume < 0 || c.MasterVolume > 1 {
		return fmt.Errorf("%w: master volume %v outside [0,1]", ErrInvalid, c.MasterVolume)
	}
	switch c.ColorMode {
	case ColorAuto, ColorTrueColor, ColorMono:
	default:
		return fmt.Errorf("%w: color mode %q", ErrInvalid, c.ColorMode)
	}
	return nil
}

// SessionConfig converts to the engine configuration
func (c Config) SessionConfig() (engine.SessionConfig, error) {
	targets, err := c.targets()
	if err != nil {
		return engine.SessionConfig{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return engine.SessionConfig{
		Costs:                   economy.UniformCostTable(c.TierCosts),
		Targets:                 targets,
		Disruption:              c.disruption(),
		Seed:                    seed,
		DayLength:               c.DayLength,
		FreezeDisruptionOnPause: c.FreezeOnPause,
	}, nil
}

func (c Config) disruption() disruption.Config {
	return disruption.Config{
		Interval:             c.DisruptionInterval,
		TriggerProbability:   c.DisruptionProbability,
		MaxDeductionFraction: c.DisruptionFraction,
	}
}

func (c Config) targets() (map[string]interaction.Target, error) {
	if strings.TrimSpace(c.Targets) == "" {
		return interaction.DefaultTable(), nil
	}
	table, err := interaction.ParseTable(c.Targets)
	if err != nil {
		return nil, err
	}
	// Reject unusable tables here rather than at session construction
	if _, err := interaction.NewResolver(table); err != nil {
		return nil, err
	}
	return table, nil
}
