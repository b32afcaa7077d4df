package disruption

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lixenwraith/timeforge/core"
	"github.com/lixenwraith/timeforge/economy"
	"github.com/lixenwraith/timeforge/event"
)

// ErrInvalidConfig wraps every disruption configuration failure
var ErrInvalidConfig = errors.New("invalid disruption config")

// Source is the random draw source; *rand.Rand from math/rand/v2 satisfies it
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Config is static disruption configuration
type Config struct {
	Interval             time.Duration
	TriggerProbability   float64
	MaxDeductionFraction float64
}

// Validate checks the interval is positive and both ratios lie in [0,1]
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval %v must be positive", ErrInvalidConfig, c.Interval)
	}
	if math.IsNaN(c.TriggerProbability) || c.TriggerProbability < 0 || c.TriggerProbability > 1 {
		return fmt.Errorf("%w: trigger probability %v outside [0,1]", ErrInvalidConfig, c.TriggerProbability)
	}
	if math.IsNaN(c.MaxDeductionFraction) || c.MaxDeductionFraction < 0 || c.MaxDeductionFraction > 1 {
		return fmt.Errorf("%w: max deduction fraction %v outside [0,1]", ErrInvalidConfig, c.MaxDeductionFraction)
	}
	return nil
}

// Outcome describes a single Tick
type Outcome struct {
	Evaluated bool                    // Interval elapsed and trial drawn
	Triggered bool                    // Trial succeeded
	Deducted  [core.ResourceCount]int // Amount removed per resource
}

// Scheduler evaluates at most one disruption trial per interval
// Not safe for concurrent use; the owning session serializes access
type Scheduler struct {
	cfg         Config
	rng         Source
	lastTrigger time.Time
}

// New creates a scheduler whose first window starts at start
func New(cfg Config, rng Source, start time.Time) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}
	return &Scheduler{cfg: cfg, rng: rng, lastTrigger: start}, nil
}

// Config returns the static configuration
func (s *Scheduler) Config() Config { return s.cfg }

// LastTrigger returns the start of the current interval window
func (s *Scheduler) LastTrigger() time.Time { return s.lastTrigger }

// Remaining returns time until the next evaluation is allowed, zero if due
func (s *Scheduler) Remaining(now time.Time) time.Duration {
	if d := s.cfg.Interval - now.Sub(s.lastTrigger); d > 0 {
		return d
	}
	return 0
}

// Tick evaluates the disruption for clock value now
// A paused tick is skipped entirely and leaves the window untouched
// Any evaluation, successful or not, restarts the window at now
func (s *Scheduler) Tick(now time.Time, paused bool, ledger *economy.Ledger, emit event.Emitter) Outcome {
	var out Outcome
	if paused {
		return out
	}
	if now.Sub(s.lastTrigger) < s.cfg.Interval {
		return out
	}
	if emit == nil {
		emit = event.Discard
	}

	s.lastTrigger = now
	out.Evaluated = true
	out.Triggered = s.rng.Float64() < s.cfg.TriggerProbability
	emit.Emit(event.EventDisruptionEvaluated, &event.DisruptionEvaluatedPayload{Triggered: out.Triggered})

	if !out.Triggered {
		return out
	}

	for _, rt := range core.ResourceTypes() {
		count := ledger.Query(rt)
		limit := int(math.Floor(float64(count) * s.cfg.MaxDeductionFraction))
		if limit <= 0 {
			continue
		}
		amount := s.rng.IntN(limit + 1)
		if amount == 0 {
			continue
		}
		removed, err := ledger.Deduct(rt, amount)
		if err != nil || removed == 0 {
			continue
		}
		out.Deducted[rt] = removed
		emit.Emit(event.EventDisruptionApplied, &event.DisruptionAppliedPayload{
			Resource:  rt,
			Amount:    removed,
			Remaining: ledger.Query(rt),
		})
	}
	return out
}
