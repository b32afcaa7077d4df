package economy

import (
	"github.com/lixenwraith/timeforge/event"
)

// UpgradeOutcome classifies an upgrade attempt
type UpgradeOutcome int

const (
	UpgradeAdvanced UpgradeOutcome = iota
	UpgradeRejected
	UpgradeAtMaxTier
	// UpgradeIgnored means the attempt was never evaluated, e.g. on a stopped session
	UpgradeIgnored
)

func (o UpgradeOutcome) String() string {
	switch o {
	case UpgradeAdvanced:
		return "advanced"
	case UpgradeRejected:
		return "rejected"
	case UpgradeAtMaxTier:
		return "max_tier"
	case UpgradeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// UpgradeResult describes what AttemptUpgrade did
type UpgradeResult struct {
	Outcome UpgradeOutcome
	Tier    int  // Tier after the attempt
	Missing Cost // Shortfall, set only for UpgradeRejected
	Won     bool // True only on the attempt that reached the terminal tier
}

// Progression is the time machine tier state machine
// Tier only moves forward, one step per successful attempt, and stops at Tiers()-1
type Progression struct {
	costs CostTable
	tier  int
	won   bool
}

// NewProgression validates the cost table and starts at tier 0
func NewProgression(costs CostTable) (*Progression, error) {
	if err := costs.Validate(); err != nil {
		return nil, err
	}
	table := make(CostTable, len(costs))
	copy(table, costs)
	return &Progression{costs: table}, nil
}

// Tier returns the current tier
func (p *Progression) Tier() int { return p.tier }

// MaxTier returns the terminal tier T-1
func (p *Progression) MaxTier() int { return len(p.costs) - 1 }

// Won reports whether the terminal tier has been reached
func (p *Progression) Won() bool { return p.won }

// NextCost returns the cost of the next tier, false at the terminal tier
func (p *Progression) NextCost() (Cost, bool) {
	if p.tier >= p.MaxTier() {
		return Cost{}, false
	}
	return p.costs[p.tier+1], true
}

// AttemptUpgrade pays the next tier's cost from the ledger and advances one tier
// Deduction and advance happen together or not at all
func (p *Progression) AttemptUpgrade(ledger *Ledger, emit event.Emitter) UpgradeResult {
	if emit == nil {
		emit = event.Discard
	}

	if p.tier >= p.MaxTier() {
		emit.Emit(event.EventAlreadyMaxTier, &event.TierPayload{Tier: p.tier})
		return UpgradeResult{Outcome: UpgradeAtMaxTier, Tier: p.tier}
	}

	cost := p.costs[p.tier+1]
	if err := ledger.DeductAll(cost); err != nil {
		missing, _ := ledger.Covers(cost)
		emit.Emit(event.EventUpgradeRejected, &event.UpgradeRejectedPayload{
			TargetTier: p.tier + 1,
			Missing:    missing,
		})
		return UpgradeResult{Outcome: UpgradeRejected, Tier: p.tier, Missing: missing}
	}

	p.tier++
	emit.Emit(event.EventTierAdvanced, &event.TierAdvancedPayload{Tier: p.tier, Cost: cost})

	result := UpgradeResult{Outcome: UpgradeAdvanced, Tier: p.tier}
	if p.tier == p.MaxTier() && !p.won {
		p.won = true
		result.Won = true
		emit.Emit(event.EventWinConditionReached, &event.TierPayload{Tier: p.tier})
	}
	return result
}
