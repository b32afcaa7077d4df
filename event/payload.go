package event

import (
	"github.com/lixenwraith/timeforge/core"
)

// PauseToggledPayload carries the pause state after a toggle
type PauseToggledPayload struct {
	Paused bool
}

// TargetResolvedPayload identifies the logical target behind a hit
type TargetResolvedPayload struct {
	TargetID string
	Upgrade  bool              // True for the time machine, false for an island
	Resource core.ResourceType // Valid only when Upgrade is false
}

// ResourceIncrementedPayload reports a ledger credit
type ResourceIncrementedPayload struct {
	Resource core.ResourceType
	Amount   int
	Count    int // Count after the increment
}

// UpgradeRejectedPayload lists the shortfall per resource for the next tier
type UpgradeRejectedPayload struct {
	TargetTier int
	Missing    [core.ResourceCount]int
}

// TierPayload carries a tier index
type TierPayload struct {
	Tier int
}

// TierAdvancedPayload reports the new tier and what was paid for it
type TierAdvancedPayload struct {
	Tier int
	Cost [core.ResourceCount]int
}

// DisruptionEvaluatedPayload reports a Bernoulli trial outcome
type DisruptionEvaluatedPayload struct {
	Triggered bool
}

// DisruptionAppliedPayload reports a single resource loss
type DisruptionAppliedPayload struct {
	Resource  core.ResourceType
	Amount    int
	Remaining int
}

// AssetSwapFailedPayload reports a failed visual swap attempt
type AssetSwapFailedPayload struct {
	Tier    int
	Attempt int
	Err     string
}
