package parameter

import "time"

// Time Machine Progression
const (
	// TierCount is the number of tiers in the reference content, tier 0 is the starting machine
	TierCount = 5

	// ClickYield is the amount added to a resource per island click
	ClickYield = 1
)

// ReferenceTierCosts is the uniform per-resource cost to reach each tier
// Index 0 is unused; tier i costs ReferenceTierCosts[i] of every resource
var ReferenceTierCosts = [TierCount]int{0, 20, 50, 80, 100}

// Disruption Defaults
const (
	// DisruptionInterval is the minimum spacing between disruption evaluations
	DisruptionInterval = 30 * time.Second

	// DisruptionProbability is the chance an evaluation triggers resource loss
	DisruptionProbability = 0.3

	// DisruptionMaxFraction is the upper bound of loss per resource, relative to its count
	DisruptionMaxFraction = 0.8
)

// Day/Night Cycle
const (
	// DayLength is one full day/night period in game time
	DayLength = 2 * time.Minute

	// DaylightMin is the light intensity floor at midnight
	DaylightMin = 0.2
)

// Asset Swap Retry
const (
	AssetRetryInitial     = 200 * time.Millisecond
	AssetRetryMaxInterval = 5 * time.Second
	AssetRetryMaxTries    = 8
)
