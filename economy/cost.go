package economy

import (
	"fmt"

	"github.com/lixenwraith/timeforge/core"
)

// Cost is the per-resource price of a tier transition
type Cost [core.ResourceCount]int

// UniformCost charges n of every resource
func UniformCost(n int) Cost {
	var c Cost
	for i := range c {
		c[i] = n
	}
	return c
}

// CostTable maps tier index to the cost of reaching it from the tier below
// Entry 0 is unused and ignored by validation
type CostTable []Cost

// UniformCostTable builds a table from one amount per tier, applied to every resource
func UniformCostTable(amounts []int) CostTable {
	table := make(CostTable, len(amounts))
	for i, a := range amounts {
		table[i] = UniformCost(a)
	}
	return table
}

// Tiers returns the tier count T
func (ct CostTable) Tiers() int {
	return len(ct)
}

// Validate rejects tables with fewer than two tiers, negative costs,
// or any resource whose cost decreases from one tier to the next
func (ct CostTable) Validate() error {
	if len(ct) < 2 {
		return fmt.Errorf("%w: need at least 2 tiers, got %d", ErrInvalidCostTable, len(ct))
	}
	for tier := 1; tier < len(ct); tier++ {
		for r, c := range ct[tier] {
			if c < 0 {
				return fmt.Errorf("%w: tier %d %v cost %d is negative",
					ErrInvalidCostTable, tier, core.ResourceType(r), c)
			}
			if tier > 1 && c < ct[tier-1][r] {
				return fmt.Errorf("%w: tier %d %v cost %d below tier %d cost %d",
					ErrInvalidCostTable, tier, core.ResourceType(r), c, tier-1, ct[tier-1][r])
			}
		}
	}
	return nil
}
