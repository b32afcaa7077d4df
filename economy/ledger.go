package economy

import (
	"fmt"

	"github.com/lixenwraith/timeforge/core"
)

// Ledger holds the non-negative per-resource counters of one session
// Not safe for concurrent use; the owning session serializes access
type Ledger struct {
	counts [core.ResourceCount]int
}

// NewLedger returns a ledger with every count at zero
func NewLedger() *Ledger {
	return &Ledger{}
}

// Increment adds amount to t and returns the new count
func (l *Ledger) Increment(t core.ResourceType, amount int) (int, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("increment %v: %w", t, ErrUnknownResource)
	}
	if amount < 0 {
		return l.counts[t], fmt.Errorf("increment %v by %d: %w", t, amount, ErrNegativeAmount)
	}
	l.counts[t] += amount
	return l.counts[t], nil
}

// Deduct removes min(amount, count) from t and returns the amount actually removed
func (l *Ledger) Deduct(t core.ResourceType, amount int) (int, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("deduct %v: %w", t, ErrUnknownResource)
	}
	if amount < 0 {
		return 0, fmt.Errorf("deduct %v by %d: %w", t, amount, ErrNegativeAmount)
	}
	removed := min(amount, l.counts[t])
	l.counts[t] -= removed
	return removed, nil
}

// Query returns the count for t, zero for an invalid type
func (l *Ledger) Query(t core.ResourceType) int {
	if !t.Valid() {
		return 0
	}
	return l.counts[t]
}

// Snapshot returns a copy of all counts
func (l *Ledger) Snapshot() [core.ResourceCount]int {
	return l.counts
}

// Covers reports whether every count meets cost; missing holds the per-type shortfall
func (l *Ledger) Covers(cost Cost) (missing Cost, ok bool) {
	ok = true
	for i, c := range cost {
		if short := c - l.counts[i]; short > 0 {
			missing[i] = short
			ok = false
		}
	}
	return missing, ok
}

// DeductAll removes cost from every resource, or nothing if any resource is short
func (l *Ledger) DeductAll(cost Cost) error {
	if _, ok := l.Covers(cost); !ok {
		return ErrInsufficient
	}
	for i, c := range cost {
		l.counts[i] -= c
	}
	return nil
}
