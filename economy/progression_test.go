package economy

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/lixenwraith/timeforge/core"
	"github.com/lixenwraith/timeforge/event"
)

type recorder struct {
	events []event.GameEvent
}

func (r *recorder) Emit(t event.EventType, payload any) {
	r.events = append(r.events, event.GameEvent{Type: t, Payload: payload})
}

func (r *recorder) count(t event.EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func referenceProgression(t *testing.T) *Progression {
	t.Helper()
	p, err := NewProgression(UniformCostTable([]int{0, 20, 50, 80, 100}))
	if err != nil {
		t.Fatalf("NewProgression: %v", err)
	}
	return p
}

func fill(l *Ledger, n int) {
	for _, rt := range core.ResourceTypes() {
		l.Increment(rt, n)
	}
}

func TestCostTableValidation(t *testing.T) {
	tests := []struct {
		name    string
		table   CostTable
		wantErr bool
	}{
		{"reference", UniformCostTable([]int{0, 20, 50, 80, 100}), false},
		{"flat", UniformCostTable([]int{0, 10, 10}), false},
		{"ignores slot zero", UniformCostTable([]int{-5, 1, 2}), false},
		{"single tier", UniformCostTable([]int{0}), true},
		{"empty", nil, true},
		{"negative", UniformCostTable([]int{0, -1, 5}), true},
		{"decreasing", UniformCostTable([]int{0, 50, 20}), true},
		{"one resource decreasing", CostTable{{}, {10, 10, 10, 10}, {20, 5, 20, 20}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProgression(tt.table)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCostTable) {
					t.Errorf("expected ErrInvalidCostTable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUpgradeRejectedWhenOneResourceShort(t *testing.T) {
	p := referenceProgression(t)
	l := NewLedger()
	rec := &recorder{}

	for i := 0; i < 20; i++ {
		l.Increment(core.ResourceMetal, 1)
	}

	res := p.AttemptUpgrade(l, rec)
	if res.Outcome != UpgradeRejected {
		t.Fatalf("expected rejection, got %v", res.Outcome)
	}
	if l.Query(core.ResourceMetal) != 20 {
		t.Errorf("Metal should remain 20, got %d", l.Query(core.ResourceMetal))
	}
	if p.Tier() != 0 {
		t.Errorf("tier should remain 0, got %d", p.Tier())
	}
	if res.Missing != (Cost{0, 20, 20, 20}) {
		t.Errorf("unexpected missing amounts %v", res.Missing)
	}
	if rec.count(event.EventUpgradeRejected) != 1 || len(rec.events) != 1 {
		t.Fatalf("expected exactly one UpgradeRejected, got %v", rec.events)
	}
	payload := rec.events[0].Payload.(*event.UpgradeRejectedPayload)
	if payload.TargetTier != 1 || payload.Missing[core.ResourceWood] != 20 {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestRepeatedRejectionsAreIdempotent(t *testing.T) {
	p := referenceProgression(t)
	l := NewLedger()
	fill(l, 19)

	for i := 0; i < 5; i++ {
		res := p.AttemptUpgrade(l, nil)
		if res.Outcome != UpgradeRejected {
			t.Fatalf("attempt %d: expected rejection", i)
		}
	}
	if l.Snapshot() != ([core.ResourceCount]int{19, 19, 19, 19}) || p.Tier() != 0 {
		t.Errorf("state drifted: %v tier %d", l.Snapshot(), p.Tier())
	}
}

func TestUpgradeAdvancesAndDeducts(t *testing.T) {
	p := referenceProgression(t)
	l := NewLedger()
	rec := &recorder{}
	fill(l, 20)

	res := p.AttemptUpgrade(l, rec)
	if res.Outcome != UpgradeAdvanced || res.Tier != 1 || res.Won {
		t.Fatalf("unexpected result %+v", res)
	}
	if l.Snapshot() != ([core.ResourceCount]int{}) {
		t.Errorf("expected all zero, got %v", l.Snapshot())
	}
	if p.Tier() != 1 {
		t.Errorf("expected tier 1, got %d", p.Tier())
	}
	if rec.count(event.EventTierAdvanced) != 1 || rec.count(event.EventWinConditionReached) != 0 {
		t.Errorf("unexpected events %v", rec.events)
	}

	// Surplus stays in the ledger
	fill(l, 57)
	p.AttemptUpgrade(l, rec)
	if l.Snapshot() != ([core.ResourceCount]int{7, 7, 7, 7}) {
		t.Errorf("expected 7 each after paying 50, got %v", l.Snapshot())
	}
}

func TestWinFiresExactlyOnce(t *testing.T) {
	p := referenceProgression(t)
	l := NewLedger()
	rec := &recorder{}

	for _, cost := range []int{20, 50, 80} {
		fill(l, cost)
		res := p.AttemptUpgrade(l, rec)
		if res.Won {
			t.Fatalf("win reported early at tier %d", res.Tier)
		}
	}
	if rec.count(event.EventWinConditionReached) != 0 {
		t.Fatal("win emitted before the terminal tier")
	}

	fill(l, 100)
	res := p.AttemptUpgrade(l, rec)
	if !res.Won || res.Tier != 4 || !p.Won() {
		t.Fatalf("expected win at tier 4, got %+v", res)
	}

	// Further attempts at max tier are no-ops
	fill(l, 500)
	for i := 0; i < 3; i++ {
		res = p.AttemptUpgrade(l, rec)
		if res.Outcome != UpgradeAtMaxTier || res.Won {
			t.Errorf("expected AlreadyMaxTier, got %+v", res)
		}
	}
	if p.Tier() != 4 {
		t.Errorf("tier wrapped or moved: %d", p.Tier())
	}
	if l.Snapshot() != ([core.ResourceCount]int{500, 500, 500, 500}) {
		t.Errorf("max tier attempts must not deduct, got %v", l.Snapshot())
	}
	if rec.count(event.EventWinConditionReached) != 1 {
		t.Errorf("expected exactly one win event, got %d", rec.count(event.EventWinConditionReached))
	}
	if rec.count(event.EventAlreadyMaxTier) != 3 {
		t.Errorf("expected 3 AlreadyMaxTier events, got %d", rec.count(event.EventAlreadyMaxTier))
	}

	// Win is the event right after the final TierAdvanced
	for i, ev := range rec.events {
		if ev.Type == event.EventWinConditionReached {
			prev := rec.events[i-1]
			if prev.Type != event.EventTierAdvanced || prev.Payload.(*event.TierAdvancedPayload).Tier != 4 {
				t.Errorf("win not preceded by final TierAdvanced: %v", prev)
			}
		}
	}
}

func TestNextCost(t *testing.T) {
	p := referenceProgression(t)
	c, ok := p.NextCost()
	if !ok || c != UniformCost(20) {
		t.Errorf("NextCost = %v, %v", c, ok)
	}

	p2, _ := NewProgression(UniformCostTable([]int{0, 1}))
	l := NewLedger()
	fill(l, 1)
	p2.AttemptUpgrade(l, nil)
	if _, ok := p2.NextCost(); ok {
		t.Error("NextCost should report false at max tier")
	}
}

// TestEconomyRandomWalkStaysConsistent drives random clicks, deductions and upgrades
// and checks that counts stay non-negative and tier never decreases
func TestEconomyRandomWalkStaysConsistent(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	p := referenceProgression(t)
	l := NewLedger()
	rec := &recorder{}

	lastTier := 0
	for step := 0; step < 20000; step++ {
		rt := core.ResourceType(rng.IntN(int(core.ResourceCount)))
		switch rng.IntN(10) {
		case 0:
			l.Deduct(rt, rng.IntN(40))
		case 1:
			p.AttemptUpgrade(l, rec)
		default:
			l.Increment(rt, 1)
		}

		for _, c := range l.Snapshot() {
			if c < 0 {
				t.Fatalf("step %d: negative count %v", step, l.Snapshot())
			}
		}
		if p.Tier() < lastTier || p.Tier() > p.MaxTier() {
			t.Fatalf("step %d: tier moved from %d to %d", step, lastTier, p.Tier())
		}
		lastTier = p.Tier()
	}

	if n := rec.count(event.EventWinConditionReached); n > 1 {
		t.Errorf("win emitted %d times", n)
	}
}
