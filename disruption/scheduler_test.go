package disruption

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/lixenwraith/timeforge/core"
	"github.com/lixenwraith/timeforge/economy"
	"github.com/lixenwraith/timeforge/event"
)

// scriptedSource returns fixed trial values and echoes the upper bound for IntN
type scriptedSource struct {
	floats []float64
	intns  []int // Bounds received by IntN
	pick   func(n int) int
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) IntN(n int) int {
	s.intns = append(s.intns, n)
	if s.pick != nil {
		return s.pick(n)
	}
	return n - 1
}

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func filledLedger(n int) *economy.Ledger {
	l := economy.NewLedger()
	for _, rt := range core.ResourceTypes() {
		l.Increment(rt, n)
	}
	return l
}

func testConfig() Config {
	return Config{Interval: 10 * time.Second, TriggerProbability: 0.5, MaxDeductionFraction: 0.8}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", testConfig(), true},
		{"bounds", Config{Interval: time.Millisecond, TriggerProbability: 1, MaxDeductionFraction: 0}, true},
		{"zero interval", Config{TriggerProbability: 0.5, MaxDeductionFraction: 0.5}, false},
		{"probability high", Config{Interval: time.Second, TriggerProbability: 1.1}, false},
		{"probability negative", Config{Interval: time.Second, TriggerProbability: -0.1}, false},
		{"fraction high", Config{Interval: time.Second, MaxDeductionFraction: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := New(testConfig(), nil, epoch); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil source should be rejected, got %v", err)
	}
}

func TestTickTooEarlyIsNoop(t *testing.T) {
	src := &scriptedSource{}
	s, _ := New(testConfig(), src, epoch)
	l := filledLedger(20)

	out := s.Tick(epoch.Add(9*time.Second), false, l, nil)
	if out.Evaluated {
		t.Error("tick before interval must not evaluate")
	}
	if !s.LastTrigger().Equal(epoch) {
		t.Error("early tick must not move the window")
	}
	if s.Remaining(epoch.Add(9*time.Second)) != time.Second {
		t.Errorf("unexpected remaining %v", s.Remaining(epoch.Add(9*time.Second)))
	}
}

func TestFailedTrialStillConsumesWindow(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.9}}
	s, _ := New(testConfig(), src, epoch)
	l := filledLedger(20)
	var evs []event.EventType
	emit := event.EmitterFunc(func(t event.EventType, _ any) { evs = append(evs, t) })

	now := epoch.Add(10 * time.Second)
	out := s.Tick(now, false, l, emit)
	if !out.Evaluated || out.Triggered {
		t.Fatalf("expected evaluated, not triggered: %+v", out)
	}
	if l.Snapshot() != ([core.ResourceCount]int{20, 20, 20, 20}) {
		t.Errorf("failed trial mutated ledger: %v", l.Snapshot())
	}
	if !s.LastTrigger().Equal(now) {
		t.Error("failed trial must reset the window")
	}
	if len(evs) != 1 || evs[0] != event.EventDisruptionEvaluated {
		t.Errorf("unexpected events %v", evs)
	}

	// Immediately after, the window is closed again
	if out := s.Tick(now.Add(time.Second), false, l, emit); out.Evaluated {
		t.Error("failed trial must not be retried immediately")
	}
}

func TestTriggeredTrialBounds(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.1}}
	s, _ := New(testConfig(), src, epoch)
	l := filledLedger(20)

	out := s.Tick(epoch.Add(10*time.Second), false, l, nil)
	if !out.Triggered {
		t.Fatal("expected trigger")
	}

	// floor(20*0.8) = 16, draw from [0,16] means IntN(17)
	for i, n := range src.intns {
		if n != 17 {
			t.Errorf("draw %d: bound %d, want 17", i, n)
		}
	}
	for _, rt := range core.ResourceTypes() {
		if got := l.Query(rt); got != 4 {
			t.Errorf("%v: expected 4 after max draw, got %d", rt, got)
		}
		if out.Deducted[rt] != 16 {
			t.Errorf("%v: deducted %d", rt, out.Deducted[rt])
		}
	}
}

func TestTriggeredTrialSkipsSmallCounts(t *testing.T) {
	src := &scriptedSource{floats: []float64{0}}
	s, _ := New(testConfig(), src, epoch)
	l := economy.NewLedger()
	l.Increment(core.ResourceMetal, 1) // floor(0.8) = 0, nothing to draw
	l.Increment(core.ResourceWood, 5)  // floor(4.0) = 4

	var applied []*event.DisruptionAppliedPayload
	emit := event.EmitterFunc(func(t event.EventType, p any) {
		if t == event.EventDisruptionApplied {
			applied = append(applied, p.(*event.DisruptionAppliedPayload))
		}
	})
	s.Tick(epoch.Add(time.Minute), false, l, emit)

	if len(src.intns) != 1 || src.intns[0] != 5 {
		t.Errorf("expected a single draw bounded by 5, got %v", src.intns)
	}
	if l.Query(core.ResourceMetal) != 1 || l.Query(core.ResourceWood) != 1 {
		t.Errorf("unexpected ledger %v", l.Snapshot())
	}
	if len(applied) != 1 || applied[0].Resource != core.ResourceWood || applied[0].Amount != 4 || applied[0].Remaining != 1 {
		t.Errorf("unexpected applied events %+v", applied)
	}
}

func TestPausedTickFreezesWindow(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.1}, pick: func(int) int { return 0 }}
	s, _ := New(testConfig(), src, epoch)
	l := filledLedger(20)

	// Five intervals pass while paused
	for i := 1; i <= 5; i++ {
		out := s.Tick(epoch.Add(time.Duration(i)*10*time.Second), true, l, nil)
		if out.Evaluated {
			t.Fatalf("paused tick %d evaluated", i)
		}
	}
	if !s.LastTrigger().Equal(epoch) {
		t.Error("paused ticks must not advance the window")
	}
	if l.Snapshot() != ([core.ResourceCount]int{20, 20, 20, 20}) {
		t.Error("paused ticks mutated the ledger")
	}

	// One evaluation on resume, not five
	resume := epoch.Add(51 * time.Second)
	if out := s.Tick(resume, false, l, nil); !out.Evaluated {
		t.Fatal("expected evaluation on first unpaused tick")
	}
	if out := s.Tick(resume.Add(time.Millisecond), false, l, nil); out.Evaluated {
		t.Error("backlog evaluation after resume")
	}
}

func TestSeededDeductionsStayInRange(t *testing.T) {
	cfg := Config{Interval: time.Second, TriggerProbability: 1, MaxDeductionFraction: 0.8}
	for seed := uint64(1); seed <= 200; seed++ {
		s, _ := New(cfg, rand.New(rand.NewPCG(seed, seed)), epoch)
		l := filledLedger(20)

		out := s.Tick(epoch.Add(time.Second), false, l, nil)
		if !out.Triggered {
			t.Fatalf("seed %d: probability 1 must trigger", seed)
		}
		for _, rt := range core.ResourceTypes() {
			got := l.Query(rt)
			if got < 4 || got > 20 {
				t.Errorf("seed %d %v: count %d outside [4,20]", seed, rt, got)
			}
			if out.Deducted[rt] != 20-got {
				t.Errorf("seed %d %v: outcome %d disagrees with ledger %d", seed, rt, out.Deducted[rt], got)
			}
		}
	}
}

func TestSeededRunIsDeterministic(t *testing.T) {
	run := func() [core.ResourceCount]int {
		cfg := Config{Interval: time.Second, TriggerProbability: 0.5, MaxDeductionFraction: 0.5}
		s, _ := New(cfg, rand.New(rand.NewPCG(7, 11)), epoch)
		l := filledLedger(1000)
		for i := 1; i <= 50; i++ {
			s.Tick(epoch.Add(time.Duration(i)*time.Second), false, l, nil)
		}
		return l.Snapshot()
	}
	if a, b := run(), run(); a != b {
		t.Errorf("same seed diverged: %v vs %v", a, b)
	}
}

func TestZeroProbabilityNeverTriggers(t *testing.T) {
	cfg := Config{Interval: time.Second, TriggerProbability: 0, MaxDeductionFraction: 1}
	s, _ := New(cfg, rand.New(rand.NewPCG(1, 2)), epoch)
	l := filledLedger(50)
	for i := 1; i <= 100; i++ {
		if out := s.Tick(epoch.Add(time.Duration(i)*time.Second), false, l, nil); out.Triggered {
			t.Fatalf("tick %d triggered with probability 0", i)
		}
	}
}
