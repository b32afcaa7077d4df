package status

import (
	"sync"
	"testing"
)

func TestMetricMapCachesPointer(t *testing.T) {
	r := NewRegistry()

	a := r.Ints.Get("ledger.metal")
	b := r.Ints.Get("ledger.metal")
	if a != b {
		t.Fatal("expected the same pointer for repeated Get")
	}

	a.Add(3)
	if got := r.Ints.Get("ledger.metal").Load(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if !r.Ints.Has("ledger.metal") || r.Ints.Has("ledger.wood") {
		t.Error("Has reports wrong membership")
	}
}

func TestMetricMapConcurrentGet(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Ints.Get("engine.frames").Add(1)
			}
		}()
	}
	wg.Wait()

	if got := r.Ints.Get("engine.frames").Load(); got != 1600 {
		t.Errorf("expected 1600, got %d", got)
	}
	if r.Ints.Len() != 1 {
		t.Errorf("expected a single metric, got %d", r.Ints.Len())
	}
}

func TestRegistryDump(t *testing.T) {
	r := NewRegistry()
	r.Bools.Get("engine.paused").Store(true)
	r.Ints.Get("progression.tier").Store(2)
	r.Ints.Get("disruption.triggers").Store(1)
	r.Floats.Get("engine.daylight").Set(0.5)
	r.Labels.Get("session.state").Set("running")

	got := r.Dump()
	want := []string{
		"engine.paused=true",
		"disruption.triggers=1",
		"progression.tier=2",
		"engine.daylight=0.500",
		"session.state=running",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestZeroValuesRead(t *testing.T) {
	var l Label
	var g Gauge
	if l.Get() != "" || g.Get() != 0 {
		t.Errorf("zero values read %q and %v", l.Get(), g.Get())
	}
	l.Set("stopped")
	g.Set(0.25)
	if l.Get() != "stopped" || g.Get() != 0.25 {
		t.Errorf("got %q and %v", l.Get(), g.Get())
	}
}
