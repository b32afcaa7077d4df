package event

import (
	"testing"

	"github.com/lixenwraith/timeforge/parameter"
)

func TestEventQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	q.EmitFrame(EventResourceIncremented, nil, 1)
	q.EmitFrame(EventUpgradeRejected, nil, 2)
	q.EmitFrame(EventTierAdvanced, nil, 3)

	if q.Pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", q.Pending())
	}

	got := q.Consume()
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	want := []EventType{EventResourceIncremented, EventUpgradeRejected, EventTierAdvanced}
	for i, ev := range got {
		if ev.Type != want[i] {
			t.Errorf("event %d: got %v, want %v", i, ev.Type, want[i])
		}
		if ev.Frame != int64(i+1) {
			t.Errorf("event %d: got frame %d", i, ev.Frame)
		}
	}

	if q.Consume() != nil {
		t.Error("expected empty queue after consume")
	}
}

func TestEventQueueOverflowKeepsNewest(t *testing.T) {
	q := NewEventQueue()
	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.EmitFrame(EventResourceIncremented, i, int64(i))
	}

	got := q.Consume()
	if len(got) != parameter.EventQueueSize {
		t.Fatalf("expected %d events, got %d", parameter.EventQueueSize, len(got))
	}
	if first := got[0].Payload.(int); first != 10 {
		t.Errorf("expected oldest surviving payload 10, got %d", first)
	}
	if last := got[len(got)-1].Payload.(int); last != total-1 {
		t.Errorf("expected newest payload %d, got %d", total-1, last)
	}
	if q.Dropped() != 10 {
		t.Errorf("expected 10 dropped, got %d", q.Dropped())
	}
	if q.Pending() != 0 {
		t.Errorf("expected empty queue, got %d pending", q.Pending())
	}
}

type recordingHandler struct {
	types []EventType
	seen  *[]string
	name  string
}

func (h recordingHandler) HandleEvent(_ int, ev GameEvent) {
	*h.seen = append(*h.seen, h.name+":"+ev.Type.String())
}

func (h recordingHandler) EventTypes() []EventType { return h.types }

func TestRouterDispatchOrder(t *testing.T) {
	q := NewEventQueue()
	r := NewRouter[int](q)

	var seen []string
	r.Register(recordingHandler{types: []EventType{EventTierAdvanced, EventWinConditionReached}, seen: &seen, name: "a"})
	r.Register(recordingHandler{types: []EventType{EventTierAdvanced}, seen: &seen, name: "b"})
	r.Subscribe(func(_ int, ev GameEvent) {
		seen = append(seen, "fn:"+ev.Type.String())
	}, EventWinConditionReached)

	q.EmitFrame(EventTierAdvanced, nil, 0)
	q.EmitFrame(EventWinConditionReached, nil, 0)
	q.EmitFrame(EventTargetMissed, nil, 0)

	if n := r.DispatchAll(0); n != 3 {
		t.Errorf("expected 3 consumed events, got %d", n)
	}

	want := []string{"a:TierAdvanced", "b:TierAdvanced", "a:WinConditionReached", "fn:WinConditionReached"}
	if len(seen) != len(want) {
		t.Fatalf("got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("dispatch %d: got %s, want %s", i, seen[i], want[i])
		}
	}

	if r.HandlerCount(EventTierAdvanced) != 2 {
		t.Errorf("expected 2 handlers for TierAdvanced, got %d", r.HandlerCount(EventTierAdvanced))
	}
}

func TestEventTypeNames(t *testing.T) {
	for et := EventType(0); et < EventTypeCount; et++ {
		name := et.String()
		if name == "" || name == "Unknown" {
			t.Errorf("event %d has no name", et)
			continue
		}
		back, ok := ParseEventType(name)
		if !ok || back != et {
			t.Errorf("ParseEventType(%q) = %v, %v", name, back, ok)
		}
	}
	if EventTypeCount.String() != "Unknown" {
		t.Error("sentinel should be Unknown")
	}
}
