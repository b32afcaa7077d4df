// Package audio plays short tones for session events through the beep speaker.
//
// Audio is optional: when the device cannot be opened the player stays
// uninitialized and every call is a cheap no-op.
package audio

import (
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/timeforge/core"
	"github.com/lixenwraith/timeforge/engine"
	"github.com/lixenwraith/timeforge/event"
	"github.com/lixenwraith/timeforge/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// Player mixes event tones into a single speaker stream
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	initialized bool

	played  atomic.Uint64
	dropped atomic.Uint64
}

// NewPlayer creates an uninitialized player at volume in [0,1]
func NewPlayer(volume float64) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: clampVolume(volume),
	}
}

// Initialize opens the speaker; safe to call twice
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup silences the mixer
// beep has no speaker Close that is safe to call twice, so the device stays open
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Play queues st on the mixer; returns false when dropped
func (p *Player) Play(st core.SoundType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted || st < 0 || st >= core.SoundTypeCount {
		p.dropped.Add(1)
		return false
	}
	s := NewSound(st, p.volume, sampleRate)
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	p.played.Add(1)
	return true
}

// ToggleMute flips mute and returns the new state
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

// SetVolume sets linear master volume, clamped to [0,1]
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	p.volume = clampVolume(vol)
	p.mu.Unlock()
}

// IsEnabled reports whether the speaker is open
func (p *Player) IsEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Stats returns played and dropped counts
func (p *Player) Stats() (played, dropped uint64) {
	return p.played.Load(), p.dropped.Load()
}

// HandleEvent plays the tone mapped to ev
func (p *Player) HandleEvent(_ *engine.Session, ev event.GameEvent) {
	if st, ok := SoundFor(ev); ok {
		p.Play(st)
	}
}

// EventTypes lists the events that produce a tone
func (p *Player) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventResourceIncremented,
		event.EventUpgradeRejected,
		event.EventAlreadyMaxTier,
		event.EventTierAdvanced,
		event.EventWinConditionReached,
		event.EventDisruptionEvaluated,
	}
}

// SoundFor maps an event to its tone
// A disruption plays once per triggered trial, not once per resource lost
func SoundFor(ev event.GameEvent) (core.SoundType, bool) {
	switch ev.Type {
	case event.EventResourceIncremented:
		return core.SoundCollect, true
	case event.EventUpgradeRejected, event.EventAlreadyMaxTier:
		return core.SoundReject, true
	case event.EventTierAdvanced:
		return core.SoundAdvance, true
	case event.EventWinConditionReached:
		return core.SoundFanfare, true
	case event.EventDisruptionEvaluated:
		if p, ok := ev.Payload.(*event.DisruptionEvaluatedPayload); ok && p.Triggered {
			return core.SoundDisruption, true
		}
	}
	return 0, false
}

func clampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
