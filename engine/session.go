// Package engine contains the session loop that owns one game's economy.
//
// A Session owns exactly one ledger, progression machine and disruption
// scheduler. Pointer events, frame ticks and pause toggles are serialized:
// each runs resolution, mutation and event dispatch to completion before the
// next one starts. Pause gates only the disruption scheduler and the daylight
// cycle; clicks and upgrades stay live while paused.
package engine

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/timeforge/asset"
	"github.com/lixenwraith/timeforge/core"
	"github.com/lixenwraith/timeforge/disruption"
	"github.com/lixenwraith/timeforge/economy"
	"github.com/lixenwraith/timeforge/event"
	"github.com/lixenwraith/timeforge/interaction"
	"github.com/lixenwraith/timeforge/parameter"
	"github.com/lixenwraith/timeforge/status"
)

var (
	// ErrSessionStopped is returned when starting a session that was stopped
	ErrSessionStopped = errors.New("session stopped")

	// ErrSessionRunning is returned when starting a session twice
	ErrSessionRunning = errors.New("session already running")
)

const (
	stateIdle int32 = iota
	stateRunning
	stateStopped
)

var stateNames = [...]string{stateIdle: "idle", stateRunning: "running", stateStopped: "stopped"}

// SessionConfig is the validated static configuration of one session
type SessionConfig struct {
	Costs      economy.CostTable
	Targets    map[string]interaction.Target
	Disruption disruption.Config
	Seed       uint64
	DayLength  time.Duration

	// FreezeDisruptionOnPause feeds the scheduler game time instead of frame time,
	// so the countdown resumes where it stopped instead of firing on the first frame
	FreezeDisruptionOnPause bool
}

// DefaultSessionConfig returns the reference content
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Costs:   economy.UniformCostTable(parameter.ReferenceTierCosts[:]),
		Targets: interaction.DefaultTable(),
		Disruption: disruption.Config{
			Interval:             parameter.DisruptionInterval,
			TriggerProbability:   parameter.DisruptionProbability,
			MaxDeductionFraction: parameter.DisruptionMaxFraction,
		},
		Seed:      uint64(time.Now().UnixNano()),
		DayLength: parameter.DayLength,
	}
}

// State is a consistent read-only view of the session
type State struct {
	Counts     [core.ResourceCount]int
	Tier       int
	MaxTier    int
	Won        bool
	NextCost   economy.Cost
	HasNext    bool // False at the terminal tier
	Affordable bool // Next tier can be paid now
	Paused     bool
	Daylight   float64
	Frame      int64
	AssetTier  int // Last installed visual tier, -1 if none or no asset loader
}

// Option customizes session collaborators
type Option func(*sessionOptions)

type sessionOptions struct {
	timeProvider TimeProvider
	random       disruption.Source
	frames       FrameSource
	loader       asset.Loader
	retry        asset.RetryPolicy
	registry     *status.Registry
}

// WithTimeProvider sets the wall time source used for the scheduler epoch and game clock
func WithTimeProvider(tp TimeProvider) Option {
	return func(o *sessionOptions) { o.timeProvider = tp }
}

// WithRandom replaces the seeded PCG source used for disruption draws
func WithRandom(src disruption.Source) Option {
	return func(o *sessionOptions) { o.random = src }
}

// WithFrameSource sets the per-frame driver started by Start
func WithFrameSource(fs FrameSource) Option {
	return func(o *sessionOptions) { o.frames = fs }
}

// WithAssetLoader enables visual swaps after tier advances
func WithAssetLoader(l asset.Loader, policy asset.RetryPolicy) Option {
	return func(o *sessionOptions) {
		o.loader = l
		o.retry = policy
	}
}

// WithRegistry publishes session metrics into reg
func WithRegistry(reg *status.Registry) Option {
	return func(o *sessionOptions) { o.registry = reg }
}

// Session is one run of the game from Start to Stop
type Session struct {
	// opMu serializes operations together with their event dispatch
	opMu sync.Mutex

	// lifeMu orders Start and Stop so stopFrames is set before Stop reads it
	lifeMu sync.Mutex

	// mu guards ledger, progression, scheduler and daylight as one unit
	mu          sync.RWMutex
	ledger      *economy.Ledger
	progression *economy.Progression
	scheduler   *disruption.Scheduler
	daylight    float64

	resolver *interaction.Resolver
	clock    *PausableClock
	frames   FrameSource
	assets   *asset.Swapper

	stopFrames func()
	dayLength  time.Duration
	freeze     bool

	queue  *event.EventQueue
	router *event.Router[*Session]

	state  atomic.Int32
	paused atomic.Bool
	frame  atomic.Int64

	statusReg       *status.Registry
	statCounts      [core.ResourceCount]*atomic.Int64
	statTier        *atomic.Int64
	statFrames      *atomic.Int64
	statClicks      *atomic.Int64
	statEvaluations *atomic.Int64
	statTriggers    *atomic.Int64
	statPaused      *atomic.Bool
	statWon         *atomic.Bool
	statDaylight    *status.Gauge
	statState       *status.Label
	statDropped     *atomic.Int64
}

// NewSession validates cfg and builds the session's owned state
// Any configuration error is returned before a session exists
func NewSession(cfg SessionConfig, opts ...Option) (*Session, error) {
	o := sessionOptions{retry: asset.DefaultRetryPolicy()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeProvider == nil {
		o.timeProvider = NewMonotonicTimeProvider()
	}
	if o.random == nil {
		o.random = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}
	if o.registry == nil {
		o.registry = status.NewRegistry()
	}
	if cfg.DayLength < 0 {
		return nil, fmt.Errorf("session config: day length %v is negative", cfg.DayLength)
	}

	progression, err := economy.NewProgression(cfg.Costs)
	if err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	resolver, err := interaction.NewResolver(cfg.Targets)
	if err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}

	clock := NewPausableClock(o.timeProvider)
	scheduler, err := disruption.New(cfg.Disruption, o.random, clock.Now())
	if err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}

	queue := event.NewEventQueue()
	s := &Session{
		ledger:      economy.NewLedger(),
		progression: progression,
		scheduler:   scheduler,
		daylight:    Daylight(0, cfg.DayLength),
		resolver:    resolver,
		clock:       clock,
		frames:      o.frames,
		dayLength:   cfg.DayLength,
		freeze:      cfg.FreezeDisruptionOnPause,
		queue:       queue,
		statusReg:   o.registry,
	}
	s.router = event.NewRouter[*Session](queue)

	if o.loader != nil {
		s.assets = asset.NewSwapper(o.loader, asyncEmitter{s}, o.retry)
	}

	reg := o.registry
	for _, rt := range core.ResourceTypes() {
		s.statCounts[rt] = reg.Ints.Get("ledger." + rt.String())
	}
	s.statTier = reg.Ints.Get("progression.tier")
	s.statFrames = reg.Ints.Get("engine.frames")
	s.statClicks = reg.Ints.Get("engine.clicks")
	s.statEvaluations = reg.Ints.Get("disruption.evaluations")
	s.statTriggers = reg.Ints.Get("disruption.triggers")
	s.statPaused = reg.Bools.Get("engine.paused")
	s.statWon = reg.Bools.Get("progression.won")
	s.statDaylight = reg.Floats.Get("engine.daylight")
	s.statDaylight.Set(s.daylight)
	s.statDropped = reg.Ints.Get("event.dropped")
	s.statState = reg.Labels.Get("session.state")
	s.statState.Set(stateNames[stateIdle])

	return s, nil
}

// Register adds an event handler; must be called before Start
// Handlers run synchronously on the operation's goroutine, may call Snapshot,
// and must not call HandlePointer, AttemptUpgrade, Tick, TogglePause or Stop
func (s *Session) Register(h event.Handler[*Session]) {
	s.router.Register(h)
}

// Subscribe registers fn for the given event types; must be called before Start
func (s *Session) Subscribe(fn func(*Session, event.GameEvent), types ...event.EventType) {
	s.router.Subscribe(fn, types...)
}

// Registry returns the metrics registry
func (s *Session) Registry() *status.Registry {
	return s.statusReg
}

// Start begins frame-driven evaluation
func (s *Session) Start() error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if !s.state.CompareAndSwap(stateIdle, stateRunning) {
		if s.state.Load() == stateStopped {
			return ErrSessionStopped
		}
		return ErrSessionRunning
	}

	s.opMu.Lock()
	s.emit(event.EventSessionStarted, nil)
	s.router.DispatchAll(s)
	s.opMu.Unlock()

	if s.frames != nil {
		s.stopFrames = s.frames.Start(s.Tick)
	}
	s.statState.Set(stateNames[stateRunning])
	log.Printf("session: started, %d tiers", s.progression.MaxTier()+1)
	return nil
}

// Stop ends the session; after it returns no tick is evaluated
// Safe to call more than once and on a session never started
func (s *Session) Stop() {
	s.lifeMu.Lock()
	prev := s.state.Swap(stateStopped)
	if prev == stateStopped {
		s.lifeMu.Unlock()
		return
	}
	s.statState.Set(stateNames[stateStopped])
	if s.stopFrames != nil {
		s.stopFrames()
		s.stopFrames = nil
	}
	s.lifeMu.Unlock()

	if s.assets != nil {
		s.assets.Stop()
	}

	s.opMu.Lock()
	s.emit(event.EventSessionStopped, nil)
	s.router.DispatchAll(s)
	s.opMu.Unlock()

	log.Printf("session: stopped at frame %d, metrics %v", s.frame.Load(), s.statusReg.Dump())
}

// IsStopped reports whether Stop has been called
func (s *Session) IsStopped() bool {
	return s.state.Load() == stateStopped
}

// TogglePause flips the pause flag and returns the new state
func (s *Session) TogglePause() bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	paused := !s.paused.Load()
	s.paused.Store(paused)
	if paused {
		s.clock.Pause()
	} else {
		s.clock.Resume()
	}
	s.statPaused.Store(paused)

	s.emit(event.EventPauseToggled, &event.PauseToggledPayload{Paused: paused})
	s.router.DispatchAll(s)
	return paused
}

// IsPaused returns the pause flag
func (s *Session) IsPaused() bool {
	return s.paused.Load()
}

// HandlePointer resolves a pointer event against the host's hit list and applies it
// Island hits credit the ledger; the time machine attempts an upgrade
func (s *Session) HandlePointer(p interaction.Pointer, hits []interaction.Hit) interaction.Resolution {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	res := s.resolver.Resolve(p, hits)
	if s.IsStopped() {
		return res
	}
	s.statClicks.Add(1)

	switch res.Target.Kind {
	case interaction.TargetResource:
		s.emit(event.EventTargetResolved, &event.TargetResolvedPayload{
			TargetID: res.TargetID,
			Resource: res.Target.Resource,
		})
		s.collect(res.Target.Resource)
	case interaction.TargetUpgrade:
		s.emit(event.EventTargetResolved, &event.TargetResolvedPayload{
			TargetID: res.TargetID,
			Upgrade:  true,
		})
		s.upgrade()
	default:
		s.emit(event.EventTargetMissed, nil)
	}

	s.router.DispatchAll(s)
	return res
}

// AttemptUpgrade tries to advance the time machine directly, bypassing hit resolution
// After Stop it returns UpgradeIgnored and emits nothing
func (s *Session) AttemptUpgrade() economy.UpgradeResult {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.IsStopped() {
		return economy.UpgradeResult{Outcome: economy.UpgradeIgnored, Tier: s.Snapshot().Tier}
	}
	result := s.upgrade()
	s.router.DispatchAll(s)
	return result
}

// collect credits one click to rt; caller holds opMu
func (s *Session) collect(rt core.ResourceType) {
	s.mu.Lock()
	count, err := s.ledger.Increment(rt, parameter.ClickYield)
	s.mu.Unlock()
	if err != nil {
		// Resolver validated the table, so this is a programming error
		log.Printf("session: collect %v: %v", rt, err)
		return
	}
	s.statCounts[rt].Store(int64(count))
	s.emit(event.EventResourceIncremented, &event.ResourceIncrementedPayload{
		Resource: rt,
		Amount:   parameter.ClickYield,
		Count:    count,
	})
}

// upgrade runs the progression machine; caller holds opMu
func (s *Session) upgrade() economy.UpgradeResult {
	s.mu.Lock()
	result := s.progression.AttemptUpgrade(s.ledger, s)
	counts := s.ledger.Snapshot()
	s.mu.Unlock()

	if result.Outcome != economy.UpgradeAdvanced {
		return result
	}

	s.publishCounts(counts)
	s.statTier.Store(int64(result.Tier))
	if result.Won {
		s.statWon.Store(true)
		log.Printf("session: time machine complete at tier %d", result.Tier)
	}
	if s.assets != nil {
		s.assets.Request(result.Tier)
	}
	return result
}

// Tick is the per-frame callback: disruption evaluation and daylight update
// No-op once the session is stopped
func (s *Session) Tick(now time.Time) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.IsStopped() {
		return
	}
	s.frame.Add(1)
	s.statFrames.Add(1)
	paused := s.paused.Load()

	s.mu.Lock()
	schedulerNow := now
	if s.freeze {
		schedulerNow = s.clock.Now()
	}
	out := s.scheduler.Tick(schedulerNow, paused, s.ledger, s)
	if !paused {
		s.daylight = Daylight(s.clock.Elapsed(), s.dayLength)
	}
	daylight := s.daylight
	counts := s.ledger.Snapshot()
	s.mu.Unlock()

	s.statDaylight.Set(daylight)
	if out.Evaluated {
		s.statEvaluations.Add(1)
	}
	if out.Triggered {
		s.statTriggers.Add(1)
		s.publishCounts(counts)
		log.Printf("session: disruption removed %v", out.Deducted)
	}

	s.router.DispatchAll(s)
	s.statDropped.Store(int64(s.queue.Dropped()))
}

// Snapshot returns a consistent view of the owned state
func (s *Session) Snapshot() State {
	s.mu.RLock()
	st := State{
		Counts:   s.ledger.Snapshot(),
		Tier:     s.progression.Tier(),
		MaxTier:  s.progression.MaxTier(),
		Won:      s.progression.Won(),
		Daylight: s.daylight,
	}
	st.NextCost, st.HasNext = s.progression.NextCost()
	if st.HasNext {
		_, st.Affordable = s.ledger.Covers(st.NextCost)
	}
	s.mu.RUnlock()

	st.Paused = s.paused.Load()
	st.Frame = s.frame.Load()
	st.AssetTier = -1
	if s.assets != nil {
		st.AssetTier = s.assets.Current()
	}
	return st
}

// DisruptionRemaining returns time until the scheduler may evaluate again, relative to now
func (s *Session) DisruptionRemaining(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.freeze {
		now = s.clock.Now()
	}
	return s.scheduler.Remaining(now)
}

// Resolver returns the immutable target table
func (s *Session) Resolver() *interaction.Resolver {
	return s.resolver
}

// Emit implements event.Emitter for core operations run under opMu
func (s *Session) Emit(t event.EventType, payload any) {
	s.emit(t, payload)
}

func (s *Session) emit(t event.EventType, payload any) {
	s.queue.EmitFrame(t, payload, s.frame.Load())
}

func (s *Session) publishCounts(counts [core.ResourceCount]int) {
	for i, c := range counts {
		s.statCounts[i].Store(int64(c))
	}
}

// asyncEmitter queues events from collaborator goroutines for the next dispatch
type asyncEmitter struct {
	s *Session
}

func (a asyncEmitter) Emit(t event.EventType, payload any) {
	a.s.emit(t, payload)
}
