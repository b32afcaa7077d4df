package event

// EventType represents the type of game event
type EventType int

const (
	// === Session Events ===

	// EventSessionStarted marks the start of frame-driven evaluation
	// Trigger: Session.Start | Payload: nil
	EventSessionStarted EventType = iota

	// EventSessionStopped marks the end of the session, no tick follows it
	// Trigger: Session.Stop | Payload: nil
	EventSessionStopped

	// EventPauseToggled reports the new pause state
	// Trigger: Session.TogglePause
	// Consumer: HUD | Payload: *PauseToggledPayload
	EventPauseToggled

	// === Interaction Events ===

	// EventTargetResolved reports the logical target of a pointer event
	// Trigger: Interaction resolver found a mapped nearest hit
	// Consumer: Session routing | Payload: *TargetResolvedPayload
	EventTargetResolved

	// EventTargetMissed reports a pointer event with no mapped target
	// Trigger: Empty hit list or unmapped nearest id | Payload: nil
	EventTargetMissed

	// === Economy Events ===

	// EventResourceIncremented signals an island click credited the ledger
	// Consumer: AudioSystem, HUD | Payload: *ResourceIncrementedPayload
	EventResourceIncremented

	// EventUpgradeRejected signals an upgrade attempt without enough resources
	// No ledger or tier mutation accompanies it
	// Consumer: AudioSystem, HUD | Payload: *UpgradeRejectedPayload
	EventUpgradeRejected

	// EventAlreadyMaxTier signals an upgrade attempt at the terminal tier
	// Payload: *TierPayload
	EventAlreadyMaxTier

	// EventTierAdvanced signals cost deduction and tier increment
	// Consumer: AssetSwapper, AudioSystem, HUD | Payload: *TierAdvancedPayload
	EventTierAdvanced

	// EventWinConditionReached fires once per session when the terminal tier is reached
	// Consumer: AudioSystem, HUD | Payload: *TierPayload
	EventWinConditionReached

	// === Disruption Events ===

	// EventDisruptionEvaluated reports a scheduler trial outcome
	// Trigger: Tick past the disruption interval while unpaused
	// Payload: *DisruptionEvaluatedPayload
	EventDisruptionEvaluated

	// EventDisruptionApplied reports a per-resource loss from a successful trial
	// Emitted once per resource with a non-zero deduction
	// Consumer: AudioSystem, HUD | Payload: *DisruptionAppliedPayload
	EventDisruptionApplied

	// === Asset Events ===

	// EventAssetSwapped confirms the visual asset for a tier is in place
	// Payload: *TierPayload
	EventAssetSwapped

	// EventAssetSwapFailed reports a failed swap attempt that will be retried
	// Payload: *AssetSwapFailedPayload
	EventAssetSwapFailed

	// EventTypeCount is the number of defined event types
	EventTypeCount
)

var eventNames = [EventTypeCount]string{
	"SessionStarted",
	"SessionStopped",
	"PauseToggled",
	"TargetResolved",
	"TargetMissed",
	"ResourceIncremented",
	"UpgradeRejected",
	"AlreadyMaxTier",
	"TierAdvanced",
	"WinConditionReached",
	"DisruptionEvaluated",
	"DisruptionApplied",
	"AssetSwapped",
	"AssetSwapFailed",
}

// String returns the registered event name
func (t EventType) String() string {
	if t < 0 || t >= EventTypeCount {
		return "Unknown"
	}
	return eventNames[t]
}

// ParseEventType returns the EventType for a registered name
func ParseEventType(name string) (EventType, bool) {
	for i, n := range eventNames {
		if n == name {
			return EventType(i), true
		}
	}
	return 0, false
}

// GameEvent is a single emitted notification
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}

// Emitter receives events produced by core operations
// Implementations stamp frame numbers and queue for later dispatch
type Emitter interface {
	Emit(t EventType, payload any)
}

// EmitterFunc adapts a function to Emitter
type EmitterFunc func(t EventType, payload any)

func (f EmitterFunc) Emit(t EventType, payload any) { f(t, payload) }

// Discard is an Emitter that drops every event
var Discard Emitter = EmitterFunc(func(EventType, any) {})
