package core

// SoundType represents different sound effects
type SoundType int

const (
	SoundCollect    SoundType = iota // Island clicked
	SoundReject                      // Upgrade attempt without enough resources
	SoundAdvance                     // Time machine tier advanced
	SoundFanfare                     // Final tier reached
	SoundDisruption                  // Resources lost to a disruption
	SoundTypeCount
)

var soundNames = [SoundTypeCount]string{"collect", "reject", "advance", "fanfare", "disruption"}

// String returns the lowercase sound name used in volume configuration
func (s SoundType) String() string {
	if s < 0 || s >= SoundTypeCount {
		return "unknown"
	}
	return soundNames[s]
}
