package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 48000

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Sound Shapes
const (
	CollectSoundDuration    = 60 * time.Millisecond
	CollectSoundFreq        = 880.0
	RejectSoundDuration     = 150 * time.Millisecond
	RejectSoundFreq         = 120.0
	AdvanceSoundDuration    = 400 * time.Millisecond
	AdvanceSoundFreq        = 440.0
	FanfareSoundDuration    = 1200 * time.Millisecond
	FanfareSoundFreq        = 523.25
	DisruptionSoundDuration = 300 * time.Millisecond
)

// DefaultMasterVolume applies when no volume is configured
const DefaultMasterVolume = 0.6

// Envelope shaping, shared by all tones
const (
	SoundAttack  = 5 * time.Millisecond
	SoundRelease = 40 * time.Millisecond
)
