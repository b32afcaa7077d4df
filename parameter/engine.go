package parameter

import "time"

// Game Loop & Engine Timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// InputQueueSize is the buffer between the host input poller and the session loop
	InputQueueSize = 256
)

// Event Ring Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255
)

// HUD
const (
	// NoticeFrames is how long a HUD notice stays up (~3s at 60 FPS)
	NoticeFrames = 180
)
