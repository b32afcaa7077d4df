package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// ManualTime is a TimeProvider that moves only when Advance is called
type ManualTime struct {
	start   time.Time
	elapsed atomic.Int64
}

// NewManualTime reads start until the first Advance
func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{start: start}
}

func (m *ManualTime) Now() time.Time {
	return m.start.Add(time.Duration(m.elapsed.Load()))
}

// Advance moves time forward by d and returns the new reading
func (m *ManualTime) Advance(d time.Duration) time.Time {
	return m.start.Add(time.Duration(m.elapsed.Add(int64(d))))
}

// ManualFrameSource is a FrameSource driven explicitly by tests and embedding hosts
type ManualFrameSource struct {
	mu      sync.Mutex
	tick    func(time.Time)
	started int
	stopped int
}

// NewManualFrameSource creates an idle manual frame source
func NewManualFrameSource() *ManualFrameSource {
	return &ManualFrameSource{}
}

// Start records the tick callback
func (m *ManualFrameSource) Start(tick func(time.Time)) func() {
	m.mu.Lock()
	m.tick = tick
	m.started++
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.tick = nil
			m.stopped++
			m.mu.Unlock()
		})
	}
}

// Fire invokes the registered callback once; returns false when not started or stopped
func (m *ManualFrameSource) Fire(now time.Time) bool {
	m.mu.Lock()
	tick := m.tick
	m.mu.Unlock()
	if tick == nil {
		return false
	}
	tick(now)
	return true
}

// Counts returns how many times Start and stop were called
func (m *ManualFrameSource) Counts() (started, stopped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started, m.stopped
}
