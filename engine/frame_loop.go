package engine

import (
	"sync"
	"time"

	"github.com/lixenwraith/timeforge/core"
)

// FrameSource is the recurring per-frame driver supplied by the rendering host
// Start begins invoking tick once per frame and returns a stop function
// The stop function blocks until no further tick can run and is safe to call twice
type FrameSource interface {
	Start(tick func(now time.Time)) (stop func())
}

// FrameLoop is a ticker-backed FrameSource for hosts without their own frame callback
type FrameLoop struct {
	interval time.Duration
	provider TimeProvider
}

// NewFrameLoop creates a frame loop firing every interval
func NewFrameLoop(interval time.Duration, provider TimeProvider) *FrameLoop {
	if provider == nil {
		provider = NewMonotonicTimeProvider()
	}
	return &FrameLoop{interval: interval, provider: provider}
}

// Start launches the loop goroutine
// The returned stop function must not be called from inside tick
func (fl *FrameLoop) Start(tick func(now time.Time)) func() {
	stopChan := make(chan struct{})
	var wg sync.WaitGroup
	var once sync.Once

	wg.Add(1)
	core.Go(func() {
		defer wg.Done()

		ticker := time.NewTicker(fl.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopChan:
				return
			case <-ticker.C:
				// Stop wins over a tick that became ready at the same time
				select {
				case <-stopChan:
					return
				default:
				}
				tick(fl.provider.Now())
			}
		}
	})

	return func() {
		once.Do(func() {
			close(stopChan)
			wg.Wait()
		})
	}
}
