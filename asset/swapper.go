// Package asset drives visual asset swaps after tier advances.
//
// Swaps are fire-and-forget from the session's point of view. A failed load
// never rolls back the logical tier; it is reported and retried with
// exponential backoff until it succeeds, runs out of attempts, is superseded
// by a newer request, or the swapper stops.
package asset

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/lixenwraith/timeforge/core"
	"github.com/lixenwraith/timeforge/event"
	"github.com/lixenwraith/timeforge/parameter"
)

// ErrUnavailable marks a load failure that retrying cannot fix
// Loaders wrap it for tiers they have no asset for
var ErrUnavailable = errors.New("asset unavailable")

// Loader installs the visual asset for a tier
// Implemented by the rendering host; errors are transient unless they wrap ErrUnavailable
type Loader interface {
	Load(ctx context.Context, tier int) error
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(ctx context.Context, tier int) error

func (f LoaderFunc) Load(ctx context.Context, tier int) error { return f(ctx, tier) }

// RetryPolicy bounds the swap retry loop
type RetryPolicy struct {
	Initial     time.Duration
	MaxInterval time.Duration
	MaxTries    uint
}

// DefaultRetryPolicy returns the production retry bounds
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Initial:     parameter.AssetRetryInitial,
		MaxInterval: parameter.AssetRetryMaxInterval,
		MaxTries:    parameter.AssetRetryMaxTries,
	}
}

// Swapper serializes swap requests; a new request cancels the one in flight
type Swapper struct {
	loader Loader
	emit   event.Emitter
	policy RetryPolicy

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inflight context.CancelFunc
	stopped  bool
	wg       sync.WaitGroup

	current atomic.Int64 // Last successfully installed tier, -1 before the first
}

// NewSwapper creates a swapper reporting through emit
func NewSwapper(loader Loader, emit event.Emitter, policy RetryPolicy) *Swapper {
	if emit == nil {
		emit = event.Discard
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Swapper{
		loader: loader,
		emit:   emit,
		policy: policy,
		ctx:    ctx,
		cancel: cancel,
	}
	s.current.Store(-1)
	return s
}

// Request starts installing the asset for tier and returns immediately
func (s *Swapper) Request(tier int) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.inflight != nil {
		s.inflight()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	core.Go(func() {
		defer s.wg.Done()
		defer cancel()
		s.swap(ctx, tier)
	})
}

// Current returns the last successfully installed tier, -1 if none
func (s *Swapper) Current() int {
	return int(s.current.Load())
}

// Stop cancels pending retries and waits for the worker to exit
func (s *Swapper) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Swapper) swap(ctx context.Context, tier int) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.policy.Initial
	b.MaxInterval = s.policy.MaxInterval

	attempt := 0
	op := func() (struct{}, error) {
		attempt++
		err := s.loader.Load(ctx, tier)
		if err == nil {
			return struct{}{}, nil
		}
		if ctx.Err() != nil {
			return struct{}{}, backoff.Permanent(ctx.Err())
		}
		s.emit.Emit(event.EventAssetSwapFailed, &event.AssetSwapFailedPayload{
			Tier:    tier,
			Attempt: attempt,
			Err:     err.Error(),
		})
		log.Printf("asset: tier %d load attempt %d failed: %v", tier, attempt, err)
		if errors.Is(err, ErrUnavailable) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(s.policy.MaxTries),
	)
	switch {
	case err == nil:
		// Tiers only grow; a late superseded success must not roll the visual back
		for {
			cur := s.current.Load()
			if int64(tier) <= cur || s.current.CompareAndSwap(cur, int64(tier)) {
				break
			}
		}
		s.emit.Emit(event.EventAssetSwapped, &event.TierPayload{Tier: tier})
	case errors.Is(err, context.Canceled):
		log.Printf("asset: tier %d swap superseded or stopped", tier)
	default:
		log.Printf("asset: giving up on tier %d after %d attempts: %v", tier, attempt, err)
	}
}
