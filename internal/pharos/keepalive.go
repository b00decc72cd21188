package pharos

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultKeepaliveInterval refreshes the token slightly before the
// controller expires it.
const DefaultKeepaliveInterval = 270 * time.Second

// KeepaliveStatus records the outcome of the most recent keepalive ticks.
type KeepaliveStatus struct {
	Active              bool
	Ticks               int
	LastTick            time.Time
	LastError           error
	ConsecutiveFailures int
}

// keepalive is one cancellable token refresh loop. A nil *keepalive is a
// stopped loop.
type keepalive struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startKeepalive runs tick once immediately and then at every interval
// until the returned handle is stopped. It returns immediately. live counts
// loops that have started and not yet exited.
func startKeepalive(interval time.Duration, live *atomic.Int32, tick func(ctx context.Context)) *keepalive {
	if interval <= 0 {
		interval = DefaultKeepaliveInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	ka := &keepalive{cancel: cancel, done: make(chan struct{})}
	live.Add(1)
	go func() {
		defer close(ka.done)
		defer live.Add(-1)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			tick(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return ka
}

// stop cancels the loop and waits for it to exit. Safe on a nil handle and
// safe to call more than once.
func (k *keepalive) stop() {
	if k == nil {
		return
	}
	k.cancel()
	<-k.done
}
