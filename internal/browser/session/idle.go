// internal/browser/session/idle.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"go.uber.org/zap"
)

const idleCheckFrequency = 100 * time.Millisecond

// idleTracker counts in-flight requests from network domain events so a page
// can wait for network idle. Handlers run on chromedp's event goroutine.
type idleTracker struct {
	logger *zap.Logger

	mu       sync.Mutex
	inFlight map[network.RequestID]struct{}
}

func newIdleTracker(logger *zap.Logger) *idleTracker {
	return &idleTracker{
		logger:   logger,
		inFlight: make(map[network.RequestID]struct{}),
	}
}

// handle is registered with chromedp.ListenTarget.
func (t *idleTracker) handle(ev interface{}) {
	switch ev := ev.(type) {
	case *network.EventRequestWillBeSent:
		// Redirects reuse the request id, so the set stays balanced.
		t.mu.Lock()
		t.inFlight[ev.RequestID] = struct{}{}
		t.mu.Unlock()
	case *network.EventLoadingFinished:
		t.done(ev.RequestID)
	case *network.EventLoadingFailed:
		t.done(ev.RequestID)
	}
}

func (t *idleTracker) done(id network.RequestID) {
	t.mu.Lock()
	delete(t.inFlight, id)
	t.mu.Unlock()
}

func (t *idleTracker) active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inFlight)
}

// reset forgets every tracked request. Long-polling requests left over from a
// previous document would otherwise block idle forever.
func (t *idleTracker) reset() {
	t.mu.Lock()
	t.inFlight = make(map[network.RequestID]struct{})
	t.mu.Unlock()
}

// wait blocks until no request has been in flight for the quiet period.
func (t *idleTracker) wait(ctx context.Context, quiet time.Duration) error {
	timer := time.NewTimer(quiet)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	ticker := time.NewTicker(idleCheckFrequency)
	defer ticker.Stop()

	idle := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if t.active() > 0 {
				if idle {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					idle = false
				}
				continue
			}
			if !idle {
				timer.Reset(quiet)
				idle = true
			}
		case <-timer.C:
			t.logger.Debug("Network is idle.")
			return nil
		}
	}
}
