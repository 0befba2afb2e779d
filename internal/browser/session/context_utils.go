// internal/browser/session/context_utils.go
package session

import (
	"context"
	"time"
)

// CombineContext returns a context carrying the values of ctx1 that is
// canceled when either ctx1 or ctx2 is done. chromedp keeps the target
// connection in ctx1 (the page context) while ctx2 carries the caller's
// deadline for a single operation.
func CombineContext(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	combinedCtx, cancel := context.WithCancel(ctx1)

	go func() {
		select {
		case <-ctx2.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	return combinedCtx, cancel
}

// valueOnlyContext keeps the parent's values but drops its deadline and
// cancellation.
type valueOnlyContext struct {
	context.Context
}

func (valueOnlyContext) Deadline() (deadline time.Time, ok bool) { return }
func (valueOnlyContext) Done() <-chan struct{}                   { return nil }
func (valueOnlyContext) Err() error                              { return nil }

// Detach returns a context that inherits values from ctx but is never
// canceled by it. Browser connections are rooted in a detached context so
// they outlive the attach call and are torn down only by Close.
func Detach(ctx context.Context) context.Context {
	return valueOnlyContext{ctx}
}
